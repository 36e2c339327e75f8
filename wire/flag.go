package wire

import "encoding/json"

// Flag is a tri-state boolean carried on the wire as "Y", "N" or "".
type Flag uint8

const (
	// FlagUnset is the "" literal: the API did not say.
	FlagUnset Flag = iota
	// FlagYes is the "Y" literal.
	FlagYes
	// FlagNo is the "N" literal.
	FlagNo
)

// FlagOf converts a known boolean into a Flag.
func FlagOf(b bool) Flag {
	if b {
		return FlagYes
	}
	return FlagNo
}

// Bool returns the boolean value and whether it is known.
func (f Flag) Bool() (value, ok bool) {
	switch f {
	case FlagYes:
		return true, true
	case FlagNo:
		return false, true
	default:
		return false, false
	}
}

// String returns the wire literal.
func (f Flag) String() string {
	switch f {
	case FlagYes:
		return "Y"
	case FlagNo:
		return "N"
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON accepts exactly "Y", "N" and "".
func (f *Flag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &DecodeError{Value: string(data), Type: "Y/N flag", Err: err}
	}

	switch s {
	case "Y":
		*f = FlagYes
	case "N":
		*f = FlagNo
	case "":
		*f = FlagUnset
	default:
		return &DecodeError{Value: s, Type: "Y/N flag"}
	}
	return nil
}
