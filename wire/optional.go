package wire

import (
	"encoding/json"
	"fmt"
)

// Optional holds a value that the API encodes as "" when it is absent.
//
// The zero value is absent.
type Optional[T any] struct {
	value T
	valid bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, valid: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// Valid reports whether a value is present.
func (o Optional[T]) Valid() bool {
	return o.valid
}

// Or returns the held value, or def when absent.
func (o Optional[T]) Or(def T) T {
	if o.valid {
		return o.value
	}
	return def
}

// String renders the held value with fmt, or "" when absent.
func (o Optional[T]) String() string {
	if !o.valid {
		return ""
	}
	return fmt.Sprint(o.value)
}

// MarshalJSON encodes an absent value as "" and a present one with the
// held type's own encoding.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte(`""`), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes "" as absent and hands any other string to the held
// type's decoder.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &DecodeError{Value: string(data), Type: "string", Err: err}
	}
	if s == "" {
		*o = Optional[T]{}
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return &DecodeError{Value: s, Type: fmt.Sprintf("%T", v), Err: err}
	}
	*o = Some(v)
	return nil
}
