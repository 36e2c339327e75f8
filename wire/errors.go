package wire

import "fmt"

// DecodeError reports a wire literal that could not be decoded into the
// expected type.
type DecodeError struct {
	// Value is the literal as it appeared on the wire.
	Value string
	// Type names the type the literal was decoded into.
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot decode %q as %s: %v", e.Value, e.Type, e.Err)
	}
	return fmt.Sprintf("cannot decode %q as %s", e.Value, e.Type)
}

// Unwrap returns the underlying decoder error, if any.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
