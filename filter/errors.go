package filter

import (
	"fmt"
)

type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Err        error
	}

	// EvaluationError indicates an expression failed at runtime for one record,
	// for example when comparing a field the record kind does not carry.
	EvaluationError struct {
		Expression string
		RecordID   string
		Kind       string
		Err        error
	}

	// UnknownFilterError is returned by the Manager for an unregistered preset
	UnknownFilterError struct {
		Name string
	}
)

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compile filter %q: %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("compile filter %q: %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate filter %q on %s %s: %v", e.Expression, e.Kind, e.RecordID, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("filter preset %q not found", e.Name)
}
