package lob

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrMissingAPIKey indicates the client was built without an API key
	ErrMissingAPIKey = errors.New("lob API key is required")
	// ErrUnauthorized matches API errors for rejected credentials
	ErrUnauthorized = errors.New("unauthorized: invalid API key")
	// ErrNotFound matches API errors for missing resources
	ErrNotFound = errors.New("resource not found")
	// ErrRateLimited matches API errors for exhausted rate limits
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrValidation matches every locally rejected request
	ErrValidation = errors.New("request failed local validation")
)

// Kind classifies an Error.
type Kind int

const (
	// KindAPI is an error payload returned by the API.
	KindAPI Kind = iota + 1
	// KindTransport is a network or protocol failure.
	KindTransport
	// KindSerialization is a local encode or decode failure.
	KindSerialization
	// KindValidation is a request rejected before it was sent.
	KindValidation
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindTransport:
		return "transport"
	case KindSerialization:
		return "serialization"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is returned by every Client operation.
type Error struct {
	Kind Kind
	// StatusCode is the HTTP status, when one was received.
	StatusCode int
	Message    string
	// Code is the machine-readable error code of an API error payload.
	Code string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindAPI:
		return fmt.Sprintf("lob API error: status %d: %s", e.StatusCode, e.Message)
	case KindTransport:
		if e.StatusCode != 0 {
			return fmt.Sprintf("lob transport error: status %d: %v", e.StatusCode, e.Err)
		}
		return fmt.Sprintf("lob transport error: %v", e.Err)
	case KindSerialization:
		if e.Err != nil {
			return fmt.Sprintf("lob serialization error: %s: %v", e.Message, e.Err)
		}
		return fmt.Sprintf("lob serialization error: %s", e.Message)
	case KindValidation:
		return fmt.Sprintf("lob validation error: %s", e.Message)
	default:
		return fmt.Sprintf("lob error: %s", e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether sending the same request again may succeed.
// API errors are retryable outside the 4xx range, transport errors unless
// the exchange ended in a 400, and local errors never.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindAPI:
		return !(e.StatusCode >= 400 && e.StatusCode < 500)
	case KindTransport:
		return e.StatusCode != http.StatusBadRequest
	default:
		return false
	}
}

// IsNotFound checks if the error indicates a not found response
func (e *Error) IsNotFound() bool {
	return e.Kind == KindAPI && e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *Error) IsUnauthorized() bool {
	return e.Kind == KindAPI && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.IsNotFound()
	case ErrUnauthorized:
		return e.IsUnauthorized()
	case ErrRateLimited:
		return e.Kind == KindAPI && e.StatusCode == http.StatusTooManyRequests
	case ErrValidation:
		return e.Kind == KindValidation
	}
	return false
}

// IsRetryable reports whether err is a retryable *Error.
func IsRetryable(err error) bool {
	var lobErr *Error
	if errors.As(err, &lobErr) {
		return lobErr.Retryable()
	}
	return false
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func serializationError(msg string, err error) *Error {
	return &Error{Kind: KindSerialization, Message: msg, Err: err}
}

func transportError(status int, err error) *Error {
	return &Error{Kind: KindTransport, StatusCode: status, Err: err}
}

// apiErrorPayload is the body the API sends with non-2xx responses.
type apiErrorPayload struct {
	Error *struct {
		Message    string `json:"message"`
		StatusCode int    `json:"status_code"`
		Code       string `json:"code"`
	} `json:"error"`
}
