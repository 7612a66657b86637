package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors used across usecases. Wrap them with context at the call
// site so handlers can map them with errors.Is.
var (
	// ErrNotFound marks lookups for entities that do not exist or are not
	// owned by the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrPrecondition marks operations rejected before any state mutation
	// (missing SMTP config, no pending recipients).
	ErrPrecondition = errors.New("precondition failed")
)

// ValidationError reports malformed input rejected before persistence
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidation builds a ValidationError with a formatted message
func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// TemplateError reports syntactically malformed template text
type TemplateError struct {
	Msg string
}

func (e *TemplateError) Error() string {
	return "template: " + e.Msg
}

// TransportError wraps an SMTP connection, authentication or protocol
// failure
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("smtp transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
