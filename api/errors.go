// File: api/errors.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Common error types and sentinels used across the library.

package api

import "fmt"

// Sentinel errors. Platform failures wrap these so callers can branch with
// errors.Is without inspecting OS-specific values.
var (
	ErrNotInitialized  = fmt.Errorf("scheduler not initialized")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrNotSupported    = fmt.Errorf("operation not supported on this platform")
	ErrInvalidTopology = fmt.Errorf("invalid core topology")
	ErrPriorityDenied  = fmt.Errorf("scheduling priority denied")
)

// ErrorCode classifies scheduler failure domains.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeDetection
	ErrCodeAffinity
	ErrCodePriority
	ErrCodeConfig
)

// Error is a structured failure with a domain code and free-form context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (context: %+v)", msg, e.Context)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithCause records the underlying error.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}
