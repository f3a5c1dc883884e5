// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-shm library.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrPoolExhausted   = fmt.Errorf("chunk pool exhausted")
	ErrPoolClosed      = fmt.Errorf("chunk pool is closed")
	ErrSegmentClosed   = fmt.Errorf("shared memory segment is closed")
	ErrChunkTooLarge   = fmt.Errorf("payload exceeds largest chunk class")
	ErrTypeMismatch    = fmt.Errorf("chunk payload type mismatch")
	ErrRouterClosed    = fmt.Errorf("router is closed")
	ErrNoChunks        = fmt.Errorf("no chunk available")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrNotFound        = fmt.Errorf("resource not found")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodePoolExhausted
	ErrCodeTypeMismatch
	ErrCodeClosed
	ErrCodeNotFound
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
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
