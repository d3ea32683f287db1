// Package errors provides structured error types for argviz.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into three groups:
//   - Transcript errors: NO_RESULT, MALFORMED_TREE, NOT_A_TREE
//   - Engine errors: ENGINE_TIMEOUT, EMPTY_OUTPUT, ENGINE_FAILED
//   - Generic errors: INVALID_INPUT, FILE_NOT_FOUND, INTERNAL_ERROR, UNSUPPORTED
//
// Engine errors are never conflated with transcript errors: an engine that
// timed out produced no text to parse, while a malformed transcript is a
// deterministic property of the text itself.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoResult, "no RESULT line in %d lines", n)
//	if errors.Is(err, errors.ErrCodeNoResult) {
//	    // nothing to render
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeEngineFailed, origErr, "run %s", program)
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Transcript errors
	ErrCodeNoResult      Code = "NO_RESULT"
	ErrCodeMalformedTree Code = "MALFORMED_TREE"
	ErrCodeNotATree      Code = "NOT_A_TREE"

	// Engine errors
	ErrCodeEngineTimeout Code = "ENGINE_TIMEOUT"
	ErrCodeEmptyOutput   Code = "EMPTY_OUTPUT"
	ErrCodeEngineFailed  Code = "ENGINE_FAILED"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidQuery  Code = "INVALID_QUERY"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// TimeoutError reports that the reasoning engine did not answer in time.
type TimeoutError struct {
	After   time.Duration // Configured timeout that expired
	Program string        // Program the engine was consulting
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Program != "" {
		return fmt.Sprintf("engine timed out after %s consulting %s", e.After, e.Program)
	}
	return fmt.Sprintf("engine timed out after %s", e.After)
}

// Code returns the error code for this error type.
func (e *TimeoutError) Code() Code {
	return ErrCodeEngineTimeout
}
