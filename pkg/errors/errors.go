// Package errors provides structured error types for benchdraw.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP shell
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Catalog or file lookups that found nothing
//   - COMPILER_*: External typesetting failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeArchetypeNotFound, "unknown archetype: %s", name)
//	if errors.Is(err, errors.ErrCodeArchetypeNotFound) {
//	    // Ask the user to pick again
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCompilerFailure, runErr, "%s", stderr)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidPath        Code = "INVALID_PATH"
	ErrCodeDuplicateArchetype Code = "DUPLICATE_ARCHETYPE"
	ErrCodeMissingParam       Code = "MISSING_PARAM"

	// Lookup errors
	ErrCodeArchetypeNotFound Code = "ARCHETYPE_NOT_FOUND"
	ErrCodeSetupNotFound     Code = "SETUP_NOT_FOUND"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	// Partial results
	ErrCodeSetupPartial Code = "SETUP_PARTIAL"
	ErrCodeParseFailure Code = "PARSE_FAILURE"

	// External compiler errors
	ErrCodeCompilerFailure Code = "COMPILER_FAILURE"
	ErrCodeCompilerMissing Code = "COMPILER_MISSING"

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

// Recoverable reports whether the caller can retry the action after
// correcting its input. Every coded error except INTERNAL_ERROR is
// recoverable; uncoded errors are treated as internal.
func Recoverable(err error) bool {
	code := GetCode(err)
	return code != "" && code != ErrCodeInternal
}
