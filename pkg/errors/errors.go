// Package errors provides structured error types for the y0 command line
// tool and HTTP API.
//
// The engine packages (graph, identify, ioscm, hcm) report failures with
// plain sentinel errors. At the boundary, where a failure is shown to a user
// or serialized into a response, those errors are wrapped in an [Error]
// carrying a machine-readable [Code]:
//   - INVALID_*: the graph, query, or file could not be accepted
//   - PRECONDITION_FAILED: an engine entry point was called outside its contract
//   - RECURSION_LIMIT: the configured depth ceiling was reached
//   - NOT_FOUND, INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidQuery, "outcome %s is not in the graph", y)
//	if errors.Is(err, errors.ErrCodeInvalidQuery) {
//	    // reject the request
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidGraph, cause, "reading %s", path)
//
// An unidentifiable query is an ordinary result, never an error.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidGraph     Code = "INVALID_GRAPH"
	ErrCodeInvalidQuery     Code = "INVALID_QUERY"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidVariable  Code = "INVALID_VARIABLE"
	ErrCodeInvalidAlgorithm Code = "INVALID_ALGORITHM"

	// Engine errors
	ErrCodePrecondition   Code = "PRECONDITION_FAILED"
	ErrCodeRecursionLimit Code = "RECURSION_LIMIT"
	ErrCodeCanceled       Code = "CANCELED"

	// Resource errors
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

// HTTPStatus maps a code to the status an API response should carry.
// Unknown and empty codes map to 500.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidGraph, ErrCodeInvalidQuery,
		ErrCodeInvalidFormat, ErrCodeInvalidVariable, ErrCodeInvalidAlgorithm:
		return http.StatusBadRequest
	case ErrCodePrecondition:
		return http.StatusUnprocessableEntity
	case ErrCodeRecursionLimit:
		return http.StatusInsufficientStorage
	case ErrCodeCanceled:
		return http.StatusRequestTimeout
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
