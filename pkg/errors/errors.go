// Package errors defines the structured error type used across the riskwatch
// engine and the constructors for its error taxonomy: validation failures,
// missing resources, missing configuration, and storage failures.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Code classifies an AppError.
type Code string

const (
	// CodeValidation marks client input rejected before any write. The caller
	// can recover by resubmitting corrected data.
	CodeValidation Code = "validation_error"
	// CodeNotFound marks a lookup of an unknown alert, customer, or config key.
	CodeNotFound Code = "not_found"
	// CodeConfigMissing marks an absent or unreadable configuration value.
	// It is never fatal; callers fall back to engine defaults.
	CodeConfigMissing Code = "configuration_missing"
	// CodeStorage marks an I/O or transaction failure during a write. The
	// operation performed no partial writes and may be retried verbatim.
	CodeStorage Code = "storage_failure"
	// CodeInternal marks an unexpected server-side failure.
	CodeInternal Code = "internal_error"
)

// AppError is a structured application error carrying a taxonomy code, the
// HTTP status it maps to, and an optional wrapped cause.
type AppError struct {
	Code       Code
	HTTPStatus int
	Message    string
	cause      error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause returns a copy of the error with the given cause attached.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.cause = cause
	return &clone
}

// NewError creates an AppError with explicit code, status, and message.
func NewError(code Code, httpStatus int, message string) *AppError {
	return &AppError{Code: code, HTTPStatus: httpStatus, Message: message}
}

// ErrValidation creates a validation error for out-of-range or malformed input.
func ErrValidation(format string, args ...interface{}) *AppError {
	return NewError(CodeValidation, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// ErrNotFound creates a not-found error for the named resource.
func ErrNotFound(resource, id string) *AppError {
	return NewError(CodeNotFound, http.StatusNotFound, fmt.Sprintf("%s not found: %s", resource, id))
}

// ErrConfigMissing creates a configuration-missing error for the given key.
func ErrConfigMissing(key string) *AppError {
	return NewError(CodeConfigMissing, http.StatusInternalServerError, fmt.Sprintf("no committed value for config key %q", key))
}

// ErrStorage wraps a storage-layer failure for the named operation.
func ErrStorage(op string, cause error) *AppError {
	return NewError(CodeStorage, http.StatusInternalServerError, fmt.Sprintf("storage failure during %s", op)).WithCause(cause)
}

// ErrInternal wraps an unexpected failure.
func ErrInternal(message string, cause error) *AppError {
	return NewError(CodeInternal, http.StatusInternalServerError, message).WithCause(cause)
}

// AsAppError attempts to extract an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsStorage reports whether err is a retryable storage failure.
func IsStorage(err error) bool {
	return hasCode(err, CodeStorage)
}

// IsConfigMissing reports whether err marks an absent configuration value.
func IsConfigMissing(err error) bool {
	return hasCode(err, CodeConfigMissing)
}

func hasCode(err error, code Code) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// HTTPStatusOf resolves the HTTP status an error maps to, defaulting to 500
// for errors outside the taxonomy.
func HTTPStatusOf(err error) int {
	if appErr, ok := AsAppError(err); ok && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
