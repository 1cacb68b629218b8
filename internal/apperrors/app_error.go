package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries an HTTP-ish status code alongside a message and an optional cause.
// Repositories wrap low-level storage failures in an AppError so handlers can decide
// between "caller can fix this" and "try again later".
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the sentinel errors wrapped inside an AppError.
func (e *AppError) Is(target error) bool {
	switch e.Code {
	case http.StatusNotFound:
		if errors.Is(target, ErrNotFound) {
			return true
		}
	case http.StatusConflict:
		if errors.Is(target, ErrDuplicate) {
			return true
		}
	case http.StatusBadRequest:
		if errors.Is(target, ErrValidation) {
			return true
		}
	case http.StatusForbidden:
		if errors.Is(target, ErrForbidden) {
			return true
		}
	}
	return false
}

// NewAppError creates a new AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError for a missing resource.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

// NewConflictError creates an AppError for a uniqueness conflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message}
}

// NewValidationFailedError creates an AppError for invalid input.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

// NewForbiddenError creates an AppError for an authorization failure.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message}
}
