package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error type returned by services and rendered by handlers.
// Code is the HTTP status the error maps to.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewBadRequestError creates a 400 error
func NewBadRequestError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

// NewNotFoundError creates a 404 error
func NewNotFoundError(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, message, err)
}

// NewConflictError creates a 409 error
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, nil)
}

// NewInternalServerError creates a 500 error
func NewInternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, nil)
}

// NewInternalError creates a 500 error that keeps its cause
func NewInternalError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// NewServiceUnavailableError creates a 503 error for transient failures
func NewServiceUnavailableError(message string, err error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, message, err)
}

func hasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is a 404 AppError
func IsNotFound(err error) bool { return hasCode(err, http.StatusNotFound) }

// IsBadRequest reports whether err is a 400 AppError
func IsBadRequest(err error) bool { return hasCode(err, http.StatusBadRequest) }

// IsConflict reports whether err is a 409 AppError
func IsConflict(err error) bool { return hasCode(err, http.StatusConflict) }

// IsTransient reports whether err is a 503 AppError
func IsTransient(err error) bool { return hasCode(err, http.StatusServiceUnavailable) }
