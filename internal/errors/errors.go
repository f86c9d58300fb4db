package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeEmptyInput   = "EMPTY_INPUT"
	ErrCodeIOFailure    = "IO_FAILURE"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeQuizState    = "QUIZ_STATE"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
)

// Sentinels for errors.Is checks. Only the code is compared.
var (
	ErrNotFound     = &AppError{Code: ErrCodeNotFound}
	ErrValidation   = &AppError{Code: ErrCodeValidation}
	ErrEmptyInput   = &AppError{Code: ErrCodeEmptyInput}
	ErrIOFailure    = &AppError{Code: ErrCodeIOFailure}
	ErrConflict     = &AppError{Code: ErrCodeConflict}
	ErrUnauthorized = &AppError{Code: ErrCodeUnauthorized}
	ErrQuizState    = &AppError{Code: ErrCodeQuizState}
	ErrInternal     = &AppError{Code: ErrCodeInternal}
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// As extracts an *AppError from err, or wraps err as an internal error.
func As(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewEmptyInputError reports an operation that needs at least one item.
func NewEmptyInputError(what string) *AppError {
	return &AppError{
		Code:    ErrCodeEmptyInput,
		Message: fmt.Sprintf("no %s to work with", what),
		Status:  400,
	}
}

// NewIOFailureError wraps a filesystem or decoding failure.
func NewIOFailureError(op string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeIOFailure,
		Message: fmt.Sprintf("%s failed", op),
		Status:  500,
		Err:     err,
	}
}

// NewConflictError creates a new CONFLICT error
func NewConflictError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf("%s already exists: %v", resource, id),
		Status:  409,
	}
}

// NewUnauthorizedError creates a new UNAUTHORIZED error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  401,
	}
}

// NewQuizStateError reports a quiz operation invalid in the current state.
func NewQuizStateError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeQuizState,
		Message: message,
		Status:  409,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}
