// Package apperror defines the application error types shared by services and
// handlers, and their mapping to HTTP status codes.
package apperror

import (
	"fmt"
	"net/http"
)

// ErrorType categorizes an AppError.
type ErrorType int

const (
	// InternalError is an unexpected server-side failure.
	InternalError ErrorType = iota
	// DatabaseError is a persistence failure.
	DatabaseError
	// ValidationError is a request-body validation failure.
	ValidationError
	// BadRequestError is a malformed or unacceptable request.
	BadRequestError
	// ConflictError is a uniqueness or limit violation (duplicate email/phone,
	// image count). Mapped to 400 to match the public API contract.
	ConflictError
	// AuthError is an authentication failure (missing/invalid token).
	AuthError
	// NotFoundError is a missing resource. Ownership failures also map here so
	// non-owners cannot distinguish "absent" from "not yours".
	NotFoundError
	// ExternalServiceError is a remote storage or mail transport failure.
	// Surfaces as a plain 500; the public taxonomy is 400/401/404/500 only.
	ExternalServiceError
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError carries a user-facing message, an error type and an optional
// underlying cause. Field-level details are set for validation failures.
type AppError struct {
	Type    ErrorType
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error type to an HTTP status code.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, BadRequestError, ConflictError:
		return http.StatusBadRequest
	case AuthError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// NewValidation creates a 400 error carrying field-level failures.
func NewValidation(message string, fields []FieldError) *AppError {
	return &AppError{Type: ValidationError, Message: message, Fields: fields}
}

// NewBadRequest creates a generic 400 error.
func NewBadRequest(message string) *AppError {
	return &AppError{Type: BadRequestError, Message: message}
}

// NewConflict creates a duplicate/limit error.
func NewConflict(message string) *AppError {
	return &AppError{Type: ConflictError, Message: message}
}

// NewAuth creates a 401 error.
func NewAuth(message string) *AppError {
	return &AppError{Type: AuthError, Message: message}
}

// NewNotFound creates a 404 error.
func NewNotFound(message string) *AppError {
	return &AppError{Type: NotFoundError, Message: message}
}

// NewDatabase wraps a persistence failure.
func NewDatabase(message string, err error) *AppError {
	return &AppError{Type: DatabaseError, Message: message, Err: err}
}

// NewInternal wraps an unexpected failure.
func NewInternal(message string, err error) *AppError {
	return &AppError{Type: InternalError, Message: message, Err: err}
}

// NewExternal wraps a remote-service failure.
func NewExternal(message string, err error) *AppError {
	return &AppError{Type: ExternalServiceError, Message: message, Err: err}
}
