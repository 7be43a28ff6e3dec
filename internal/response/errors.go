package response

import (
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeService      = "SERVICE_ERROR"
	ErrCodeNetwork      = "NETWORK_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// AppError is the error type shared by the client, the engine and the handlers.
// Message is what the user sees; Details is for logs only.
type AppError struct {
	Code    string
	Message string
	Details string
	// Status is the HTTP status reported by the Comment Service, 0 for local errors
	Status int
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError creates a new application error
func NewAppError(code, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewValidationError creates a local validation error
func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

// NewUnauthorizedError creates a local authentication-required error
func NewUnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, "")
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message, details string) *AppError {
	return NewAppError(ErrCodeForbidden, message, details)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

// NewServiceError wraps a non-success Comment Service response.
// detail is kept verbatim so it can be shown to the user as-is.
func NewServiceError(status int, detail string) *AppError {
	code := ErrCodeService
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = ErrCodeValidation
	case http.StatusUnauthorized:
		code = ErrCodeUnauthorized
	case http.StatusForbidden:
		code = ErrCodeForbidden
	case http.StatusNotFound:
		code = ErrCodeNotFound
	}
	return &AppError{
		Code:    code,
		Message: detail,
		Status:  status,
	}
}

// NewNetworkError wraps a transport failure with a generic message
func NewNetworkError(cause error) *AppError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &AppError{
		Code:    ErrCodeNetwork,
		Message: "Failed to reach comment service",
		Details: details,
	}
}

// IsLocal reports whether the error was produced without a round trip
func (e *AppError) IsLocal() bool {
	return e.Status == 0 && e.Code != ErrCodeNetwork
}
