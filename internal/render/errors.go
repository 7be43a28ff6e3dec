package render

import (
	"errors"

	"comment-gateway/internal/response"
)

// ErrorMessage returns the user-facing text of err: the service detail or
// local message for AppErrors, a generic message otherwise
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "An error occurred"
}
