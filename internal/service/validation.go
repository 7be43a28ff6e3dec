package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"comment-gateway/internal/domain"
	"comment-gateway/internal/response"
)

const (
	msgContentRequired = "Comment content is required"
	msgRepliesClosed   = "This comment does not accept replies"
)

var msgContentTooLong = fmt.Sprintf("Comment must be %d characters or less", domain.MaxContentLength)

// ValidateContent checks a draft before any request is made and returns the
// trimmed text to send. Length is counted in characters on the draft as typed.
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", response.NewValidationError(msgContentRequired, "")
	}
	if n := utf8.RuneCountInString(content); n > domain.MaxContentLength {
		return "", response.NewValidationError(msgContentTooLong, fmt.Sprintf("%d characters", n))
	}
	return trimmed, nil
}

// authRequired builds the local error for an operation attempted without a session
func authRequired(action string) error {
	return response.NewUnauthorizedError("You must be logged in to " + action)
}

// repliesClosed is returned when replying to a deleted comment or past the depth cap
func repliesClosed() error {
	return response.NewValidationError(msgRepliesClosed, "")
}
