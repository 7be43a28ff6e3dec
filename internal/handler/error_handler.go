package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"comment-gateway/internal/response"
)

// handleServiceError writes the error envelope for a failed Comment Service
// call. Service responses keep their status and detail; transport failures
// become a 500 carrying fallback.
func handleServiceError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		logger.Error("Unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, fallback)
		return
	}

	switch {
	case appErr.Code == response.ErrCodeNetwork:
		logger.Error("Comment service unreachable",
			zap.String("path", c.FullPath()),
			zap.String("details", appErr.Details),
		)
		response.SendError(c, http.StatusInternalServerError, appErr.Code, fallback)
	case appErr.Status != 0:
		logger.Debug("Comment service rejected request",
			zap.Int("status", appErr.Status),
			zap.String("detail", appErr.Message),
		)
		response.SendError(c, appErr.Status, appErr.Code, appErr.Message)
	default:
		response.SendError(c, mapErrorCodeToHTTPStatus(appErr.Code), appErr.Code, appErr.Message)
	}
}

// mapErrorCodeToHTTPStatus maps local error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden:
		return http.StatusForbidden
	case response.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// statusForError picks the status a page is rendered with after a failed action
func statusForError(err error) int {
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	if appErr.Status >= 400 && appErr.Status < 500 {
		return appErr.Status
	}
	if appErr.Status >= 500 {
		return http.StatusBadGateway
	}
	return mapErrorCodeToHTTPStatus(appErr.Code)
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
