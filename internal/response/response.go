package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse mirrors the Comment Service error envelope so the proxy stays transparent
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// MessageResponse is a bare acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}

// SendError writes an error envelope
func SendError(c *gin.Context, statusCode int, code, detail string) {
	c.JSON(statusCode, ErrorResponse{
		Detail: detail,
		Code:   code,
	})
}

// SendSuccess writes data as the response body
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}
