package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"comment-gateway/internal/response"
	"comment-gateway/internal/session"
)

const (
	sessionKey = "session"
	// TokenCookie is read by the pages when no Authorization header is sent
	TokenCookie = "access_token"
)

// OptionalSession attaches a session when a bearer credential is present.
// The header wins over the access_token cookie. A token whose claims cannot be
// read is still forwarded as-is; only the identity is left empty, and the
// Comment Service decides whether it is acceptable.
func OptionalSession(parser *session.Parser, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerFromRequest(c)
		if !ok {
			c.Next()
			return
		}

		s, err := parser.Parse(token)
		if err != nil {
			logger.Debug("Bearer claims unreadable, forwarding token without identity",
				zap.String("request_id", RequestIDFrom(c)),
				zap.Error(err),
			)
			s = &session.Session{Token: token}
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// RequireBearer rejects requests without an Authorization header
func RequireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authorization header required")
			c.Abort()
			return
		}
		if _, err := session.TokenFromHeader(header); errors.Is(err, session.ErrInvalidHeader) {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session attached by OptionalSession, or nil
func SessionFrom(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

// BearerToken returns the credential to forward, or ""
func BearerToken(c *gin.Context) string {
	return SessionFrom(c).BearerToken()
}

func bearerFromRequest(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		token, err := session.TokenFromHeader(header)
		return token, err == nil
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}
