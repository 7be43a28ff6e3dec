package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"comment-gateway/internal/domain"
)

var (
	// ErrMissingToken is returned when no bearer credential was supplied
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidHeader is returned for an Authorization header that is not "Bearer <token>"
	ErrInvalidHeader = errors.New("invalid authorization header format")
	// ErrInvalidToken is returned when the token cannot be parsed or verified
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Session is the signed-in state of one caller: the raw bearer credential that
// gets forwarded to the Comment Service plus the identity read from its claims.
type Session struct {
	Token    string
	UserID   *int64
	Username string
	IsAdmin  bool
}

// IsAuthenticated reports whether a credential is present
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}

// BearerToken returns the credential, or "" for a nil session
func (s *Session) BearerToken() string {
	if s == nil {
		return ""
	}
	return s.Token
}

// Viewer returns the identity used for permission checks
func (s *Session) Viewer() domain.Viewer {
	if s == nil || s.UserID == nil {
		v := domain.Anonymous()
		if s != nil {
			v.IsAdmin = s.IsAdmin
		}
		return v
	}
	return domain.NewViewer(*s.UserID, s.IsAdmin)
}

// Provider hands out the current session. It is consulted at call time so a
// login or logout between operations is picked up.
type Provider interface {
	Current() *Session
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func() *Session

func (f ProviderFunc) Current() *Session {
	return f()
}

// Static returns a provider that always yields s (nil means anonymous)
func Static(s *Session) Provider {
	return ProviderFunc(func() *Session { return s })
}

// Parser builds sessions from bearer tokens. With a secret the HMAC signature
// and expiry are verified; without one the claims are read as-is and the
// Comment Service remains the only authority.
type Parser struct {
	secret []byte
	now    func() time.Time
}

// NewParser creates a parser; secret may be empty
func NewParser(secret string) *Parser {
	p := &Parser{now: time.Now}
	if secret != "" {
		p.secret = []byte(secret)
	}
	return p
}

// Verifies reports whether signatures are checked
func (p *Parser) Verifies() bool {
	return len(p.secret) > 0
}

// FromHeader parses an Authorization header value
func (p *Parser) FromHeader(header string) (*Session, error) {
	token, err := TokenFromHeader(header)
	if err != nil {
		return nil, err
	}
	return p.Parse(token)
}

// Parse builds a session from a raw token
func (p *Parser) Parse(tokenString string) (*Session, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := jwt.MapClaims{}
	if p.Verifies() {
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return p.secret, nil
		}, jwt.WithTimeFunc(p.now))
		if err != nil || !token.Valid {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && !p.now().Before(exp.Time) {
			return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
		}
	}

	s := &Session{Token: tokenString}

	// Support multiple claim formats, most specific first
	for _, key := range []string{"user_id", "uid", "sub"} {
		if id, ok := numericClaim(claims[key]); ok {
			s.UserID = &id
			break
		}
	}
	if admin, ok := claims["is_admin"].(bool); ok {
		s.IsAdmin = admin
	} else if role, ok := claims["role"].(string); ok {
		s.IsAdmin = strings.EqualFold(role, "admin")
	}
	for _, key := range []string{"username", "name", "preferred_username"} {
		if name, ok := claims[key].(string); ok && name != "" {
			s.Username = name
			break
		}
	}
	if s.Username == "" {
		if sub, ok := claims["sub"].(string); ok && s.UserID == nil {
			s.Username = sub
		}
	}

	return s, nil
}

// TokenFromHeader extracts the token from "Bearer <token>"
func TokenFromHeader(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrInvalidHeader
	}
	return strings.TrimSpace(parts[1]), nil
}

// numericClaim accepts ids encoded as JSON numbers or numeric strings
func numericClaim(v interface{}) (int64, bool) {
	switch id := v.(type) {
	case float64:
		if id != float64(int64(id)) {
			return 0, false
		}
		return int64(id), true
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
