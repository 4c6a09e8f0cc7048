package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/FRWD789/je-m-inspire-sub000/pkg/response"
)

const (
	// ContextKeyUserID is the gin context key carrying the authenticated user id
	ContextKeyUserID = "user_id"
	// ContextKeyUserRole is the gin context key carrying the resolved role
	ContextKeyUserRole = "user_role"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// IdentityClaims are the claims the engine consumes from the external auth
// service. Token issuance and role resolution happen upstream; the engine
// only extracts an already-authenticated identity.
type IdentityClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth returns a middleware that validates the bearer token and stores the
// acting user's id and role in the request context.
func Auth(secret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, ErrMissingToken.Error())
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &IdentityClaims{}

		parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
		if issuer != "" {
			parserOpts = append(parserOpts, jwt.WithIssuer(issuer))
		}

		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, parserOpts...)
		if err != nil || !token.Valid || claims.Subject == "" {
			response.Unauthorized(c, ErrInvalidToken.Error())
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.Subject)
		c.Set(ContextKeyUserRole, claims.Role)
		c.Next()
	}
}

// UserID returns the authenticated user id from the gin context
func UserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// UserRole returns the authenticated user role from the gin context
func UserRole(c *gin.Context) string {
	return c.GetString(ContextKeyUserRole)
}
