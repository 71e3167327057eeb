package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retreat-portal/backend/internal/apperr"
	"github.com/retreat-portal/backend/internal/auth"
	"github.com/retreat-portal/backend/internal/service"
)

const (
	requestIDKey = "request_id"
	claimsKey    = "auth_claims"

	requestIDHeader       = "X-Request-ID"
	sessionIDHeader       = "X-Session-ID"
	sessionConflictHeader = "X-Session-Conflict"
)

// RequestID assigns every request a correlation id, honoring one supplied by
// the client, and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// CORS allows any origin with an enumerated method/header list. Preflight
// requests get 204 with a 24h max-age.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID, X-Session-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, X-Session-Conflict")

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Max-Age", "86400")
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Auth validates the bearer token against the given principal types. When a
// session id accompanies the request, concurrent-session state is checked and
// surfaced as an advisory header; it never blocks.
func Auth(authService *service.AuthService, principalTypes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			abortUnauthorized(c)
			return
		}

		var claims *auth.Claims
		for _, principalType := range principalTypes {
			if verified, err := authService.VerifyToken(token, principalType); err == nil {
				claims = verified
				break
			}
		}
		if claims == nil {
			abortUnauthorized(c)
			return
		}
		c.Set(claimsKey, claims)

		if sessionID := strings.TrimSpace(c.GetHeader(sessionIDHeader)); sessionID != "" {
			ref := claims.User
			if claims.Type == auth.PrincipalAttendee {
				ref = claims.Ref
			}
			if authService.Sessions().Observe(c.Request.Context(), sessionID, claims.Type, ref) {
				c.Header(sessionConflictHeader, "true")
			}
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	writeError(c, apperr.Unauthorized())
	c.Abort()
}

func GetClaims(c *gin.Context) *auth.Claims {
	if value, ok := c.Get(claimsKey); ok {
		if claims, ok := value.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
