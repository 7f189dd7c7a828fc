package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tutofast/tutofast-api/internal/service"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// OptionalJWT attaches the authenticated user's claims to the context when
// a valid bearer token is present. No marketplace route requires auth, so
// a missing or invalid token never blocks the request.
func OptionalJWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c.GetHeader("Authorization")); token != "" {
			if claims, err := authService.ParseToken(token); err == nil {
				c.Set(ContextUserKey, claims)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
