package utilities

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionAuthMiddleware ensures the bearer token belongs to the session named
// in the route. A nil issuer disables the check.
func SessionAuthMiddleware(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if issuer == nil {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := issuer.ValidateToken(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if sid := c.Param("session_id"); sid != "" && sid != claims.SessionID {
			c.JSON(http.StatusForbidden, gin.H{"error": "token does not belong to this session"})
			c.Abort()
			return
		}

		// Store claims in context for later use
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}

// APIKeyMiddleware guards operator endpoints with a shared key sent in the
// X-API-Key header. An empty key rejects every request.
func APIKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-API-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
