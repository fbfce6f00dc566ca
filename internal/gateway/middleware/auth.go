package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	sysutils "sunatstock/internal/utils"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// JWTAuth requires a bearer token from the login endpoint. Tokens are
// unsigned, so this only checks they decode and have not expired.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Authorization token required",
			})
			return
		}

		claims, err := sysutils.ParseToken(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or expired token",
			})
			return
		}

		c.Set(ContextUserID, claims.UserId)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}
