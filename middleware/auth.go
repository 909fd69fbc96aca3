package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"mingle/utils"
)

// AuthMiddleware extracts the verified external identity from the bearer
// token. It does not touch the user directory; handlers resolve the subject
// to an internal user explicitly.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		subject, err := utils.ParseToken(parts[1], secret)
		if err != nil {
			utils.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("external_id", subject)
		c.Next()
	}
}

func GetExternalID(c *gin.Context) string {
	return c.GetString("external_id")
}
