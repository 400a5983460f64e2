package middleware

import (
	"strings"

	"medical-records-server/internal/config"
	"medical-records-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const subjectKey = "subject"

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid token: "+err.Error())
			c.Abort()
			return
		}

		c.Set(subjectKey, claims.Subject)
		c.Next()
	}
}

// GetSubjectFromContext returns the token subject set by AuthMiddleware.
func GetSubjectFromContext(c *gin.Context) (string, bool) {
	subject, exists := c.Get(subjectKey)
	if !exists {
		return "", false
	}
	s, ok := subject.(string)
	return s, ok
}
