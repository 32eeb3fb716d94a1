package httpapi

import (
	"net/http"
	"strings"

	"authservice/internal/server/auth"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// requireAccessToken guards a route group with bearer-token authentication.
// On success the subject and email from the access token are stored in the
// request context.
func (s *Server) requireAccessToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), s.accessTokenSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set("email", claims.Email)
		c.Next()
	}
}
