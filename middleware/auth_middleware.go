package middleware

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/princinho/vidstream/apperror"
	"github.com/princinho/vidstream/utils"
)

// AuthMiddleware accepts the access token from the Authorization header or
// the accessToken cookie and stashes the identity claims on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenStr = strings.TrimPrefix(header, "Bearer ")
		} else if cookie, err := c.Cookie("accessToken"); err == nil {
			tokenStr = cookie
		}
		if tokenStr == "" {
			utils.AbortError(c, apperror.Authentication("missing token"))
			return
		}

		claims, err := utils.ValidateToken(tokenStr, os.Getenv("JWT_SECRET"))
		if err != nil {
			utils.AbortError(c, apperror.Authentication("invalid or expired token"))
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("email", claims.Email)
		c.Set("fullName", claims.FullName)
		c.Next()
	}
}
