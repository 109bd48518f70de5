// Package api - Authentication middleware
package api

import (
	"strings"

	"github.com/Ocarreno01/aira-back/internal/errors"
	"github.com/gin-gonic/gin"
)

// RequireAuth validates the bearer token and stores the caller's identity
// in the request context under "user_id" and "user_email".
func (h *AuthHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing Authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortUnauthorized(c, "Authorization must be: Bearer <token>")
			return
		}

		claims, err := h.jwtService.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			abortUnauthorized(c, "invalid token (no subject)")
			return
		}

		c.Set("user_id", userID)
		if claims.Email != "" {
			c.Set("user_email", claims.Email)
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	status, body := errors.ToHTTPError(errors.NewUnauthorizedError(message))
	c.AbortWithStatusJSON(status, body)
}
