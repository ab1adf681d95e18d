package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"moto-rental/pkg/jwt"
	"moto-rental/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextSubjectKey = "subject"
	ContextRoleKey    = "role"
)

// AuthMiddleware requires a valid bearer token. Browsers cannot set headers
// on websocket upgrades, so a ?token= query parameter is accepted as well.
// When roles are given the token's role must be one of them.
func AuthMiddleware(jwtUtil *jwt.JWTUtil, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Accept both "Bearer <token>" and a bare token.
		tokenString := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token", err)
			c.Abort()
			return
		}

		if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
			utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions",
				errors.New("role "+claims.Role+" is not allowed"))
			c.Abort()
			return
		}

		c.Set(ContextSubjectKey, claims.Subject)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}
