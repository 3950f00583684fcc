package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/response"
)

// RequireRoles blocks requests whose session role is not in the allowed
// set. It must run after JWT.
func RequireRoles(roles ...models.SessionRole) gin.HandlerFunc {
	allowed := make(map[models.SessionRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := Session(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireGuardian shortcuts the common guardian-only restriction.
func RequireGuardian() gin.HandlerFunc {
	return RequireRoles(models.RoleGuardian)
}

// RequireAdmin shortcuts the admin-only restriction.
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}
