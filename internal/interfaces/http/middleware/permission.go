package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf-lend/backend/internal/domain/identity"
	"github.com/spf-lend/backend/internal/interfaces/http/dto"
)

// RequirePermission gates a route on one permission code. SUPERADMIN holds
// every permission implicitly and is never checked against the grant list.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		if claims.Role == string(identity.RoleSuperAdmin) {
			c.Next()
			return
		}

		if !claims.HasPermission(permission) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Permission denied: "+permission))
			return
		}

		c.Next()
	}
}

// RequireRole gates a route on an exact role. Used for the few operations
// that are role-bound rather than permission-bound, like user management.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		for _, role := range roles {
			if claims.Role == string(role) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(dto.ErrCodeForbidden, "Role not allowed"))
	}
}
