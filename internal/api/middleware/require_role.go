package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rozgar/jobportal/internal/models"
	"github.com/rozgar/jobportal/internal/utils"
)

// RequireRole admits only accounts whose role, as set by JWTAuth, is one of
// roles. A missing or unknown role is refused like any other outsider.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	denied := apiError{
		Code:    utils.CodeForbidden,
		Message: "This action requires the " + strings.Join(names, " or ") + " role",
	}

	return func(c *gin.Context) {
		role := models.UserRole(strings.ToLower(strings.TrimSpace(c.GetString("role"))))
		if role.Valid() {
			for _, r := range roles {
				if r == role {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, denied)
	}
}

func RequireAdmin() gin.HandlerFunc    { return RequireRole(models.RoleAdmin) }
func RequireEmployer() gin.HandlerFunc { return RequireRole(models.RoleEmployer) }
func RequireWorker() gin.HandlerFunc   { return RequireRole(models.RoleWorker) }
