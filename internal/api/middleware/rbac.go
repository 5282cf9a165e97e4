package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// RequireRoles only lets through users whose role is in allowed. It must run
// after Authenticate.
func RequireRoles(allowed domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return domain.Unauthenticated("Authentication required")
			}
			if !allowed.Contains(user.Role) {
				return domain.Forbidden("Forbidden: You do not have permission to perform this action")
			}
			return next(c)
		}
	}
}
