package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bookinghub/user-service/internal/core/domain"
)

// RBAC enforces role-based access control. It compares the role resolved by
// the Session middleware against the route's allowed-role set. Denial here
// means a valid session lacking privilege (403), distinct from no valid
// session at all (401).
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[domain.Role(role)]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
