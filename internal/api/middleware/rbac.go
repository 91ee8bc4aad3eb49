package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces role-based access control. The caller must carry the
// required role in the "roles" context value set by Auth; a mismatch yields a
// fixed 403 message naming the required role.
func RequireRole(required string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, _ := c.Get("roles").([]string)
			for _, r := range roles {
				if r == required {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{
				"message": "access denied: requires role " + required,
			})
		}
	}
}
