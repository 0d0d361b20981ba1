package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parintorn/table-reservation/internal/model"
)

// RequireAdmin aborts with 403 unless JWTAuth resolved an admin identity.
// It assumes JWTAuth ran earlier in the chain.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || role != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false, "message": "admin role required",
				})
			}
			return next(c)
		}
	}
}
