package middleware

import (
	"net/http"

	"ecommerce/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// AuthJWTの後ろで使う。ADMIN以外は403
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxUserRoleKey).(string)
			if role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON(msgNoCredentials))
			}
			if model.Role(role) != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("You do not have permission to perform this action."))
			}
			return next(c)
		}
	}
}
