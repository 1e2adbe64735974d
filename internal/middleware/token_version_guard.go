package middleware

import (
	"net/http"

	"ecommerce/internal/repository"

	"github.com/labstack/echo/v4"
)

// 強制ログアウト（token_version更新）後のtokenと停止ユーザーを弾く
func TokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON(msgNoCredentials))
			}
			tv, _ := c.Get(CtxTokenVersionKey).(int)

			user, err := userRepo.FindByID(c.Request().Context(), userID)
			switch {
			case err != nil || user == nil:
				return c.JSON(http.StatusUnauthorized, errorJSON("User not found"))
			case !user.IsActive:
				return c.JSON(http.StatusUnauthorized, errorJSON("User is inactive"))
			case user.TokenVersion != tv:
				return c.JSON(http.StatusUnauthorized, errorJSON(msgInvalidToken))
			}
			return next(c)
		}
	}
}

// OptionalAuthの後ろ用。匿名ならそのまま通す
func OptionalTokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	guard := TokenVersionGuard(userRepo)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := guard(next)
		return func(c echo.Context) error {
			if c.Get(CtxUserIDKey) == nil {
				return next(c)
			}
			return guarded(c)
		}
	}
}
