package handler

import (
	"net/http"
	"strconv"

	"ecommerce/internal/config"
	"ecommerce/internal/middleware"
	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Fields: he.Fields})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// JSONをbindしてvalidateタグを見る
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return usecase.ValidationError("invalid json")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(dst)
}

// JWT必須 + token_version一致
func authRequired(cfg config.Config, userRepo repository.UserRepository) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
	}
}

// 匿名可（tokenがあれば検証）
func authOptional(cfg config.Config, userRepo repository.UserRepository) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.OptionalAuth(cfg),
		middleware.OptionalTokenVersionGuard(userRepo),
	}
}

func adminOnly(cfg config.Config, userRepo repository.UserRepository) []echo.MiddlewareFunc {
	return append(authRequired(cfg, userRepo), middleware.AdminRoleGuard())
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// 匿名ならゼロ値
func actorFromContext(c echo.Context) usecase.Actor {
	id, _ := getUserIDFromContext(c)
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	return usecase.Actor{UserID: id, Role: role}
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, usecase.NotFound("")
	}
	return id, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, usecase.FieldError(name, "A valid integer is required.")
	}
	return i, nil
}

func queryInt64Ptr(c echo.Context, name string) (*int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, usecase.FieldError(name, "A valid integer is required.")
	}
	return &i, nil
}
