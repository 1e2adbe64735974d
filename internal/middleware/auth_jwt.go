package middleware

import (
	"net/http"
	"strings"

	"ecommerce/internal/config"
	"ecommerce/internal/infra/token"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // string
	CtxTokenVersionKey = "token_version" // int
)

const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgInvalidToken  = "Given token not valid for any token type"
)

// Authorization: Bearer <access> 必須
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return bearer(cfg.JWTSecret, false)
}

// 公開エンドポイント用。ヘッダが無ければ匿名で通す（壊れたtokenは401）
func OptionalAuth(cfg config.Config) echo.MiddlewareFunc {
	return bearer(cfg.JWTSecret, true)
}

func bearer(secret string, optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authz := c.Request().Header.Get(echo.HeaderAuthorization)
			if authz == "" {
				if optional {
					return next(c)
				}
				return c.JSON(http.StatusUnauthorized, errorJSON(msgNoCredentials))
			}

			scheme, raw, found := strings.Cut(authz, " ")
			raw = strings.TrimSpace(raw)
			if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON(msgInvalidToken))
			}

			claims, err := token.Parse(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON(msgInvalidToken))
			}
			userID, _ := claims.UserID()

			c.Set(CtxUserIDKey, userID)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)
			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
