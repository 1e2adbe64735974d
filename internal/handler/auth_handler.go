package handler

import (
	"net/http"

	"ecommerce/internal/config"
	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"
	auth "ecommerce/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	authUC     *usecase.AuthUsecase      // refresh/logout/me
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	authUC *usecase.AuthUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		authUC:     authUC,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/auth")
	g.POST("/signup", h.Signup)
	g.POST("/jwt/create", h.Login)
	g.POST("/jwt/refresh", h.Refresh)
	g.POST("/jwt/logout", h.Logout)

	me := g.Group("/user/me", authRequired(cfg, userRepo)...)
	me.GET("", h.Me)
	me.PATCH("", h.UpdateMe)
}

// POST /auth/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	var req auth.RegisterUserInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.ValidationError("invalid json"))
	}

	out, err := h.registerUC.Execute(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// POST /auth/jwt/create
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.ValidationError("invalid json"))
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /auth/jwt/refresh
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.ValidationError("invalid json"))
	}

	out, err := h.authUC.Refresh(c.Request().Context(), req.Refresh, c.Request().UserAgent())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /auth/jwt/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.ValidationError("invalid json"))
	}

	if err := h.authUC.Logout(c.Request().Context(), req.Refresh); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeError(c, usecase.Unauthorized())
	}

	out, err := h.authUC.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) UpdateMe(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return writeError(c, usecase.Unauthorized())
	}

	var req usecase.UpdateMeInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, usecase.ValidationError("invalid json"))
	}

	out, err := h.authUC.UpdateMe(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
