package handler

import (
	"net/http"

	"ecommerce/internal/config"
	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CustomerRequest struct {
	BirthDate  *string `json:"birth_date"`
	Membership *string `json:"membership" validate:"omitempty,oneof=B S G"`
}

// /store/customers（meは本人、それ以外はADMIN）
type CustomerHandler struct {
	uc *usecase.CustomerUsecase
}

func NewCustomerHandler(uc *usecase.CustomerUsecase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

func (h *CustomerHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	authed := authRequired(cfg, userRepo)
	admin := adminOnly(cfg, userRepo)

	e.GET("/store/customers/me", h.me, authed...)
	e.PUT("/store/customers/me", h.updateMe, authed...)

	e.GET("/store/customers", h.list, admin...)
	e.GET("/store/customers/:id", h.get, admin...)
	e.PUT("/store/customers/:id", h.update, admin...)
	e.PATCH("/store/customers/:id", h.update, admin...)
	e.DELETE("/store/customers/:id", h.delete, admin...)
}

func (h *CustomerHandler) me(c echo.Context) error {
	out, err := h.uc.Me(c.Request().Context(), actorFromContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) updateMe(c echo.Context) error {
	var req CustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateMe(c.Request().Context(), actorFromContext(c), usecase.CustomerUpdateInput{
		BirthDate: req.BirthDate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) list(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return writeError(c, err)
	}
	limit, err := queryInt(c, "page_size", 50)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.Request().Context(), actorFromContext(c), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.Request().Context(), actorFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req CustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Request().Context(), actorFromContext(c), id, usecase.CustomerUpdateInput{
		BirthDate:  req.BirthDate,
		Membership: req.Membership,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), actorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
