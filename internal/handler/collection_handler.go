package handler

import (
	"net/http"

	"ecommerce/internal/config"
	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CollectionRequest struct {
	Title           string `json:"title" validate:"required,max=255"`
	FeaturedProduct *int64 `json:"featured_product"`
}

// /store/collections
type CollectionHandler struct {
	uc *usecase.CollectionUsecase
}

func NewCollectionHandler(uc *usecase.CollectionUsecase) *CollectionHandler {
	return &CollectionHandler{uc: uc}
}

func (h *CollectionHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := adminOnly(cfg, userRepo)

	e.GET("/store/collections", h.list, authOptional(cfg, userRepo)...)
	e.GET("/store/collections/:id", h.get, authOptional(cfg, userRepo)...)
	e.POST("/store/collections", h.create, admin...)
	e.PUT("/store/collections/:id", h.update, admin...)
	e.PATCH("/store/collections/:id", h.update, admin...)
	e.DELETE("/store/collections/:id", h.delete, admin...)
}

func (h *CollectionHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CollectionHandler) get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CollectionHandler) create(c echo.Context) error {
	var req CollectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Request().Context(), actorFromContext(c), usecase.CollectionInput{
		Title:           req.Title,
		FeaturedProduct: req.FeaturedProduct,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CollectionHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req CollectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Request().Context(), actorFromContext(c), id, usecase.CollectionInput{
		Title:           req.Title,
		FeaturedProduct: req.FeaturedProduct,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CollectionHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), actorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
