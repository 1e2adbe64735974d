package handler

import (
	"net/http"

	"ecommerce/internal/config"
	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"

	"github.com/labstack/echo/v4"
)

type TagRequest struct {
	Label string `json:"label" validate:"required,max=255"`
}

type TagProductRequest struct {
	TagID int64 `json:"tag_id" validate:"required"`
}

// /store/tags と /store/products/:id/tags
type TagHandler struct {
	uc *usecase.TagUsecase
}

func NewTagHandler(uc *usecase.TagUsecase) *TagHandler {
	return &TagHandler{uc: uc}
}

func (h *TagHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := adminOnly(cfg, userRepo)

	e.GET("/store/tags", h.list)
	e.POST("/store/tags", h.create, admin...)
	e.GET("/store/products/:id/tags", h.listForProduct)
	e.POST("/store/products/:id/tags", h.tag, admin...)
	e.DELETE("/store/products/:id/tags/:tag_id", h.untag, admin...)
}

// ?search=
func (h *TagHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TagHandler) create(c echo.Context) error {
	var req TagRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Request().Context(), actorFromContext(c), req.Label)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *TagHandler) listForProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListForProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TagHandler) tag(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req TagProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.TagProduct(c.Request().Context(), actorFromContext(c), id, req.TagID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *TagHandler) untag(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	tagID, err := parseIDParam(c, "tag_id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.UntagProduct(c.Request().Context(), actorFromContext(c), id, tagID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
