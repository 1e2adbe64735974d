package handler

import (
	"net/http"

	"ecommerce/internal/config"
	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ReviewRequest struct {
	Description string `json:"description" validate:"required"`
}

// /store/products/:product_id/reviews
type ReviewHandler struct {
	uc *usecase.ReviewUsecase
}

func NewReviewHandler(uc *usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

func (h *ReviewHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	authed := authRequired(cfg, userRepo)

	e.GET("/store/products/:id/reviews", h.list)
	e.GET("/store/products/:id/reviews/:review_id", h.get)
	e.POST("/store/products/:id/reviews", h.create, authed...)
	e.PUT("/store/products/:id/reviews/:review_id", h.update, authed...)
	e.PATCH("/store/products/:id/reviews/:review_id", h.update, authed...)
	e.DELETE("/store/products/:id/reviews/:review_id", h.delete, authed...)
}

func (h *ReviewHandler) list(c echo.Context) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) get(c echo.Context) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	reviewID, err := parseIDParam(c, "review_id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.Request().Context(), productID, reviewID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) create(c echo.Context) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Request().Context(), actorFromContext(c), productID, req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ReviewHandler) update(c echo.Context) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	reviewID, err := parseIDParam(c, "review_id")
	if err != nil {
		return writeError(c, err)
	}
	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Request().Context(), actorFromContext(c), productID, reviewID, req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) delete(c echo.Context) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	reviewID, err := parseIDParam(c, "review_id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), actorFromContext(c), productID, reviewID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
