package handler

import (
	"net/http"

	"ecommerce/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /store/carts（匿名で使える。IDはuuid）
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// quantityはポインタ（0を未入力と区別する）
type AddCartItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Quantity  *int64 `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity *int64 `json:"quantity" validate:"required,min=1"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/store/carts")

	g.POST("", h.createCart)
	g.GET("/:id", h.getCart)
	g.DELETE("/:id", h.deleteCart)

	g.GET("/:id/items", h.listItems)
	g.POST("/:id/items", h.addItem)
	g.GET("/:id/items/:item_id", h.getItem)
	g.PATCH("/:id/items/:item_id", h.patchItem)
	g.DELETE("/:id/items/:item_id", h.deleteItem)
}

func (h *CartHandler) createCart(c echo.Context) error {
	out, err := h.uc.Create(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteCart(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) listItems(c echo.Context) error {
	out, err := h.uc.ListItems(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 同じ商品なら数量を足す
func (h *CartHandler) addItem(c echo.Context) error {
	var req AddCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.AddItem(c.Request().Context(), c.Param("id"), usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CartHandler) getItem(c echo.Context) error {
	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetItem(c.Request().Context(), c.Param("id"), itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) patchItem(c echo.Context) error {
	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		return writeError(c, err)
	}
	var req UpdateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.UpdateItemQuantity(c.Request().Context(), c.Param("id"), itemID, *req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteItem(c.Request().Context(), c.Param("id"), itemID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
