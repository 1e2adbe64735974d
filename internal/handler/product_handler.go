package handler

import (
	"net/http"

	"ecommerce/internal/config"
	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /store/products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/store/products", authOptional(cfg, userRepo)...)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.GET("/:id/images", h.listImages)
	g.GET("/:id/images/:image_id", h.image)
}

// ?collection_id=&min_price=&max_price=&inventory_status=&search=&ordering=&page=&page_size=
func (h *ProductHandler) list(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return writeError(c, err)
	}
	limit, err := queryInt(c, "page_size", 10)
	if err != nil {
		return writeError(c, err)
	}
	collectionID, err := queryInt64Ptr(c, "collection_id")
	if err != nil {
		return writeError(c, err)
	}
	minPrice, err := queryDecimalPtr(c, "min_price")
	if err != nil {
		return writeError(c, err)
	}
	maxPrice, err := queryDecimalPtr(c, "max_price")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), usecase.ListProductsInput{
		Page:            page,
		Limit:           limit,
		Search:          c.QueryParam("search"),
		CollectionID:    collectionID,
		MinPrice:        minPrice,
		MaxPrice:        maxPrice,
		InventoryStatus: c.QueryParam("inventory_status"),
		Ordering:        c.QueryParam("ordering"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) listImages(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListImages(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) image(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	imageID, err := parseIDParam(c, "image_id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.GetImage(c.Request().Context(), id, imageID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func queryDecimalPtr(c echo.Context, name string) (*decimal.Decimal, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, usecase.FieldError(name, "Enter a number.")
	}
	return &d, nil
}
