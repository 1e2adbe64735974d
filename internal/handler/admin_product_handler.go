package handler

import (
	"net/http"

	"ecommerce/internal/config"
	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 作成は全項目必須（usecaseでチェック）、PATCHは送った項目だけ
type ProductRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Inventory   *int64           `json:"inventory"`
	Collection  *int64           `json:"collection"`
}

type ClearInventoryRequest struct {
	ProductIDs []int64 `json:"product_ids" validate:"required,min=1"`
}

// 商品の更新系（ADMIN限定）
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := adminOnly(cfg, userRepo)

	e.POST("/store/products", h.createProduct, admin...)
	e.PUT("/store/products/:id", h.updateProduct, admin...)
	e.PATCH("/store/products/:id", h.updateProduct, admin...)
	e.DELETE("/store/products/:id", h.deleteProduct, admin...)
	e.POST("/store/products/:id/images", h.uploadImage, admin...)
	e.DELETE("/store/products/:id/images/:image_id", h.deleteImage, admin...)

	e.POST("/admin/products/clear-inventory", h.clearInventory, admin...)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Create(c.Request().Context(), actorFromContext(c), toProductInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Update(c.Request().Context(), actorFromContext(c), id, toProductInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Delete(c.Request().Context(), actorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// multipart の image
func (h *AdminProductHandler) uploadImage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return writeError(c, usecase.FieldError("image", "No file was submitted."))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, usecase.FieldError("image", "The submitted file is empty."))
	}
	defer f.Close()

	out, err := h.uc.UploadImage(c.Request().Context(), actorFromContext(c), id, fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) deleteImage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	imageID, err := parseIDParam(c, "image_id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.DeleteImage(c.Request().Context(), actorFromContext(c), id, imageID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /admin/products/clear-inventory
func (h *AdminProductHandler) clearInventory(c echo.Context) error {
	var req ClearInventoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ClearInventory(c.Request().Context(), actorFromContext(c), req.ProductIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func toProductInput(req ProductRequest) usecase.ProductInput {
	return usecase.ProductInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Inventory:    req.Inventory,
		CollectionID: req.Collection,
	}
}
