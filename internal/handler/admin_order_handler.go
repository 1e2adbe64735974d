package handler

import (
	"net/http"

	"ecommerce/internal/config"
	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"

	"github.com/labstack/echo/v4"
)

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=P C F"`
}

// 注文の更新系（ADMIN限定）
type AdminOrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewAdminOrderHandler(uc *usecase.OrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := adminOnly(cfg, userRepo)

	e.PATCH("/store/orders/:id", h.updatePaymentStatus, admin...)
	e.DELETE("/store/orders/:id", h.deleteOrder, admin...)
}

func (h *AdminOrderHandler) updatePaymentStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req UpdatePaymentStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.UpdatePaymentStatus(c.Request().Context(), actorFromContext(c), id, req.PaymentStatus)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 明細がある注文は409
func (h *AdminOrderHandler) deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Delete(c.Request().Context(), actorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
