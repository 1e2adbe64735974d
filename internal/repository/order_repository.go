package repository

import (
	"context"

	"ecommerce/internal/domain/model"
)

type OrderListFilter struct {
	Page          int
	Limit         int
	CustomerID    *int64 // nilなら全件（管理者）
	PaymentStatus string
}

type OrderRepository interface {
	// 明細込み
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (model.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error
	// 明細があれば ErrProtected
	Delete(ctx context.Context, orderID int64) error
}
