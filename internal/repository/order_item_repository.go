package repository

import (
	"context"

	"ecommerce/internal/domain/model"
)

// 注文明細は注文作成時にまとめて入れるだけ（以後は変更しない）
type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error)
}
