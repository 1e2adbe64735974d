package repository

import (
	"context"

	"ecommerce/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error)
	CountByCartID(ctx context.Context, cartID string) (int64, error)
	FindByID(ctx context.Context, cartID string, itemID int64) (model.CartItem, error)
	// 同一商品はプラス
	UpsertByCartAndProduct(ctx context.Context, cartID string, productID int64, addQty int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartID string, itemID int64, qty int64) error
	Delete(ctx context.Context, cartID string, itemID int64) error
}
