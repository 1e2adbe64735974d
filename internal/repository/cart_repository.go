package repository

import (
	"context"

	"ecommerce/internal/domain/model"
)

type CartRepository interface {
	Create(ctx context.Context, cart model.Cart) (model.Cart, error)
	// 明細と商品を含めて取得
	FindByID(ctx context.Context, cartID string) (model.Cart, error)
	// 確定処理用に行ロックして取得
	FindByIDForUpdate(ctx context.Context, cartID string) (model.Cart, error)
	// 明細ごと削除
	Delete(ctx context.Context, cartID string) error
}
