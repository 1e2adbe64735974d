package repository

import (
	"context"

	"ecommerce/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 一覧検索
type ProductListQuery struct {
	Page            int
	Limit           int
	Search          string
	CollectionID    *int64
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	InventoryStatus string // "low" / "ok"
	Ordering        string // price, -price, last_update, -last_update
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	Exists(ctx context.Context, id int64) (bool, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) (model.Product, error)
	// 注文明細から参照されていれば ErrProtected
	Delete(ctx context.Context, id int64) error
	CountOrderItems(ctx context.Context, id int64) (int64, error)

	// 指定商品の在庫を0にする（更新件数を返す）
	ClearInventory(ctx context.Context, ids []int64) (int64, error)
}

// 商品画像
type ProductImageRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error)
	FindByID(ctx context.Context, productID int64, imageID int64) (model.ProductImage, error)
	Create(ctx context.Context, img model.ProductImage) (model.ProductImage, error)
	Delete(ctx context.Context, productID int64, imageID int64) error
}
