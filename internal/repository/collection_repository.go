package repository

import (
	"context"

	"ecommerce/internal/domain/model"
)

// 一覧表示用（product_count 付き）
type CollectionWithCount struct {
	model.Collection
	ProductCount int64
}

type CollectionRepository interface {
	List(ctx context.Context) ([]CollectionWithCount, error)
	FindByID(ctx context.Context, id int64) (CollectionWithCount, error)
	Create(ctx context.Context, c model.Collection) (model.Collection, error)
	Update(ctx context.Context, c model.Collection) error
	// 商品が1件でも紐づいていれば ErrProtected
	Delete(ctx context.Context, id int64) error
	CountProducts(ctx context.Context, id int64) (int64, error)
}
