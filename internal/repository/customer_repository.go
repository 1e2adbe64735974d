package repository

import (
	"context"

	"ecommerce/internal/domain/model"
)

// 一覧表示用（注文数付き）
type CustomerWithUser struct {
	model.Customer
	FirstName  string
	LastName   string
	OrderCount int64
}

type CustomerRepository interface {
	List(ctx context.Context, page int, limit int) ([]CustomerWithUser, int64, error)
	FindByID(ctx context.Context, id int64) (CustomerWithUser, error)
	FindByUserID(ctx context.Context, userID int64) (CustomerWithUser, error)
	// 無ければBronzeで作る
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Customer, error)
	Create(ctx context.Context, c model.Customer) (model.Customer, error)
	Update(ctx context.Context, c model.Customer) error
	// 注文があれば ErrProtected
	Delete(ctx context.Context, id int64) error
}
