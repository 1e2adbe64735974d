package repository

import (
	"context"

	"ecommerce/internal/domain/model"
)

// 顧客の住所。更新・削除・取得は customerID で絞る（他人の住所は ErrNotFound）
type AddressRepository interface {
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Address, error)
	Find(ctx context.Context, customerID int64, addressID int64) (model.Address, error)
	Create(ctx context.Context, address model.Address) (model.Address, error)
	Update(ctx context.Context, address model.Address) error
	Delete(ctx context.Context, customerID int64, addressID int64) error
}
