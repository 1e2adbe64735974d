package repository

import (
	"context"

	"ecommerce/internal/domain/model"
)

type ReviewRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	FindByID(ctx context.Context, productID int64, reviewID int64) (model.Review, error)
	ExistsForCustomer(ctx context.Context, productID int64, customerID int64) (bool, error)
	Create(ctx context.Context, r model.Review) (model.Review, error)
	Update(ctx context.Context, r model.Review) error
	Delete(ctx context.Context, reviewID int64) error
}
