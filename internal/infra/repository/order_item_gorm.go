package repository

import (
	"context"

	"ecommerce/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const orderItemBatchSize = 100

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

// order_idを埋めてバルクINSERT。(order_id, product_id) の重複は ErrConflict
func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error) {
	if len(items) == 0 {
		return []model.OrderItem{}, nil
	}
	rows := make([]model.OrderItem, len(items))
	for i, it := range items {
		it.OrderID = orderID
		it.Product = model.Product{}
		rows[i] = it
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&rows, orderItemBatchSize).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
