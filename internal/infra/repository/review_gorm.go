package repository

import (
	"context"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	var out []model.Review
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&out).Error; err != nil {
		return []model.Review{}, err
	}
	return out, nil
}

func (r *ReviewGormRepository) FindByID(ctx context.Context, productID int64, reviewID int64) (model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", reviewID, productID).
		First(&rv).Error
	if err != nil {
		return model.Review{}, translate(err)
	}
	return rv, nil
}

func (r *ReviewGormRepository) ExistsForCustomer(ctx context.Context, productID int64, customerID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("product_id = ? AND customer_id = ?", productID, customerID).
		Count(&n).Error
	return n > 0, err
}

func (r *ReviewGormRepository) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rv).Error; err != nil {
		return model.Review{}, translate(err)
	}
	return rv, nil
}

// descriptionのみ更新
func (r *ReviewGormRepository) Update(ctx context.Context, rv model.Review) error {
	res := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", rv.ID).
		Update("description", rv.Description)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ReviewGormRepository) Delete(ctx context.Context, reviewID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Review{}, reviewID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
