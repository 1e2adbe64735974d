package repository

import (
	"context"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"

	"gorm.io/gorm"
)

type addressGormRepository struct {
	db *gorm.DB
}

func NewAddressGormRepository(db *gorm.DB) repo.AddressRepository {
	return &addressGormRepository{db: db}
}

func ownedBy(customerID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("customer_id = ?", customerID)
	}
}

// 登録順
func (r *addressGormRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Address, error) {
	out := []model.Address{}
	err := r.db.WithContext(ctx).Scopes(ownedBy(customerID)).Order("id asc").Find(&out).Error
	return out, err
}

func (r *addressGormRepository) Find(ctx context.Context, customerID int64, addressID int64) (model.Address, error) {
	var a model.Address
	if err := r.db.WithContext(ctx).Scopes(ownedBy(customerID)).Take(&a, addressID).Error; err != nil {
		return model.Address{}, translate(err)
	}
	return a, nil
}

func (r *addressGormRepository) Create(ctx context.Context, address model.Address) (model.Address, error) {
	if err := r.db.WithContext(ctx).Create(&address).Error; err != nil {
		return model.Address{}, translate(err)
	}
	return address, nil
}

func (r *addressGormRepository) Update(ctx context.Context, address model.Address) error {
	res := r.db.WithContext(ctx).
		Model(&model.Address{}).
		Scopes(ownedBy(address.CustomerID)).
		Where("id = ?", address.ID).
		Updates(map[string]any{
			"country": address.Country,
			"city":    address.City,
			"address": address.Address,
		})
	return affectedOne(res, repo.ErrNotFound)
}

func (r *addressGormRepository) Delete(ctx context.Context, customerID int64, addressID int64) error {
	res := r.db.WithContext(ctx).Scopes(ownedBy(customerID)).Delete(&model.Address{}, addressID)
	return affectedOne(res, repo.ErrNotFound)
}
