package repository

import (
	"context"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// IDはここで採番（uuid）
func (r *CartGormRepository) Create(ctx context.Context, cart model.Cart) (model.Cart, error) {
	if cart.ID == "" {
		cart.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&cart).Error; err != nil {
		return model.Cart{}, translate(err)
	}
	cart.Items = []model.CartItem{}
	return cart, nil
}

// 明細と商品を含めて取得
func (r *CartGormRepository) FindByID(ctx context.Context, cartID string) (model.Cart, error) {
	return r.find(ctx, r.db.WithContext(ctx), cartID)
}

// 行ロックして取得（sqliteではロック句は無視される）
func (r *CartGormRepository) FindByIDForUpdate(ctx context.Context, cartID string) (model.Cart, error) {
	return r.find(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), cartID)
}

func (r *CartGormRepository) find(ctx context.Context, tx *gorm.DB, cartID string) (model.Cart, error) {
	if _, err := uuid.Parse(cartID); err != nil {
		return model.Cart{}, repo.ErrNotFound
	}

	var cart model.Cart
	if err := tx.Where("id = ?", cartID).First(&cart).Error; err != nil {
		return model.Cart{}, translate(err)
	}

	// ロック句をpreloadに持ち込まない
	items, err := NewCartItemGormRepository(r.db).ListByCartID(ctx, cartID)
	if err != nil {
		return model.Cart{}, err
	}
	cart.Items = items
	return cart, nil
}

// 明細→カートの順に削除
func (r *CartGormRepository) Delete(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", cartID).Delete(&model.Cart{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
