package repository

import (
	"context"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"

	"gorm.io/gorm"
)

type CollectionGormRepository struct {
	db *gorm.DB
}

func NewCollectionGormRepository(db *gorm.DB) *CollectionGormRepository {
	return &CollectionGormRepository{db: db}
}

type collectionCount struct {
	CollectionID int64
	N            int64
}

// 商品数付きで全件
func (r *CollectionGormRepository) List(ctx context.Context) ([]repo.CollectionWithCount, error) {
	var cs []model.Collection
	if err := r.db.WithContext(ctx).Order("id asc").Find(&cs).Error; err != nil {
		return []repo.CollectionWithCount{}, err
	}

	var counts []collectionCount
	if err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("collection_id, COUNT(*) AS n").
		Group("collection_id").
		Scan(&counts).Error; err != nil {
		return []repo.CollectionWithCount{}, err
	}
	byID := make(map[int64]int64, len(counts))
	for _, c := range counts {
		byID[c.CollectionID] = c.N
	}

	out := make([]repo.CollectionWithCount, 0, len(cs))
	for _, c := range cs {
		out = append(out, repo.CollectionWithCount{Collection: c, ProductCount: byID[c.ID]})
	}
	return out, nil
}

func (r *CollectionGormRepository) FindByID(ctx context.Context, id int64) (repo.CollectionWithCount, error) {
	var c model.Collection
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return repo.CollectionWithCount{}, translate(err)
	}
	n, err := r.CountProducts(ctx, id)
	if err != nil {
		return repo.CollectionWithCount{}, err
	}
	return repo.CollectionWithCount{Collection: c, ProductCount: n}, nil
}

func (r *CollectionGormRepository) Create(ctx context.Context, c model.Collection) (model.Collection, error) {
	if err := r.db.WithContext(ctx).Omit("Products").Create(&c).Error; err != nil {
		return model.Collection{}, translate(err)
	}
	return c, nil
}

func (r *CollectionGormRepository) Update(ctx context.Context, c model.Collection) error {
	res := r.db.WithContext(ctx).
		Model(&model.Collection{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"title":               c.Title,
			"featured_product_id": c.FeaturedProductID,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品が残っていれば消さない
func (r *CollectionGormRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return repo.ErrProtected
	}

	res := r.db.WithContext(ctx).Delete(&model.Collection{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CollectionGormRepository) CountProducts(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("collection_id = ?", id).
		Count(&n).Error
	return n, err
}
