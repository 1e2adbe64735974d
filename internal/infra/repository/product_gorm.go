package repository

import (
	"context"
	"strings"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 許可するordering
var productOrderings = map[string]string{
	"price":        "price asc",
	"-price":       "price desc",
	"last_update":  "last_update asc",
	"-last_update": "last_update desc",
}

// 検索/コレクション/価格帯/在庫/ソート/ページング付きで返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	// title / description / コレクション名を対象（大文字小文字を区別しない）
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR collection_id IN (?)",
			like, like,
			r.db.Model(&model.Collection{}).Select("id").Where("LOWER(title) LIKE ?", like),
		)
	}
	if q.CollectionID != nil {
		tx = tx.Where("collection_id = ?", *q.CollectionID)
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	switch q.InventoryStatus {
	case "low":
		tx = tx.Where("inventory < ?", model.LowInventoryThreshold)
	case "ok":
		tx = tx.Where("inventory >= ?", model.LowInventoryThreshold)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	//sort
	if o, ok := productOrderings[q.Ordering]; ok {
		tx = tx.Order(o)
	}
	tx = tx.Order("id asc")

	if q.Limit > 0 {
		tx = tx.Offset(pageOffset(q.Page, q.Limit)).Limit(q.Limit)
	}
	if err := tx.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

// IDで商品を取得（画像込み）
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		First(&p, id).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// 商品の作成（slugはフックで作る）
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 商品の更新。呼び出し側で読み込んだレコードを渡す
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) (model.Product, error) {
	if p.ID == 0 {
		return model.Product{}, repo.ErrNotFound
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 商品削除。注文明細があれば消さない
func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.CountOrderItems(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return repo.ErrProtected
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// featured_product はNULLへ
		if err := tx.Model(&model.Collection{}).
			Where("featured_product_id = ?", id).
			Update("featured_product_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_type = ? AND object_id = ?", model.ContentTypeProduct, id).
			Delete(&model.TaggedItem{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Product{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

func (r *ProductGormRepository) CountOrderItems(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Where("product_id = ?", id).
		Count(&n).Error
	return n, err
}

// 在庫を0に
func (r *ProductGormRepository) ClearInventory(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id IN ?", ids).
		Update("inventory", 0)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

type ProductImageGormRepository struct {
	db *gorm.DB
}

func NewProductImageGormRepository(db *gorm.DB) *ProductImageGormRepository {
	return &ProductImageGormRepository{db: db}
}

func (r *ProductImageGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	var imgs []model.ProductImage
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&imgs).Error; err != nil {
		return []model.ProductImage{}, err
	}
	return imgs, nil
}

func (r *ProductImageGormRepository) FindByID(ctx context.Context, productID int64, imageID int64) (model.ProductImage, error) {
	var img model.ProductImage
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		First(&img).Error
	if err != nil {
		return model.ProductImage{}, translate(err)
	}
	return img, nil
}

func (r *ProductImageGormRepository) Create(ctx context.Context, img model.ProductImage) (model.ProductImage, error) {
	if err := r.db.WithContext(ctx).Create(&img).Error; err != nil {
		return model.ProductImage{}, translate(err)
	}
	return img, nil
}

func (r *ProductImageGormRepository) Delete(ctx context.Context, productID int64, imageID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		Delete(&model.ProductImage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
