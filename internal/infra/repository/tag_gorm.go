package repository

import (
	"context"
	"strings"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagGormRepository struct {
	db *gorm.DB
}

func NewTagGormRepository(db *gorm.DB) *TagGormRepository {
	return &TagGormRepository{db: db}
}

// labelの部分一致
func (r *TagGormRepository) List(ctx context.Context, search string) ([]model.Tag, error) {
	q := r.db.WithContext(ctx).Model(&model.Tag{})
	if s := strings.TrimSpace(search); s != "" {
		q = q.Where("LOWER(label) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	var tags []model.Tag
	if err := q.Order("label asc").Find(&tags).Error; err != nil {
		return []model.Tag{}, err
	}
	return tags, nil
}

func (r *TagGormRepository) FindByID(ctx context.Context, id int64) (model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return model.Tag{}, translate(err)
	}
	return t, nil
}

func (r *TagGormRepository) Create(ctx context.Context, tag model.Tag) (model.Tag, error) {
	if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return model.Tag{}, translate(err)
	}
	return tag, nil
}

func (r *TagGormRepository) ListForObject(ctx context.Context, contentType string, objectID int64) ([]model.TaggedItem, error) {
	var items []model.TaggedItem
	if err := r.db.WithContext(ctx).
		Preload("Tag").
		Where("content_type = ? AND object_id = ?", contentType, objectID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.TaggedItem{}, err
	}
	return items, nil
}

func (r *TagGormRepository) TagObject(ctx context.Context, item model.TaggedItem) (model.TaggedItem, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&item).Error; err != nil {
		return model.TaggedItem{}, translate(err)
	}
	if err := r.db.WithContext(ctx).Preload("Tag").First(&item, item.ID).Error; err != nil {
		return model.TaggedItem{}, translate(err)
	}
	return item, nil
}

func (r *TagGormRepository) UntagObject(ctx context.Context, contentType string, objectID int64, tagID int64) error {
	res := r.db.WithContext(ctx).
		Where("content_type = ? AND object_id = ? AND tag_id = ?", contentType, objectID, tagID).
		Delete(&model.TaggedItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
