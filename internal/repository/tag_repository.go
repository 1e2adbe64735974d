package repository

import (
	"context"

	"ecommerce/internal/domain/model"
)

type TagRepository interface {
	List(ctx context.Context, search string) ([]model.Tag, error)
	FindByID(ctx context.Context, id int64) (model.Tag, error)
	Create(ctx context.Context, tag model.Tag) (model.Tag, error)

	ListForObject(ctx context.Context, contentType string, objectID int64) ([]model.TaggedItem, error)
	// 既に付いていれば ErrConflict
	TagObject(ctx context.Context, item model.TaggedItem) (model.TaggedItem, error)
	UntagObject(ctx context.Context, contentType string, objectID int64, tagID int64) error
}
