package usecase

import (
	"context"
	"errors"
	"strings"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"
)

type TagOutput struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type TaggedItemOutput struct {
	ID  int64     `json:"id"`
	Tag TagOutput `json:"tag"`
}

type TagUsecase struct {
	tags     repo.TagRepository
	products repo.ProductRepository
}

func NewTagUsecase(tags repo.TagRepository, products repo.ProductRepository) *TagUsecase {
	return &TagUsecase{tags: tags, products: products}
}

func (u *TagUsecase) List(ctx context.Context, search string) ([]TagOutput, error) {
	tags, err := u.tags.List(ctx, search)
	if err != nil {
		return nil, dbError()
	}
	out := make([]TagOutput, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagOutput{ID: t.ID, Label: t.Label})
	}
	return out, nil
}

func (u *TagUsecase) Create(ctx context.Context, actor Actor, label string) (TagOutput, error) {
	if !actor.IsAdmin() {
		return TagOutput{}, PermissionDenied()
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return TagOutput{}, FieldError("label", "This field may not be blank.")
	}
	if len(label) > 255 {
		return TagOutput{}, FieldError("label", "Ensure this field has no more than 255 characters.")
	}

	t, err := u.tags.Create(ctx, model.Tag{Label: label})
	if errors.Is(err, repo.ErrConflict) {
		return TagOutput{}, FieldError("label", "tag with this label already exists.")
	}
	if err != nil {
		return TagOutput{}, dbError()
	}
	return TagOutput{ID: t.ID, Label: t.Label}, nil
}

func (u *TagUsecase) ListForProduct(ctx context.Context, productID int64) ([]TaggedItemOutput, error) {
	if err := u.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	items, err := u.tags.ListForObject(ctx, model.ContentTypeProduct, productID)
	if err != nil {
		return nil, dbError()
	}
	out := make([]TaggedItemOutput, 0, len(items))
	for _, it := range items {
		out = append(out, toTaggedItemOutput(it))
	}
	return out, nil
}

func (u *TagUsecase) TagProduct(ctx context.Context, actor Actor, productID int64, tagID int64) (TaggedItemOutput, error) {
	if !actor.IsAdmin() {
		return TaggedItemOutput{}, PermissionDenied()
	}
	if err := u.ensureProduct(ctx, productID); err != nil {
		return TaggedItemOutput{}, err
	}
	if _, err := u.tags.FindByID(ctx, tagID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TaggedItemOutput{}, FieldError("tag_id", "Invalid pk - object does not exist.")
		}
		return TaggedItemOutput{}, dbError()
	}

	item, err := u.tags.TagObject(ctx, model.TaggedItem{
		TagID:       tagID,
		ContentType: model.ContentTypeProduct,
		ObjectID:    productID,
	})
	if errors.Is(err, repo.ErrConflict) {
		return TaggedItemOutput{}, ValidationError("The product already has this tag.")
	}
	if err != nil {
		return TaggedItemOutput{}, dbError()
	}
	return toTaggedItemOutput(item), nil
}

func (u *TagUsecase) UntagProduct(ctx context.Context, actor Actor, productID int64, tagID int64) error {
	if !actor.IsAdmin() {
		return PermissionDenied()
	}
	err := u.tags.UntagObject(ctx, model.ContentTypeProduct, productID, tagID)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound("")
	}
	if err != nil {
		return dbError()
	}
	return nil
}

func (u *TagUsecase) ensureProduct(ctx context.Context, productID int64) error {
	ok, err := u.products.Exists(ctx, productID)
	if err != nil {
		return dbError()
	}
	if !ok {
		return NotFound("")
	}
	return nil
}

func toTaggedItemOutput(it model.TaggedItem) TaggedItemOutput {
	return TaggedItemOutput{ID: it.ID, Tag: TagOutput{ID: it.Tag.ID, Label: it.Tag.Label}}
}
