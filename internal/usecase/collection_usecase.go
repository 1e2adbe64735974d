package usecase

import (
	"context"
	"errors"
	"strings"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"

	"go.uber.org/zap"
)

type CollectionOutput struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	FeaturedProduct *int64 `json:"featured_product"`
	ProductCount    int64  `json:"product_count"`
}

type CollectionInput struct {
	Title           string
	FeaturedProduct *int64
}

type CollectionUsecase struct {
	collections repo.CollectionRepository
	products    repo.ProductRepository
	auditRepo   repo.AuditLogRepository
	log         *zap.Logger
}

func NewCollectionUsecase(
	collections repo.CollectionRepository,
	products repo.ProductRepository,
	auditRepo repo.AuditLogRepository,
	log *zap.Logger,
) *CollectionUsecase {
	return &CollectionUsecase{
		collections: collections,
		products:    products,
		auditRepo:   auditRepo,
		log:         log,
	}
}

func (u *CollectionUsecase) List(ctx context.Context) ([]CollectionOutput, error) {
	list, err := u.collections.List(ctx)
	if err != nil {
		return nil, dbError()
	}
	out := make([]CollectionOutput, 0, len(list))
	for _, c := range list {
		out = append(out, toCollectionOutput(c))
	}
	return out, nil
}

func (u *CollectionUsecase) Get(ctx context.Context, id int64) (CollectionOutput, error) {
	c, err := u.collections.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return CollectionOutput{}, NotFound("")
	}
	if err != nil {
		return CollectionOutput{}, dbError()
	}
	return toCollectionOutput(c), nil
}

func (u *CollectionUsecase) Create(ctx context.Context, actor Actor, in CollectionInput) (CollectionOutput, error) {
	if !actor.IsAdmin() {
		return CollectionOutput{}, PermissionDenied()
	}
	if err := u.validate(ctx, in); err != nil {
		return CollectionOutput{}, err
	}

	c, err := u.collections.Create(ctx, model.Collection{
		Title:             strings.TrimSpace(in.Title),
		FeaturedProductID: in.FeaturedProduct,
	})
	if err != nil {
		return CollectionOutput{}, dbError()
	}
	return toCollectionOutput(repo.CollectionWithCount{Collection: c}), nil
}

func (u *CollectionUsecase) Update(ctx context.Context, actor Actor, id int64, in CollectionInput) (CollectionOutput, error) {
	if !actor.IsAdmin() {
		return CollectionOutput{}, PermissionDenied()
	}
	if err := u.validate(ctx, in); err != nil {
		return CollectionOutput{}, err
	}

	err := u.collections.Update(ctx, model.Collection{
		ID:                id,
		Title:             strings.TrimSpace(in.Title),
		FeaturedProductID: in.FeaturedProduct,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return CollectionOutput{}, NotFound("")
	}
	if err != nil {
		return CollectionOutput{}, dbError()
	}
	return u.Get(ctx, id)
}

// 商品が紐づいていれば409
func (u *CollectionUsecase) Delete(ctx context.Context, actor Actor, id int64) error {
	if !actor.IsAdmin() {
		return PermissionDenied()
	}

	before, err := u.collections.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound("")
	}
	if err != nil {
		return dbError()
	}

	err = u.collections.Delete(ctx, id)
	switch {
	case errors.Is(err, repo.ErrProtected):
		return IntegrityConflict("Collection can't be deleted because it's associated with product")
	case errors.Is(err, repo.ErrNotFound):
		return NotFound("")
	case err != nil:
		return dbError()
	}

	writeAudit(ctx, u.log, u.auditRepo, actor, model.AuditActionDelete, model.AuditResourceCollection, id, toCollectionOutput(before), nil)
	return nil
}

func (u *CollectionUsecase) validate(ctx context.Context, in CollectionInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return FieldError("title", "This field is required.")
	}
	if len(title) > 255 {
		return FieldError("title", "Ensure this field has no more than 255 characters.")
	}
	if in.FeaturedProduct != nil {
		ok, err := u.products.Exists(ctx, *in.FeaturedProduct)
		if err != nil {
			return dbError()
		}
		if !ok {
			return FieldError("featured_product", "Invalid pk - object does not exist.")
		}
	}
	return nil
}

func toCollectionOutput(c repo.CollectionWithCount) CollectionOutput {
	return CollectionOutput{
		ID:              c.ID,
		Title:           c.Title,
		FeaturedProduct: c.FeaturedProductID,
		ProductCount:    c.ProductCount,
	}
}
