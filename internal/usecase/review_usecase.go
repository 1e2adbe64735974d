package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"
)

type ReviewUserOutput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ReviewCustomerOutput struct {
	ID         int64            `json:"id"`
	User       ReviewUserOutput `json:"user"`
	Membership string           `json:"membership"`
}

type ReviewOutput struct {
	ID          int64                `json:"id"`
	Date        string               `json:"date"`
	Customer    ReviewCustomerOutput `json:"customer"`
	Description string               `json:"description"`
}

type ReviewUsecase struct {
	reviews   repo.ReviewRepository
	products  repo.ProductRepository
	customers repo.CustomerRepository
	now       func() time.Time
}

func NewReviewUsecase(reviews repo.ReviewRepository, products repo.ProductRepository, customers repo.CustomerRepository) *ReviewUsecase {
	return &ReviewUsecase{
		reviews:   reviews,
		products:  products,
		customers: customers,
		now:       time.Now,
	}
}

func (u *ReviewUsecase) List(ctx context.Context, productID int64) ([]ReviewOutput, error) {
	if err := u.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	list, err := u.reviews.ListByProductID(ctx, productID)
	if err != nil {
		return nil, dbError()
	}

	cache := map[int64]repo.CustomerWithUser{}
	out := make([]ReviewOutput, 0, len(list))
	for _, rv := range list {
		c, ok := cache[rv.CustomerID]
		if !ok {
			c, err = u.customers.FindByID(ctx, rv.CustomerID)
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, dbError()
			}
			cache[rv.CustomerID] = c
		}
		out = append(out, toReviewOutput(rv, c))
	}
	return out, nil
}

func (u *ReviewUsecase) Get(ctx context.Context, productID int64, reviewID int64) (ReviewOutput, error) {
	rv, err := u.find(ctx, productID, reviewID)
	if err != nil {
		return ReviewOutput{}, err
	}
	c, err := u.customers.FindByID(ctx, rv.CustomerID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return ReviewOutput{}, dbError()
	}
	return toReviewOutput(rv, c), nil
}

// 同じ顧客×商品は1件まで（insert前にチェック）
func (u *ReviewUsecase) Create(ctx context.Context, actor Actor, productID int64, description string) (ReviewOutput, error) {
	if !actor.Authenticated() {
		return ReviewOutput{}, Unauthorized()
	}
	if err := u.ensureProduct(ctx, productID); err != nil {
		return ReviewOutput{}, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return ReviewOutput{}, FieldError("description", "This field may not be blank.")
	}

	customer, err := u.customers.GetOrCreateByUserID(ctx, actor.UserID)
	if err != nil {
		return ReviewOutput{}, dbError()
	}

	exists, err := u.reviews.ExistsForCustomer(ctx, productID, customer.ID)
	if err != nil {
		return ReviewOutput{}, dbError()
	}
	if exists {
		return ReviewOutput{}, ValidationError("you have already commented.")
	}

	rv, err := u.reviews.Create(ctx, model.Review{
		ProductID:   productID,
		CustomerID:  customer.ID,
		Description: description,
		Date:        u.now(),
	})
	if err != nil {
		return ReviewOutput{}, dbError()
	}

	c, err := u.customers.FindByID(ctx, customer.ID)
	if err != nil {
		return ReviewOutput{}, dbError()
	}
	return toReviewOutput(rv, c), nil
}

// 本人か管理者
func (u *ReviewUsecase) Update(ctx context.Context, actor Actor, productID int64, reviewID int64, description string) (ReviewOutput, error) {
	rv, err := u.authorize(ctx, actor, productID, reviewID)
	if err != nil {
		return ReviewOutput{}, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return ReviewOutput{}, FieldError("description", "This field may not be blank.")
	}

	rv.Description = description
	if err := u.reviews.Update(ctx, rv); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ReviewOutput{}, NotFound("")
		}
		return ReviewOutput{}, dbError()
	}
	return u.Get(ctx, productID, reviewID)
}

func (u *ReviewUsecase) Delete(ctx context.Context, actor Actor, productID int64, reviewID int64) error {
	rv, err := u.authorize(ctx, actor, productID, reviewID)
	if err != nil {
		return err
	}
	if err := u.reviews.Delete(ctx, rv.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("")
		}
		return dbError()
	}
	return nil
}

func (u *ReviewUsecase) authorize(ctx context.Context, actor Actor, productID int64, reviewID int64) (model.Review, error) {
	if !actor.Authenticated() {
		return model.Review{}, Unauthorized()
	}
	rv, err := u.find(ctx, productID, reviewID)
	if err != nil {
		return model.Review{}, err
	}
	if actor.IsAdmin() {
		return rv, nil
	}
	c, err := u.customers.FindByUserID(ctx, actor.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Review{}, PermissionDenied()
	}
	if err != nil {
		return model.Review{}, dbError()
	}
	if c.ID != rv.CustomerID {
		return model.Review{}, PermissionDenied()
	}
	return rv, nil
}

func (u *ReviewUsecase) find(ctx context.Context, productID int64, reviewID int64) (model.Review, error) {
	rv, err := u.reviews.FindByID(ctx, productID, reviewID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Review{}, NotFound("")
	}
	if err != nil {
		return model.Review{}, dbError()
	}
	return rv, nil
}

func (u *ReviewUsecase) ensureProduct(ctx context.Context, productID int64) error {
	ok, err := u.products.Exists(ctx, productID)
	if err != nil {
		return dbError()
	}
	if !ok {
		return NotFound("")
	}
	return nil
}

func toReviewOutput(rv model.Review, c repo.CustomerWithUser) ReviewOutput {
	return ReviewOutput{
		ID:   rv.ID,
		Date: rv.Date.Format("2006-01-02"),
		Customer: ReviewCustomerOutput{
			ID:         rv.CustomerID,
			User:       ReviewUserOutput{FirstName: c.FirstName, LastName: c.LastName},
			Membership: string(c.Membership),
		},
		Description: rv.Description,
	}
}
