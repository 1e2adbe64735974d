package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"
)

const dateLayout = "2006-01-02"

type CustomerOutput struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	BirthDate   *string `json:"birth_date"`
	Membership  string  `json:"membership"`
	OrdersCount int64   `json:"orders_count"`
}

type CustomerListOutput struct {
	Items []CustomerOutput `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// birth_date は "YYYY-MM-DD" か空（クリア）
type CustomerUpdateInput struct {
	BirthDate  *string
	Membership *string
}

type CustomerUsecase struct {
	customers repo.CustomerRepository
}

func NewCustomerUsecase(customers repo.CustomerRepository) *CustomerUsecase {
	return &CustomerUsecase{customers: customers}
}

func (u *CustomerUsecase) List(ctx context.Context, actor Actor, page int, limit int) (CustomerListOutput, error) {
	if !actor.IsAdmin() {
		return CustomerListOutput{}, PermissionDenied()
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	list, total, err := u.customers.List(ctx, page, limit)
	if err != nil {
		return CustomerListOutput{}, dbError()
	}
	out := make([]CustomerOutput, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerOutput(c))
	}
	return CustomerListOutput{Items: out, Total: total, Page: page, Limit: limit}, nil
}

func (u *CustomerUsecase) Get(ctx context.Context, actor Actor, id int64) (CustomerOutput, error) {
	if !actor.IsAdmin() {
		return CustomerOutput{}, PermissionDenied()
	}
	c, err := u.customers.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return CustomerOutput{}, NotFound("")
	}
	if err != nil {
		return CustomerOutput{}, dbError()
	}
	return toCustomerOutput(c), nil
}

// 管理者はmembershipも変更できる
func (u *CustomerUsecase) Update(ctx context.Context, actor Actor, id int64, in CustomerUpdateInput) (CustomerOutput, error) {
	if !actor.IsAdmin() {
		return CustomerOutput{}, PermissionDenied()
	}
	c, err := u.customers.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return CustomerOutput{}, NotFound("")
	}
	if err != nil {
		return CustomerOutput{}, dbError()
	}
	return u.apply(ctx, c, in, true)
}

func (u *CustomerUsecase) Delete(ctx context.Context, actor Actor, id int64) error {
	if !actor.IsAdmin() {
		return PermissionDenied()
	}
	err := u.customers.Delete(ctx, id)
	switch {
	case errors.Is(err, repo.ErrProtected):
		return IntegrityConflict("Customer can't be deleted because it has orders")
	case errors.Is(err, repo.ErrNotFound):
		return NotFound("")
	case err != nil:
		return dbError()
	}
	return nil
}

// GET /store/customers/me（無ければ作る）
func (u *CustomerUsecase) Me(ctx context.Context, actor Actor) (CustomerOutput, error) {
	c, err := u.me(ctx, actor)
	if err != nil {
		return CustomerOutput{}, err
	}
	return toCustomerOutput(c), nil
}

// PUT /store/customers/me（membershipは変更不可）
func (u *CustomerUsecase) UpdateMe(ctx context.Context, actor Actor, in CustomerUpdateInput) (CustomerOutput, error) {
	c, err := u.me(ctx, actor)
	if err != nil {
		return CustomerOutput{}, err
	}
	in.Membership = nil
	return u.apply(ctx, c, in, false)
}

func (u *CustomerUsecase) me(ctx context.Context, actor Actor) (repo.CustomerWithUser, error) {
	if !actor.Authenticated() {
		return repo.CustomerWithUser{}, Unauthorized()
	}
	if _, err := u.customers.GetOrCreateByUserID(ctx, actor.UserID); err != nil {
		return repo.CustomerWithUser{}, dbError()
	}
	c, err := u.customers.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return repo.CustomerWithUser{}, dbError()
	}
	return c, nil
}

func (u *CustomerUsecase) apply(ctx context.Context, c repo.CustomerWithUser, in CustomerUpdateInput, allowMembership bool) (CustomerOutput, error) {
	if in.BirthDate != nil {
		s := strings.TrimSpace(*in.BirthDate)
		if s == "" {
			c.BirthDate = nil
		} else {
			d, err := time.Parse(dateLayout, s)
			if err != nil {
				return CustomerOutput{}, FieldError("birth_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
			}
			c.BirthDate = &d
		}
	}
	if allowMembership && in.Membership != nil {
		m := model.Membership(*in.Membership)
		if !m.Valid() {
			return CustomerOutput{}, FieldError("membership", "\""+*in.Membership+"\" is not a valid choice.")
		}
		c.Membership = m
	}

	if err := u.customers.Update(ctx, c.Customer); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CustomerOutput{}, NotFound("")
		}
		return CustomerOutput{}, dbError()
	}
	return toCustomerOutput(c), nil
}

func toCustomerOutput(c repo.CustomerWithUser) CustomerOutput {
	var bd *string
	if c.BirthDate != nil {
		s := c.BirthDate.Format(dateLayout)
		bd = &s
	}
	return CustomerOutput{
		ID:          c.ID,
		UserID:      c.UserID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		BirthDate:   bd,
		Membership:  string(c.Membership),
		OrdersCount: c.OrderCount,
	}
}
