package usecase

import (
	"context"
	"errors"
	"strings"

	"ecommerce/internal/domain/model"
	"ecommerce/internal/repository"
)

type AddressDTO struct {
	ID      int64  `json:"id"`
	Country string `json:"country"`
	City    string `json:"city"`
	Address string `json:"address"`
}

type AddressRequest struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// /store/customers/me/addresses
type AddressUsecase struct {
	addresses repository.AddressRepository
	customers repository.CustomerRepository
}

func NewAddressUsecase(addresses repository.AddressRepository, customers repository.CustomerRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses, customers: customers}
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]AddressDTO, error) {
	customerID, err := u.customerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	list, err := u.addresses.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, dbError()
	}

	out := make([]AddressDTO, 0, len(list))
	for i := range list {
		out = append(out, toAddressDTO(list[i]))
	}
	return out, nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, req AddressRequest) (AddressDTO, error) {
	customerID, err := u.customerID(ctx, userID)
	if err != nil {
		return AddressDTO{}, err
	}
	if err := validateAddress(req); err != nil {
		return AddressDTO{}, err
	}

	a, err := u.addresses.Create(ctx, model.Address{
		CustomerID: customerID,
		Country:    strings.TrimSpace(req.Country),
		City:       strings.TrimSpace(req.City),
		Address:    strings.TrimSpace(req.Address),
	})
	if err != nil {
		return AddressDTO{}, dbError()
	}
	return toAddressDTO(a), nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, req AddressRequest) (AddressDTO, error) {
	a, err := u.owned(ctx, userID, addressID)
	if err != nil {
		return AddressDTO{}, err
	}
	if err := validateAddress(req); err != nil {
		return AddressDTO{}, err
	}

	a.Country = strings.TrimSpace(req.Country)
	a.City = strings.TrimSpace(req.City)
	a.Address = strings.TrimSpace(req.Address)
	if err := u.addresses.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AddressDTO{}, NotFound("")
		}
		return AddressDTO{}, dbError()
	}
	return toAddressDTO(a), nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	customerID, err := u.customerID(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.addresses.Delete(ctx, customerID, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("")
		}
		return dbError()
	}
	return nil
}

// 他人の住所は404
func (u *AddressUsecase) owned(ctx context.Context, userID int64, addressID int64) (model.Address, error) {
	customerID, err := u.customerID(ctx, userID)
	if err != nil {
		return model.Address{}, err
	}
	a, err := u.addresses.Find(ctx, customerID, addressID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Address{}, NotFound("")
	}
	if err != nil {
		return model.Address{}, dbError()
	}
	return a, nil
}

func (u *AddressUsecase) customerID(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, Unauthorized()
	}
	c, err := u.customers.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return 0, dbError()
	}
	return c.ID, nil
}

func validateAddress(req AddressRequest) error {
	fields := map[string][]string{}
	for name, v := range map[string]string{"country": req.Country, "city": req.City, "address": req.Address} {
		v = strings.TrimSpace(v)
		if v == "" {
			fields[name] = []string{"This field may not be blank."}
		} else if len(v) > 255 {
			fields[name] = []string{"Ensure this field has no more than 255 characters."}
		}
	}
	if len(fields) > 0 {
		return FieldsError(fields)
	}
	return nil
}

func toAddressDTO(a model.Address) AddressDTO {
	return AddressDTO{
		ID:      a.ID,
		Country: a.Country,
		City:    a.City,
		Address: a.Address,
	}
}
