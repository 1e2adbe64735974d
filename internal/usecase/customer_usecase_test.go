package usecase_test

import (
	"net/http"
	"testing"

	"ecommerce/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestCustomerMe_CreatesOnFirstAccess(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "u@example.com", "090-0000-0001")

	me, err := e.customers.Me(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, me.UserID)
	assert.Equal(t, "B", me.Membership)
	assert.Nil(t, me.BirthDate)

	again, err := e.customers.Me(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, me.ID, again.ID)
}

func TestCustomerUpdateMe_BirthDateOnly(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "u@example.com", "090-0000-0001")

	out, err := e.customers.UpdateMe(ctx, user, usecase.CustomerUpdateInput{
		BirthDate:  strp("1990-04-01"),
		Membership: strp("G"),
	})
	require.NoError(t, err)
	require.NotNil(t, out.BirthDate)
	assert.Equal(t, "1990-04-01", *out.BirthDate)
	assert.Equal(t, "B", out.Membership)

	_, err = e.customers.UpdateMe(ctx, user, usecase.CustomerUpdateInput{BirthDate: strp("01/04/1990")})
	he := requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "birth_date")
}

func TestCustomerAdmin(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "u@example.com", "090-0000-0001")
	me, err := e.customers.Me(ctx, user)
	require.NoError(t, err)

	_, err = e.customers.List(ctx, user, 1, 10)
	requireStatus(t, err, http.StatusForbidden)

	out, err := e.customers.Update(ctx, admin, me.ID, usecase.CustomerUpdateInput{Membership: strp("S")})
	require.NoError(t, err)
	assert.Equal(t, "S", out.Membership)

	_, err = e.customers.Update(ctx, admin, me.ID, usecase.CustomerUpdateInput{Membership: strp("X")})
	requireStatus(t, err, http.StatusBadRequest)

	list, err := e.customers.List(ctx, admin, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
}

func TestCustomerDelete_RefusedWithOrders(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "u@example.com", "090-0000-0001")
	p := e.seedProduct(t, "A", "10.00")
	order, err := e.orders.PlaceOrder(ctx, user.UserID, usecase.PlaceOrderInput{CartID: fillCart(t, e, map[int64]int64{p.ID: 1})})
	require.NoError(t, err)

	err = e.customers.Delete(ctx, admin, order.Customer)
	requireStatus(t, err, http.StatusConflict)
}

func TestAddresses_OwnedByCustomer(t *testing.T) {
	e := newEnv(t)
	owner := e.seedUser(t, "owner@example.com", "090-0000-0001")
	other := e.seedUser(t, "other@example.com", "090-0000-0002")

	_, err := e.addresses.Create(ctx, owner.UserID, usecase.AddressRequest{Country: "JP"})
	he := requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "city")
	assert.Contains(t, he.Fields, "address")

	a, err := e.addresses.Create(ctx, owner.UserID, usecase.AddressRequest{Country: "JP", City: "Tokyo", Address: "1-1 Chiyoda"})
	require.NoError(t, err)

	_, err = e.addresses.Update(ctx, other.UserID, a.ID, usecase.AddressRequest{Country: "JP", City: "Osaka", Address: "x"})
	requireStatus(t, err, http.StatusNotFound)

	err = e.addresses.Delete(ctx, other.UserID, a.ID)
	requireStatus(t, err, http.StatusNotFound)

	list, err := e.addresses.List(ctx, other.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)

	updated, err := e.addresses.Update(ctx, owner.UserID, a.ID, usecase.AddressRequest{Country: "JP", City: " Osaka ", Address: "2-2 Kita"})
	require.NoError(t, err)
	assert.Equal(t, "Osaka", updated.City)

	require.NoError(t, e.addresses.Delete(ctx, owner.UserID, a.ID))
	list, err = e.addresses.List(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
