package usecase_test

import (
	"net/http"
	"testing"

	"ecommerce/internal/domain/model"
	"ecommerce/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionDelete_RefusedWhileProductsReferenceIt(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "A", "10.00")

	err := e.collections.Delete(ctx, admin, p.CollectionID)
	he := requireStatus(t, err, http.StatusConflict)
	assert.Equal(t, "Collection can't be deleted because it's associated with product", he.Message)

	out, err := e.collections.Get(ctx, p.CollectionID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.ProductCount)
}

func TestCollectionCreate_AdminOnlyAndTitleRequired(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "u@example.com", "090-0000-0001")

	_, err := e.collections.Create(ctx, user, usecase.CollectionInput{Title: "Shoes"})
	requireStatus(t, err, http.StatusForbidden)

	_, err = e.collections.Create(ctx, admin, usecase.CollectionInput{Title: "  "})
	he := requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "title")

	missing := int64(12345)
	_, err = e.collections.Create(ctx, admin, usecase.CollectionInput{Title: "Shoes", FeaturedProduct: &missing})
	requireStatus(t, err, http.StatusBadRequest)

	out, err := e.collections.Create(ctx, admin, usecase.CollectionInput{Title: "Shoes"})
	require.NoError(t, err)
	assert.Equal(t, "Shoes", out.Title)

	require.NoError(t, e.collections.Delete(ctx, admin, out.ID))
	var n int64
	require.NoError(t, e.db.Model(&model.AuditLog{}).Where("resource_type = ?", model.AuditResourceCollection).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCartAddItem_Accumulates(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "A", "2.50")
	cart, err := e.carts.Create(ctx)
	require.NoError(t, err)

	_, err = e.carts.AddItem(ctx, cart.ID, usecase.AddCartItemInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	item, err := e.carts.AddItem(ctx, cart.ID, usecase.AddCartItemInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity)
	assert.Equal(t, "12.50", item.Subtotal)

	got, err := e.carts.Get(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "12.50", got.TotalPrice)
}

func TestCartAddItem_Validation(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "A", "2.50")
	cart, err := e.carts.Create(ctx)
	require.NoError(t, err)

	_, err = e.carts.AddItem(ctx, cart.ID, usecase.AddCartItemInput{ProductID: 9999, Quantity: 1})
	he := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, []string{"No product with the given ID was found."}, he.Fields["product_id"])

	_, err = e.carts.AddItem(ctx, cart.ID, usecase.AddCartItemInput{ProductID: p.ID, Quantity: 0})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = e.carts.AddItem(ctx, "0b3c1f7e-4a5d-4f8e-9c2b-1d2e3f4a5b6c", usecase.AddCartItemInput{ProductID: p.ID, Quantity: 1})
	requireStatus(t, err, http.StatusNotFound)
}

func TestReviewCreate_DuplicateRejected(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "u@example.com", "090-0000-0001")
	p := e.seedProduct(t, "A", "10.00")

	out, err := e.reviews.Create(ctx, user, p.ID, "great")
	require.NoError(t, err)
	assert.Equal(t, "Hanako", out.Customer.User.FirstName)
	assert.Equal(t, "B", out.Customer.Membership)

	_, err = e.reviews.Create(ctx, user, p.ID, "again")
	he := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "you have already commented.", he.Message)

	list, err := e.reviews.List(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReviewUpdate_OwnerOrAdmin(t *testing.T) {
	e := newEnv(t)
	owner := e.seedUser(t, "owner@example.com", "090-0000-0001")
	other := e.seedUser(t, "other@example.com", "090-0000-0002")
	p := e.seedProduct(t, "A", "10.00")

	rv, err := e.reviews.Create(ctx, owner, p.ID, "great")
	require.NoError(t, err)

	_, err = e.reviews.Update(ctx, other, p.ID, rv.ID, "hacked")
	requireStatus(t, err, http.StatusForbidden)

	updated, err := e.reviews.Update(ctx, owner, p.ID, rv.ID, "still great")
	require.NoError(t, err)
	assert.Equal(t, "still great", updated.Description)

	require.NoError(t, e.reviews.Delete(ctx, admin, p.ID, rv.ID))
	_, err = e.reviews.Get(ctx, p.ID, rv.ID)
	requireStatus(t, err, http.StatusNotFound)
}
