package repository_test

import (
	"testing"

	"ecommerce/internal/domain/model"
	infra "ecommerce/internal/infra/repository"
	repo "ecommerce/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_ListFilters(t *testing.T) {
	gdb := newTestDB(t)
	mugs := seedCollection(t, gdb, "Mugs")
	tees := seedCollection(t, gdb, "Tees")
	seedProduct(t, gdb, mugs.ID, "Blue Mug", "9.50", 3)
	seedProduct(t, gdb, mugs.ID, "Red Mug", "15.00", 40)
	seedProduct(t, gdb, tees.ID, "Plain Tee", "20.00", 5)

	products := infra.NewProductGormRepository(gdb)

	got, total, err := products.List(ctx, repo.ProductListQuery{Page: 1, Limit: 10, CollectionID: &mugs.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, got, 2)

	got, _, err = products.List(ctx, repo.ProductListQuery{Page: 1, Limit: 10, Search: "MUG", InventoryStatus: "low"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Blue Mug", got[0].Title)

	got, _, err = products.List(ctx, repo.ProductListQuery{Page: 1, Limit: 10, Search: "tees"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Plain Tee", got[0].Title)

	min := decimal.RequireFromString("10")
	got, _, err = products.List(ctx, repo.ProductListQuery{Page: 1, Limit: 10, MinPrice: &min, Ordering: "-price"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Plain Tee", got[0].Title)
	assert.Equal(t, "Red Mug", got[1].Title)
}

func TestProduct_UpdateRegeneratesSlug(t *testing.T) {
	gdb := newTestDB(t)
	col := seedCollection(t, gdb, "Mugs")
	p := seedProduct(t, gdb, col.ID, "Blue Mug", "9.50", 3)
	assert.Equal(t, "blue-mug", p.Slug)

	products := infra.NewProductGormRepository(gdb)
	loaded, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)

	loaded.Title = "Green Mug"
	updated, err := products.Update(ctx, loaded)
	require.NoError(t, err)
	assert.Equal(t, "green-mug", updated.Slug)
}

func TestProduct_DuplicateSlugIsConflict(t *testing.T) {
	gdb := newTestDB(t)
	col := seedCollection(t, gdb, "Mugs")
	seedProduct(t, gdb, col.ID, "Blue Mug", "9.50", 3)

	products := infra.NewProductGormRepository(gdb)
	_, err := products.Create(ctx, model.Product{
		Title:        "Blue  Mug",
		Price:        decimal.RequireFromString("1"),
		CollectionID: col.ID,
	})
	assert.ErrorIs(t, err, repo.ErrConflict)
}

func TestProduct_DeleteClearsFeaturedAndRefusesOrdered(t *testing.T) {
	gdb := newTestDB(t)
	col := seedCollection(t, gdb, "Mugs")
	p := seedProduct(t, gdb, col.ID, "Blue Mug", "9.50", 3)
	q := seedProduct(t, gdb, col.ID, "Red Mug", "9.50", 3)

	require.NoError(t, gdb.Model(&model.Collection{}).Where("id = ?", col.ID).Update("featured_product_id", p.ID).Error)
	require.NoError(t, gdb.Create(&model.ProductImage{ProductID: p.ID, Image: "a.png"}).Error)

	products := infra.NewProductGormRepository(gdb)
	require.NoError(t, products.Delete(ctx, p.ID))

	var reloaded model.Collection
	require.NoError(t, gdb.First(&reloaded, col.ID).Error)
	assert.Nil(t, reloaded.FeaturedProductID)

	u := seedUser(t, gdb, "a@example.com", "+81900000001")
	c := model.Customer{UserID: u.ID, Membership: model.MembershipBronze}
	require.NoError(t, gdb.Create(&c).Error)
	o := model.Order{CustomerID: c.ID, PaymentStatus: model.PaymentStatusPending}
	require.NoError(t, gdb.Create(&o).Error)
	require.NoError(t, gdb.Create(&model.OrderItem{OrderID: o.ID, ProductID: q.ID, Quantity: 1, UnitPrice: q.Price}).Error)

	assert.ErrorIs(t, products.Delete(ctx, q.ID), repo.ErrProtected)
	assert.ErrorIs(t, products.Delete(ctx, 9999), repo.ErrNotFound)
}

func TestProduct_DeleteDropsItFromCarts(t *testing.T) {
	gdb := newTestDB(t)
	col := seedCollection(t, gdb, "Pens")
	p := seedProduct(t, gdb, col.ID, "Black Pen", "1.50", 3)
	keep := seedProduct(t, gdb, col.ID, "Blue Pen", "1.50", 3)

	carts := infra.NewCartGormRepository(gdb)
	cart, err := carts.Create(ctx, model.Cart{})
	require.NoError(t, err)
	require.NoError(t, gdb.Create(&model.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: 2}).Error)
	require.NoError(t, gdb.Create(&model.CartItem{CartID: cart.ID, ProductID: keep.ID, Quantity: 1}).Error)

	require.NoError(t, infra.NewProductGormRepository(gdb).Delete(ctx, p.ID))

	// カート自体と他の明細は残る
	got, err := carts.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, keep.ID, got.Items[0].ProductID)
}

func TestProduct_ClearInventory(t *testing.T) {
	gdb := newTestDB(t)
	col := seedCollection(t, gdb, "Mugs")
	p := seedProduct(t, gdb, col.ID, "Blue Mug", "9.50", 30)

	products := infra.NewProductGormRepository(gdb)
	n, err := products.ClearInventory(ctx, []int64{p.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Inventory)
}
