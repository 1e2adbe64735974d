package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"ecommerce/internal/domain/model"
	"ecommerce/internal/event"
	"ecommerce/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fillCart(t *testing.T, e *env, items map[int64]int64) string {
	t.Helper()
	cart, err := e.carts.Create(ctx)
	require.NoError(t, err)
	for productID, qty := range items {
		_, err := e.carts.AddItem(ctx, cart.ID, usecase.AddCartItemInput{ProductID: productID, Quantity: qty})
		require.NoError(t, err)
	}
	return cart.ID
}

func TestPlaceOrder_SnapshotsPriceAndRemovesCart(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "buyer@example.com", "090-0000-0001")
	a := e.seedProduct(t, "A", "10.00")
	b := e.seedProduct(t, "B", "5.00")

	var published []model.Order
	e.publisher.Register(event.ListenerFunc{ListenerName: "capture", Fn: func(ctx context.Context, o model.Order) error {
		published = append(published, o)
		return nil
	}})

	cartID := fillCart(t, e, map[int64]int64{a.ID: 2, b.ID: 1})

	out, err := e.orders.PlaceOrder(ctx, user.UserID, usecase.PlaceOrderInput{CartID: cartID})
	require.NoError(t, err)

	assert.Equal(t, "P", out.PaymentStatus)
	require.Len(t, out.Items, 2)
	prices := map[int64]string{}
	qty := map[int64]int64{}
	for _, it := range out.Items {
		prices[it.Product.ID] = it.UnitPrice
		qty[it.Product.ID] = it.Quantity
	}
	assert.Equal(t, "10.00", prices[a.ID])
	assert.Equal(t, "5.00", prices[b.ID])
	assert.Equal(t, int64(2), qty[a.ID])
	assert.Equal(t, int64(1), qty[b.ID])

	// カートは消えている
	_, err = e.carts.Get(ctx, cartID)
	requireStatus(t, err, http.StatusNotFound)
	var itemCount int64
	require.NoError(t, e.db.Model(&model.CartItem{}).Where("cart_id = ?", cartID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	// 後から価格を変えても注文は変わらない
	require.NoError(t, e.db.Model(&model.Product{}).Where("id = ?", a.ID).Update("price", "20.00").Error)
	got, err := e.orders.Get(ctx, user, out.ID)
	require.NoError(t, err)
	for _, it := range got.Items {
		if it.Product.ID == a.ID {
			assert.Equal(t, "10.00", it.UnitPrice)
		}
	}

	require.Len(t, published, 1)
	assert.Equal(t, out.ID, published[0].ID)
}

func TestPlaceOrder_UnknownCart(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "buyer@example.com", "090-0000-0001")

	_, err := e.orders.PlaceOrder(ctx, user.UserID, usecase.PlaceOrderInput{CartID: uuid.NewString()})
	he := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "No cart with the given ID was found.", he.Message)

	var n int64
	require.NoError(t, e.db.Model(&model.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "buyer@example.com", "090-0000-0001")
	cart, err := e.carts.Create(ctx)
	require.NoError(t, err)

	_, err = e.orders.PlaceOrder(ctx, user.UserID, usecase.PlaceOrderInput{CartID: cart.ID})
	he := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, []string{"The cart is empty."}, he.Fields["cart_id"])

	// カートは残る
	_, err = e.carts.Get(ctx, cart.ID)
	assert.NoError(t, err)
}

func TestPlaceOrder_InvalidCartID(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "buyer@example.com", "090-0000-0001")

	_, err := e.orders.PlaceOrder(ctx, user.UserID, usecase.PlaceOrderInput{CartID: "not-a-uuid"})
	he := requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "cart_id")
}

func TestPlaceOrder_ListenerFailureDoesNotFailOrder(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "buyer@example.com", "090-0000-0001")
	p := e.seedProduct(t, "A", "10.00")
	e.publisher.Register(event.ListenerFunc{ListenerName: "down", Fn: func(ctx context.Context, o model.Order) error {
		return errors.New("broker down")
	}})

	cartID := fillCart(t, e, map[int64]int64{p.ID: 1})
	out, err := e.orders.PlaceOrder(ctx, user.UserID, usecase.PlaceOrderInput{CartID: cartID})
	require.NoError(t, err)
	assert.NotZero(t, out.ID)
}

func TestPlaceOrder_CartConvertedOnce(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "buyer@example.com", "090-0000-0001")
	p := e.seedProduct(t, "A", "10.00")
	cartID := fillCart(t, e, map[int64]int64{p.ID: 1})

	_, err := e.orders.PlaceOrder(ctx, user.UserID, usecase.PlaceOrderInput{CartID: cartID})
	require.NoError(t, err)
	_, err = e.orders.PlaceOrder(ctx, user.UserID, usecase.PlaceOrderInput{CartID: cartID})
	requireStatus(t, err, http.StatusNotFound)

	var n int64
	require.NoError(t, e.db.Model(&model.Order{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestOrderGet_OtherUserSeesNotFound(t *testing.T) {
	e := newEnv(t)
	owner := e.seedUser(t, "owner@example.com", "090-0000-0001")
	other := e.seedUser(t, "other@example.com", "090-0000-0002")
	p := e.seedProduct(t, "A", "10.00")

	out, err := e.orders.PlaceOrder(ctx, owner.UserID, usecase.PlaceOrderInput{CartID: fillCart(t, e, map[int64]int64{p.ID: 1})})
	require.NoError(t, err)

	_, err = e.orders.Get(ctx, other, out.ID)
	requireStatus(t, err, http.StatusNotFound)

	_, err = e.orders.Get(ctx, admin, out.ID)
	assert.NoError(t, err)

	list, err := e.orders.List(ctx, other, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestOrderAdmin_PaymentStatusAndDeleteGuard(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "buyer@example.com", "090-0000-0001")
	p := e.seedProduct(t, "A", "10.00")
	out, err := e.orders.PlaceOrder(ctx, user.UserID, usecase.PlaceOrderInput{CartID: fillCart(t, e, map[int64]int64{p.ID: 1})})
	require.NoError(t, err)

	_, err = e.orders.UpdatePaymentStatus(ctx, user, out.ID, "C")
	requireStatus(t, err, http.StatusForbidden)

	_, err = e.orders.UpdatePaymentStatus(ctx, admin, out.ID, "X")
	requireStatus(t, err, http.StatusBadRequest)

	updated, err := e.orders.UpdatePaymentStatus(ctx, admin, out.ID, "C")
	require.NoError(t, err)
	assert.Equal(t, "C", updated.PaymentStatus)

	var logs []model.AuditLog
	require.NoError(t, e.db.Where("action = ?", model.AuditActionUpdatePaymentStatus).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, out.ID, logs[0].ResourceID)

	err = e.orders.Delete(ctx, admin, out.ID)
	requireStatus(t, err, http.StatusConflict)
}

func TestPlaceOrder_RollsBackWhenItemsFail(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "buyer@example.com", "090-0000-0009")
	p := e.seedProduct(t, "A", "10.00")
	cartID := fillCart(t, e, map[int64]int64{p.ID: 1})

	var published int
	e.publisher.Register(event.ListenerFunc{ListenerName: "count", Fn: func(ctx context.Context, o model.Order) error {
		published++
		return nil
	}})

	// 明細のINSERTだけ失敗させる
	require.NoError(t, e.db.Callback().Create().Before("gorm:create").Register("test:fail_order_items", func(tx *gorm.DB) {
		if tx.Statement.Table == "order_items" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := e.orders.PlaceOrder(ctx, user.UserID, usecase.PlaceOrderInput{CartID: cartID})
	requireStatus(t, err, http.StatusInternalServerError)

	var orders, orderItems, customers, cartItems int64
	require.NoError(t, e.db.Model(&model.Order{}).Count(&orders).Error)
	require.NoError(t, e.db.Model(&model.OrderItem{}).Count(&orderItems).Error)
	require.NoError(t, e.db.Model(&model.Customer{}).Where("user_id = ?", user.UserID).Count(&customers).Error)
	require.NoError(t, e.db.Model(&model.CartItem{}).Where("cart_id = ?", cartID).Count(&cartItems).Error)
	assert.Zero(t, orders)
	assert.Zero(t, orderItems)
	assert.Zero(t, customers)
	assert.EqualValues(t, 1, cartItems)

	cart, err := e.carts.Get(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Zero(t, published)
}
