package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecommerce/internal/config"
	"ecommerce/internal/domain/model"
	"ecommerce/internal/event"
	"ecommerce/internal/infra/db"
	"ecommerce/internal/infra/storage"
	"ecommerce/internal/server"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type app struct {
	e  *echo.Echo
	db *gorm.DB
}

func newApp(t *testing.T) *app {
	t.Helper()

	gdb, err := db.OpenSQLite("file::memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, zap.NewNop()))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	local, err := storage.NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	cfg := config.Config{
		JWTSecret:  "test-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		GoEnv:      "test",
	}
	e := server.Build(server.Deps{
		Config:     cfg,
		Log:        zap.NewNop(),
		DB:         gdb,
		Storage:    local,
		Publisher:  event.NewOrderCreatedPublisher(zap.NewNop()),
		BcryptCost: bcrypt.MinCost,
	})
	return &app{e: e, db: gdb}
}

func (a *app) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec.Code, out
}

func (a *app) signup(t *testing.T, email, phone string) {
	t.Helper()
	code, body := a.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"username":         "user",
		"email":            email,
		"password":         "S3cure-pass!",
		"confirm_password": "S3cure-pass!",
		"phone_number":     phone,
		"first_name":       "Taro",
		"last_name":        "Yamada",
	})
	require.Equal(t, http.StatusCreated, code, body)
}

func (a *app) login(t *testing.T, email string) string {
	t.Helper()
	code, body := a.do(t, http.MethodPost, "/auth/jwt/create", "", map[string]string{
		"email":    email,
		"password": "S3cure-pass!",
	})
	require.Equal(t, http.StatusOK, code, body)
	return body["access"].(string)
}

func (a *app) adminToken(t *testing.T) string {
	t.Helper()
	a.signup(t, "admin@example.com", "09000000000")
	require.NoError(t, a.db.Model(&model.User{}).
		Where("email = ?", "admin@example.com").
		Update("role", model.RoleAdmin).Error)
	return a.login(t, "admin@example.com")
}

func TestHealthz(t *testing.T) {
	a := newApp(t)
	code, body := a.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestSignup_FieldErrors(t *testing.T) {
	a := newApp(t)

	code, body := a.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"email":            "a@example.com",
		"password":         "S3cure-pass!",
		"confirm_password": "S3cure-pass!",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok, body)
	assert.Contains(t, fields, "phone_number")
}

func TestStore_AnonymousCannotWrite(t *testing.T) {
	a := newApp(t)

	code, _ := a.do(t, http.MethodPost, "/store/collections", "", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)

	a.signup(t, "u@example.com", "09011112222")
	token := a.login(t, "u@example.com")
	code, body := a.do(t, http.MethodPost, "/store/collections", token, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You do not have permission to perform this action.", body["error"])
}

func TestStore_BadIDIsNotFound(t *testing.T) {
	a := newApp(t)
	code, _ := a.do(t, http.MethodGet, "/store/products/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStore_CartToOrderFlow(t *testing.T) {
	a := newApp(t)
	admin := a.adminToken(t)

	code, col := a.do(t, http.MethodPost, "/store/collections", admin, map[string]string{"title": "Beverages"})
	require.Equal(t, http.StatusCreated, code, col)
	colID := int64(col["id"].(float64))

	code, prod := a.do(t, http.MethodPost, "/store/products", admin, map[string]any{
		"title":       "Green Tea",
		"description": "loose leaf",
		"price":       "4.50",
		"inventory":   20,
		"collection":  colID,
	})
	require.Equal(t, http.StatusCreated, code, prod)
	assert.Equal(t, "4.50", prod["price"])
	assert.Equal(t, "green-tea", prod["slug"])
	prodID := int64(prod["id"].(float64))

	code, list := a.do(t, http.MethodGet, "/store/products?search=tea", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, list["total"])

	// カートは匿名で作れる
	code, cart := a.do(t, http.MethodPost, "/store/carts", "", nil)
	require.Equal(t, http.StatusCreated, code)
	cartID := cart["id"].(string)

	code, _ = a.do(t, http.MethodPost, "/store/carts/"+cartID+"/items", "", map[string]any{"product_id": prodID, "quantity": 2})
	require.Equal(t, http.StatusCreated, code)

	code, cart = a.do(t, http.MethodGet, "/store/carts/"+cartID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "9.00", cart["total_price"])
	assert.Len(t, cart["cart_items"], 1)

	a.signup(t, "buyer@example.com", "09033334444")
	buyer := a.login(t, "buyer@example.com")

	code, _ = a.do(t, http.MethodPost, "/store/orders", "", map[string]string{"cart_id": cartID})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, order := a.do(t, http.MethodPost, "/store/orders", buyer, map[string]string{"cart_id": cartID})
	require.Equal(t, http.StatusCreated, code, order)
	assert.Equal(t, "P", order["payment_status"])
	assert.Len(t, order["order_items"], 1)
	orderID := int64(order["id"].(float64))

	code, _ = a.do(t, http.MethodGet, "/store/carts/"+cartID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, orders := a.do(t, http.MethodGet, "/store/orders", buyer, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, orders["total"])

	// 商品は注文があるので消せない
	code, _ = a.do(t, http.MethodDelete, fmt.Sprintf("/store/products/%d", prodID), admin, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, order = a.do(t, http.MethodPatch, fmt.Sprintf("/store/orders/%d", orderID), admin, map[string]string{"payment_status": "C"})
	require.Equal(t, http.StatusOK, code, order)
	assert.Equal(t, "C", order["payment_status"])
}

func TestAdmin_ForceLogoutRevokesAccessToken(t *testing.T) {
	a := newApp(t)
	admin := a.adminToken(t)

	a.signup(t, "victim@example.com", "09055556666")
	token := a.login(t, "victim@example.com")

	code, me := a.do(t, http.MethodGet, "/auth/user/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	victimID := int64(me["id"].(float64))

	code, _ = a.do(t, http.MethodPost, fmt.Sprintf("/admin/users/%d/force-logout", victimID), admin, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = a.do(t, http.MethodGet, "/auth/user/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, logs := a.do(t, http.MethodGet, "/admin/audit-logs?action=FORCE_LOGOUT", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, logs["total"])

	code, _ = a.do(t, http.MethodGet, "/admin/audit-logs?since=yesterday", admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStore_CartItemQuantityMessages(t *testing.T) {
	a := newApp(t)

	c := model.Collection{Title: "Misc"}
	require.NoError(t, a.db.Create(&c).Error)
	p := model.Product{Title: "Pen", Description: "pen", Price: decimal.RequireFromString("2.00"), Inventory: 5, CollectionID: c.ID}
	require.NoError(t, a.db.Create(&p).Error)

	code, cart := a.do(t, http.MethodPost, "/store/carts", "", nil)
	require.Equal(t, http.StatusCreated, code)
	itemsURL := "/store/carts/" + cart["id"].(string) + "/items"

	fieldMsgs := func(body map[string]any) []any {
		fields, _ := body["fields"].(map[string]any)
		msgs, _ := fields["quantity"].([]any)
		return msgs
	}
	tooSmall := []any{"Ensure this value is greater than or equal to 1."}

	code, body := a.do(t, http.MethodPost, itemsURL, "", map[string]any{"product_id": p.ID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []any{"This field is required."}, fieldMsgs(body))

	code, body = a.do(t, http.MethodPost, itemsURL, "", map[string]any{"product_id": p.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, tooSmall, fieldMsgs(body))

	code, item := a.do(t, http.MethodPost, itemsURL, "", map[string]any{"product_id": p.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, code, item)
	itemURL := fmt.Sprintf("%s/%d", itemsURL, int64(item["id"].(float64)))

	code, body = a.do(t, http.MethodPatch, itemURL, "", map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, tooSmall, fieldMsgs(body))

	code, body = a.do(t, http.MethodPatch, itemURL, "", map[string]any{"quantity": 3})
	require.Equal(t, http.StatusOK, code, body)
	assert.EqualValues(t, 3, body["quantity"])
}
