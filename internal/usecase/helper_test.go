package usecase_test

import (
	"context"
	"fmt"
	"io"
	"testing"

	"ecommerce/internal/domain/model"
	"ecommerce/internal/event"
	"ecommerce/internal/infra/db"
	infraRepo "ecommerce/internal/infra/repository"
	"ecommerce/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ctx = context.Background()

var admin = usecase.Actor{UserID: 999, Role: "ADMIN"}

type env struct {
	db        *gorm.DB
	publisher *event.OrderCreatedPublisher

	carts       *usecase.CartUsecase
	orders      *usecase.OrderUsecase
	collections *usecase.CollectionUsecase
	reviews     *usecase.ReviewUsecase
	customers   *usecase.CustomerUsecase
	addresses   *usecase.AddressUsecase
	products    *usecase.ProductUsecase

	storage *memStorage
}

// 画像保存のテスト用（メモリ上）
type memStorage struct {
	files   map[string][]byte
	failErr error
}

func (s *memStorage) Save(ctx context.Context, productID int64, filename string, r io.Reader) (string, string, error) {
	if s.failErr != nil {
		return "", "", s.failErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}
	id := fmt.Sprintf("store/products/%d/%s", productID, filename)
	s.files[id] = b
	return "/media/" + id, id, nil
}

func (s *memStorage) Delete(ctx context.Context, storageID string) error {
	delete(s.files, storageID)
	return nil
}

func newEnv(t *testing.T) *env {
	t.Helper()

	gdb, err := db.OpenSQLite("file::memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, zap.NewNop()))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cartRepo := infraRepo.NewCartGormRepository(gdb)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gdb)
	productRepo := infraRepo.NewProductGormRepository(gdb)
	customerRepo := infraRepo.NewCustomerGormRepository(gdb)
	auditRepo := infraRepo.NewAuditLogGormRepository(gdb)
	publisher := event.NewOrderCreatedPublisher(zap.NewNop())
	storage := &memStorage{files: map[string][]byte{}}
	txm := infraRepo.NewTxManagerGorm(gdb)

	return &env{
		db:          gdb,
		publisher:   publisher,
		carts:       usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo),
		orders:      usecase.NewOrderUsecase(txm, cartRepo, cartItemRepo, infraRepo.NewOrderGormRepository(gdb), customerRepo, auditRepo, publisher, zap.NewNop()),
		collections: usecase.NewCollectionUsecase(infraRepo.NewCollectionGormRepository(gdb), productRepo, auditRepo, zap.NewNop()),
		reviews:     usecase.NewReviewUsecase(infraRepo.NewReviewGormRepository(gdb), productRepo, customerRepo),
		customers:   usecase.NewCustomerUsecase(customerRepo),
		addresses:   usecase.NewAddressUsecase(infraRepo.NewAddressGormRepository(gdb), customerRepo),
		products: usecase.NewProductUsecase(productRepo, infraRepo.NewProductImageGormRepository(gdb),
			infraRepo.NewCollectionGormRepository(gdb), txm, auditRepo, storage, zap.NewNop()),
		storage: storage,
	}
}

func (e *env) seedProduct(t *testing.T, title string, price string) model.Product {
	t.Helper()
	var c model.Collection
	if err := e.db.Where("title = ?", "Default").First(&c).Error; err != nil {
		c = model.Collection{Title: "Default"}
		require.NoError(t, e.db.Create(&c).Error)
	}
	p := model.Product{
		Title:        title,
		Description:  title,
		Price:        decimal.RequireFromString(price),
		Inventory:    10,
		CollectionID: c.ID,
	}
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

func (e *env) seedUser(t *testing.T, email string, phone string) usecase.Actor {
	t.Helper()
	u := model.User{
		Username:     email,
		Email:        email,
		PhoneNumber:  phone,
		FirstName:    "Hanako",
		LastName:     "Sato",
		PasswordHash: "x",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, e.db.Create(&u).Error)
	return usecase.Actor{UserID: u.ID, Role: string(u.Role)}
}

func requireStatus(t *testing.T, err error, status int) *usecase.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, status, he.Status, he.Error())
	return he
}
