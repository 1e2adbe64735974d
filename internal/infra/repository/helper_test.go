package repository_test

import (
	"context"
	"testing"

	"ecommerce/internal/domain/model"
	"ecommerce/internal/infra/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenSQLite("file::memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, zap.NewNop()))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func seedCollection(t *testing.T, gdb *gorm.DB, title string) model.Collection {
	t.Helper()
	c := model.Collection{Title: title}
	require.NoError(t, gdb.Create(&c).Error)
	return c
}

func seedProduct(t *testing.T, gdb *gorm.DB, collectionID int64, title string, price string, inventory int64) model.Product {
	t.Helper()
	p := model.Product{
		Title:        title,
		Description:  title + " description",
		Price:        decimal.RequireFromString(price),
		Inventory:    inventory,
		CollectionID: collectionID,
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

func seedUser(t *testing.T, gdb *gorm.DB, email string, phone string) model.User {
	t.Helper()
	u := model.User{
		Username:     email,
		Email:        email,
		PhoneNumber:  phone,
		FirstName:    "Taro",
		LastName:     "Yamada",
		PasswordHash: "x",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

var ctx = context.Background()
