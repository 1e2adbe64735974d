package usecase_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"ecommerce/internal/domain/model"
	infraRepo "ecommerce/internal/infra/repository"
	"ecommerce/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func TestAuditUsecase_List(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewAuditUsecase(infraRepo.NewAuditLogGormRepository(e.db))

	// コレクション削除を3回 → DELETE の監査ログ3件
	for _, title := range []string{"a", "b", "c"} {
		col, err := e.collections.Create(ctx, admin, usecase.CollectionInput{Title: title})
		require.NoError(t, err)
		require.NoError(t, e.collections.Delete(ctx, admin, col.ID))
	}

	_, err := uc.List(ctx, usecase.Actor{UserID: 1, Role: "USER"}, usecase.AuditLogQuery{Limit: 10})
	requireStatus(t, err, http.StatusForbidden)

	_, err = uc.List(ctx, admin, usecase.AuditLogQuery{Limit: 0})
	requireStatus(t, err, http.StatusBadRequest)

	out, err := uc.List(ctx, admin, usecase.AuditLogQuery{Action: string(model.AuditActionDelete), Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, out.Total)
	require.Len(t, out.Items, 2)
	assert.Greater(t, out.Items[0].ID, out.Items[1].ID)
	assert.NotEmpty(t, out.Items[0].BeforeJSON)
	assert.Empty(t, out.Items[0].AfterJSON)

	out, err = uc.List(ctx, admin, usecase.AuditLogQuery{ResourceType: "order", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 0, out.Total)

	future := time.Now().Add(time.Hour)
	out, err = uc.List(ctx, admin, usecase.AuditLogQuery{Since: &future, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestWriteAudit_FailureIsLoggedNotReturned(t *testing.T) {
	e := newEnv(t)
	core, logs := observer.New(zap.WarnLevel)
	cols := usecase.NewCollectionUsecase(
		infraRepo.NewCollectionGormRepository(e.db),
		infraRepo.NewProductGormRepository(e.db),
		infraRepo.NewAuditLogGormRepository(e.db),
		zap.New(core),
	)

	require.NoError(t, e.db.Callback().Create().Before("gorm:create").Register("test:fail_audit_logs", func(tx *gorm.DB) {
		if tx.Statement.Table == "audit_logs" {
			_ = tx.AddError(errors.New("audit table locked"))
		}
	}))

	col, err := cols.Create(ctx, admin, usecase.CollectionInput{Title: "tmp"})
	require.NoError(t, err)
	require.NoError(t, cols.Delete(ctx, admin, col.ID))

	_, err = cols.Get(ctx, col.ID)
	requireStatus(t, err, http.StatusNotFound)

	warned := logs.FilterMessage("audit log write failed").All()
	require.Len(t, warned, 1)
	fields := warned[0].ContextMap()
	assert.Equal(t, string(model.AuditActionDelete), fields["action"])
	assert.Equal(t, col.ID, fields["resource_id"])
	assert.Contains(t, fields["error"], "audit table locked")
}
