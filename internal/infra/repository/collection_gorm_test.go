package repository_test

import (
	"testing"

	"ecommerce/internal/domain/model"
	infra "ecommerce/internal/infra/repository"
	repo "ecommerce/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_ListWithCountAndDeleteGuard(t *testing.T) {
	gdb := newTestDB(t)
	mugs := seedCollection(t, gdb, "Mugs")
	empty := seedCollection(t, gdb, "Empty")
	seedProduct(t, gdb, mugs.ID, "Blue Mug", "9.50", 3)

	cols := infra.NewCollectionGormRepository(gdb)

	list, err := cols.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ProductCount)
	assert.Equal(t, int64(0), list[1].ProductCount)

	assert.ErrorIs(t, cols.Delete(ctx, mugs.ID), repo.ErrProtected)
	assert.NoError(t, cols.Delete(ctx, empty.ID))
	assert.ErrorIs(t, cols.Delete(ctx, empty.ID), repo.ErrNotFound)
}

func TestCollection_Update(t *testing.T) {
	gdb := newTestDB(t)
	col := seedCollection(t, gdb, "Mugs")
	p := seedProduct(t, gdb, col.ID, "Blue Mug", "9.50", 3)

	cols := infra.NewCollectionGormRepository(gdb)
	require.NoError(t, cols.Update(ctx, model.Collection{ID: col.ID, Title: "Cups", FeaturedProductID: &p.ID}))

	got, err := cols.FindByID(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cups", got.Title)
	require.NotNil(t, got.FeaturedProductID)
	assert.Equal(t, p.ID, *got.FeaturedProductID)
}
