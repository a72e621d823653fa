package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"koelnr-payments/internal/model"
)

func TestCatalogSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx))
	require.NoError(t, repo.Seed(ctx))

	price, err := repo.FindPrice(ctx, "Pro 6D", model.VehicleSuvMuv)
	require.NoError(t, err)
	assert.Equal(t, int64(5699), price.Price)
	assert.Equal(t, model.OrderTypeSubscription, price.Category)
}

func TestCatalogLookups(t *testing.T) {
	db := newTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx))

	price, err := repo.FindPrice(ctx, "Foam Exterior", model.VehicleHatchSedan)
	require.NoError(t, err)
	assert.Equal(t, int64(399), price.Price)

	_, err = repo.FindPrice(ctx, "Gold Plating", model.VehicleHatchSedan)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	plans, err := repo.GetByCategory(ctx, model.OrderTypeSubscription, model.VehicleHatchSedan)
	require.NoError(t, err)
	assert.Len(t, plans, 3)
}
