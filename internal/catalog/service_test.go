package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visionapps/darkshop-core/internal/storage"
	"github.com/visionapps/darkshop-core/pkg/enums"
	"github.com/visionapps/darkshop-core/pkg/errors"
)

func newTestCatalog(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(storage.NewMemoryStore()))
	require.NoError(t, err)
	return svc
}

func sampleProduct(owner string) Product {
	return Product{
		Title:          "Go Course",
		Description:    "Learn Go",
		Price:          decimal.RequireFromString("49.90"),
		CommissionRate: decimal.RequireFromString("0.25"),
		Type:           enums.ProductTypeCourse,
		OwnerID:        owner,
		ContentURL:     "https://cdn.example.com/go-course",
	}
}

func TestSaveAssignsIDAndResetsSalesCount(t *testing.T) {
	ctx := context.Background()
	svc := newTestCatalog(t)

	input := sampleProduct("alice")
	input.SalesCount = 42

	saved, err := svc.Save(ctx, input)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 0, saved.SalesCount)

	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Course", got.Title)
}

func TestSaveValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestCatalog(t)

	bad := sampleProduct("alice")
	bad.CommissionRate = decimal.RequireFromString("1.5")
	_, err := svc.Save(ctx, bad)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))
}

func TestGetMissingProduct(t *testing.T) {
	svc := newTestCatalog(t)
	_, err := svc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestListByOwner(t *testing.T) {
	ctx := context.Background()
	svc := newTestCatalog(t)

	_, err := svc.Save(ctx, sampleProduct("alice"))
	require.NoError(t, err)
	_, err = svc.Save(ctx, sampleProduct("bob"))
	require.NoError(t, err)

	owned, err := svc.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "alice", owned[0].OwnerID)
}

func TestUpdateIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	svc := newTestCatalog(t)

	saved, err := svc.Save(ctx, sampleProduct("alice"))
	require.NoError(t, err)

	saved.Title = "Go Course v2"
	_, err = svc.Update(ctx, "mallory", saved)
	require.Error(t, err)

	updated, err := svc.Update(ctx, "alice", saved)
	require.NoError(t, err)
	assert.Equal(t, "Go Course v2", updated.Title)
}

func TestUpdatePreservesSalesCount(t *testing.T) {
	ctx := context.Background()
	svc := newTestCatalog(t)

	saved, err := svc.Save(ctx, sampleProduct("alice"))
	require.NoError(t, err)
	require.NoError(t, svc.IncrementSalesCount(ctx, saved.ID))

	saved.SalesCount = 0
	updated, err := svc.Update(ctx, "alice", saved)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.SalesCount)
}

func TestDeleteIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	svc := newTestCatalog(t)

	saved, err := svc.Save(ctx, sampleProduct("alice"))
	require.NoError(t, err)

	require.Error(t, svc.Delete(ctx, "mallory", saved.ID))
	require.NoError(t, svc.Delete(ctx, "alice", saved.ID))

	_, err = svc.Get(ctx, saved.ID)
	require.Error(t, err)
}

func TestIncrementSalesCount(t *testing.T) {
	ctx := context.Background()
	svc := newTestCatalog(t)

	saved, err := svc.Save(ctx, sampleProduct("alice"))
	require.NoError(t, err)

	require.NoError(t, svc.IncrementSalesCount(ctx, saved.ID))
	require.NoError(t, svc.IncrementSalesCount(ctx, saved.ID))

	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SalesCount)

	require.Error(t, svc.IncrementSalesCount(ctx, "nope"))
}
