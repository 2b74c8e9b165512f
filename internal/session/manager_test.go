package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visionapps/darkshop-core/internal/identity"
	"github.com/visionapps/darkshop-core/internal/storage"
	"github.com/visionapps/darkshop-core/pkg/config"
	"github.com/visionapps/darkshop-core/pkg/enums"
	"github.com/visionapps/darkshop-core/pkg/logger"
)

type stubLedger struct {
	balances map[string]decimal.Decimal
	calls    int
}

func (s *stubLedger) BalanceFor(_ context.Context, sellerID string) (decimal.Decimal, error) {
	s.calls++
	if balance, ok := s.balances[sellerID]; ok {
		return balance, nil
	}
	return decimal.Zero, nil
}

func newTestManager(t *testing.T, ledger *stubLedger, now func() time.Time) (*Manager, *storage.MemoryStore) {
	t.Helper()
	volatile := storage.NewMemoryStore()
	mgr, err := NewManager(ManagerParams{
		Volatile: volatile,
		Ledger:   ledger,
		Logger:   logger.New(logger.Options{ServiceName: "session-test"}),
		Config:   config.SessionConfig{SubscriptionDuration: 720 * time.Hour},
		Now:      now,
	})
	require.NoError(t, err)
	return mgr, volatile
}

func activeRecord() identity.Record {
	return identity.Record{
		ID:       "user-1",
		Name:     "Alice",
		Email:    "alice@example.com",
		Age:      30,
		Role:     enums.UserRoleProducer,
		Verified: true,
	}
}

func TestActivateRecomputesBalance(t *testing.T) {
	ctx := context.Background()
	ledger := &stubLedger{balances: map[string]decimal.Decimal{
		"user-1": decimal.RequireFromString("49.90"),
	}}
	mgr, _ := newTestManager(t, ledger, nil)

	record := activeRecord()
	record.Balance = decimal.RequireFromString("999.99") // stale, must be ignored

	result, err := mgr.Activate(ctx, record)
	require.NoError(t, err)
	assert.True(t, result.Record.Balance.Equal(decimal.RequireFromString("49.90")))
	assert.False(t, result.SubscriptionExpired)
}

func TestActivateClearsExpiredSubscription(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	mgr, _ := newTestManager(t, &stubLedger{}, func() time.Time { return now })

	expired := now.Add(-time.Hour)
	record := activeRecord()
	record.SubscriptionActive = true
	record.SubscriptionExpiresAt = &expired

	result, err := mgr.Activate(ctx, record)
	require.NoError(t, err)
	assert.True(t, result.SubscriptionExpired, "expected a one-time expiry notice")
	assert.False(t, result.Record.SubscriptionActive)
	assert.Nil(t, result.Record.SubscriptionExpiresAt)
}

func TestActivateKeepsLiveSubscription(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	mgr, _ := newTestManager(t, &stubLedger{}, func() time.Time { return now })

	future := now.Add(24 * time.Hour)
	record := activeRecord()
	record.SubscriptionActive = true
	record.SubscriptionExpiresAt = &future

	result, err := mgr.Activate(ctx, record)
	require.NoError(t, err)
	assert.False(t, result.SubscriptionExpired)
	assert.True(t, result.Record.SubscriptionActive)
}

func TestActivateMirrorsToVolatileStore(t *testing.T) {
	ctx := context.Background()
	mgr, volatile := newTestManager(t, &stubLedger{}, nil)

	_, err := mgr.Activate(ctx, activeRecord())
	require.NoError(t, err)

	raw, ok, err := volatile.Get(ctx, storage.SessionActiveKey)
	require.NoError(t, err)
	require.True(t, ok)

	var mirrored identity.Record
	require.NoError(t, json.Unmarshal([]byte(raw), &mirrored))
	assert.Equal(t, "user-1", mirrored.ID)
}

func TestActivateReplacesPreviousSession(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t, &stubLedger{}, nil)

	_, err := mgr.Activate(ctx, activeRecord())
	require.NoError(t, err)

	second := activeRecord()
	second.ID = "user-2"
	second.Email = "bob@example.com"
	_, err = mgr.Activate(ctx, second)
	require.NoError(t, err)

	current, ok := mgr.Current()
	require.True(t, ok)
	assert.Equal(t, "user-2", current.ID)
}

func TestRestoreRevalidatesMirror(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	ledger := &stubLedger{balances: map[string]decimal.Decimal{
		"user-1": decimal.RequireFromString("10.00"),
	}}
	mgr, volatile := newTestManager(t, ledger, func() time.Time { return now })

	expired := now.Add(-time.Minute)
	record := activeRecord()
	record.SubscriptionActive = true
	record.SubscriptionExpiresAt = &expired
	record.Balance = decimal.RequireFromString("777.00")
	raw, err := json.Marshal(record)
	require.NoError(t, err)
	require.NoError(t, volatile.Set(ctx, storage.SessionActiveKey, string(raw)))

	result, restored, err := mgr.Restore(ctx)
	require.NoError(t, err)
	require.True(t, restored)
	assert.True(t, result.SubscriptionExpired)
	assert.True(t, result.Record.Balance.Equal(decimal.RequireFromString("10.00")),
		"mirror balance must not be trusted")
}

func TestRestoreWithoutMirror(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t, &stubLedger{}, nil)

	_, restored, err := mgr.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestRestoreDestroysCorruptMirror(t *testing.T) {
	ctx := context.Background()
	mgr, volatile := newTestManager(t, &stubLedger{}, nil)
	require.NoError(t, volatile.Set(ctx, storage.SessionActiveKey, "{not json"))

	_, restored, err := mgr.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, restored)

	_, ok, _ := volatile.Get(ctx, storage.SessionActiveKey)
	assert.False(t, ok, "corrupt mirror should be removed")
}

func TestLogoutClearsSessionAndMirror(t *testing.T) {
	ctx := context.Background()
	mgr, volatile := newTestManager(t, &stubLedger{}, nil)

	_, err := mgr.Activate(ctx, activeRecord())
	require.NoError(t, err)
	require.NoError(t, mgr.Logout(ctx))

	_, ok := mgr.Current()
	assert.False(t, ok)
	_, exists, _ := volatile.Get(ctx, storage.SessionActiveKey)
	assert.False(t, exists)
}

func TestRefreshBalance(t *testing.T) {
	ctx := context.Background()
	ledger := &stubLedger{balances: map[string]decimal.Decimal{}}
	mgr, _ := newTestManager(t, ledger, nil)

	_, err := mgr.Activate(ctx, activeRecord())
	require.NoError(t, err)

	ledger.balances["user-1"] = decimal.RequireFromString("31.50")
	record, err := mgr.RefreshBalance(ctx)
	require.NoError(t, err)
	assert.True(t, record.Balance.Equal(decimal.RequireFromString("31.50")))
}

func TestActivateSubscriptionSetsExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	mgr, _ := newTestManager(t, &stubLedger{}, func() time.Time { return now })

	_, err := mgr.Activate(ctx, activeRecord())
	require.NoError(t, err)

	record, err := mgr.ActivateSubscription(ctx)
	require.NoError(t, err)
	assert.True(t, record.SubscriptionActive)
	require.NotNil(t, record.SubscriptionExpiresAt)
	assert.Equal(t, now.Add(720*time.Hour), *record.SubscriptionExpiresAt)
}

func TestSubscriptionOpsRequireActiveSession(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t, &stubLedger{}, nil)

	_, err := mgr.RefreshBalance(ctx)
	require.Error(t, err)
	_, err = mgr.ActivateSubscription(ctx)
	require.Error(t, err)
}
