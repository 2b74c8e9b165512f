package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/visionapps/darkshop-core/internal/identity"
	"github.com/visionapps/darkshop-core/internal/storage"
	"github.com/visionapps/darkshop-core/pkg/config"
	"github.com/visionapps/darkshop-core/pkg/errors"
	"github.com/visionapps/darkshop-core/pkg/logger"
)

// LedgerReader is the slice of the ledger the session manager needs to
// recompute a balance projection.
type LedgerReader interface {
	BalanceFor(ctx context.Context, sellerID string) (decimal.Decimal, error)
}

// ActivationResult carries the activated record plus the one-time notice
// that an expired subscription was cleared during activation.
type ActivationResult struct {
	Record              identity.Record
	SubscriptionExpired bool
}

// Manager owns the single active session. Every activation re-validates
// subscription expiry and recomputes the balance from the ledger; the
// volatile mirror is written after every mutation and never trusted as a
// source of truth.
type Manager struct {
	mu       sync.Mutex
	volatile storage.Store
	ledger   LedgerReader
	logg     *logger.Logger
	cfg      config.SessionConfig
	now      func() time.Time

	active *identity.Record
}

// ManagerParams bundles the session manager dependencies.
type ManagerParams struct {
	Volatile storage.Store
	Ledger   LedgerReader
	Logger   *logger.Logger
	Config   config.SessionConfig
	Now      func() time.Time
}

// NewManager wires a session manager over the volatile store.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Volatile == nil {
		return nil, fmt.Errorf("volatile store required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger reader required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Manager{
		volatile: params.Volatile,
		ledger:   params.Ledger,
		logg:     params.Logger,
		cfg:      params.Config,
		now:      params.Now,
	}, nil
}

// Activate makes the record the single active session. Any previously
// active session is replaced.
func (m *Manager) Activate(ctx context.Context, record identity.Record) (ActivationResult, error) {
	if err := record.Validate(); err != nil {
		return ActivationResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record = record.Clone()
	expired := m.revalidate(&record)

	balance, err := m.ledger.BalanceFor(ctx, record.ID)
	if err != nil {
		return ActivationResult{}, err
	}
	record.Balance = balance

	m.active = &record
	m.mirror(ctx)

	ctx = m.logg.WithUserID(ctx, record.ID)
	if expired {
		m.logg.Warn(ctx, "subscription expired, cleared on activation")
	}
	m.logg.Info(ctx, "session activated")

	return ActivationResult{Record: record.Clone(), SubscriptionExpired: expired}, nil
}

// Restore rebuilds the session from the volatile mirror. The mirrored
// record is only a hint: it goes through the same re-validation and
// balance recompute as a fresh login. A mirror that fails to decode is
// destroyed rather than half-trusted.
func (m *Manager) Restore(ctx context.Context) (ActivationResult, bool, error) {
	raw, exists, err := m.volatile.Get(ctx, storage.SessionActiveKey)
	if err != nil {
		return ActivationResult{}, false, errors.Wrap(errors.CodeInternal, err, "reading session mirror")
	}
	if !exists {
		return ActivationResult{}, false, nil
	}

	var record identity.Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		m.logg.Warn(ctx, "session mirror corrupt, destroying")
		if removeErr := m.volatile.Remove(ctx, storage.SessionActiveKey); removeErr != nil {
			return ActivationResult{}, false, errors.Wrap(errors.CodeInternal, removeErr, "destroying corrupt session mirror")
		}
		return ActivationResult{}, false, nil
	}

	result, err := m.Activate(ctx, record)
	if err != nil {
		return ActivationResult{}, false, err
	}
	return result, true, nil
}

// Logout clears the active session and its mirror.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = nil
	if err := m.volatile.Remove(ctx, storage.SessionActiveKey); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "removing session mirror")
	}
	m.logg.Info(ctx, "session cleared")
	return nil
}

// Current returns a copy of the active record, if any.
func (m *Manager) Current() (identity.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return identity.Record{}, false
	}
	return m.active.Clone(), true
}

// RefreshBalance recomputes the active record's balance from the ledger.
func (m *Manager) RefreshBalance(ctx context.Context) (identity.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return identity.Record{}, errors.New(errors.CodeInvalidCredential, "no active session")
	}

	balance, err := m.ledger.BalanceFor(ctx, m.active.ID)
	if err != nil {
		return identity.Record{}, err
	}
	m.active.Balance = balance
	m.mirror(ctx)
	return m.active.Clone(), nil
}

// ActivateSubscription marks the active identity as subscribed for the
// configured duration.
func (m *Manager) ActivateSubscription(ctx context.Context) (identity.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return identity.Record{}, errors.New(errors.CodeInvalidCredential, "no active session")
	}

	expires := m.now().Add(m.cfg.SubscriptionDuration)
	m.active.SubscriptionActive = true
	m.active.SubscriptionExpiresAt = &expires
	m.mirror(ctx)

	m.logg.Info(m.logg.WithUserID(ctx, m.active.ID), "subscription activated")
	return m.active.Clone(), nil
}

// revalidate clears an expired subscription in place and reports whether
// it did so.
func (m *Manager) revalidate(record *identity.Record) bool {
	if !record.SubscriptionExpired(m.now()) {
		return false
	}
	record.SubscriptionActive = false
	record.SubscriptionExpiresAt = nil
	return true
}

// mirror writes the active record to the volatile store. Mirror failures
// are logged, not fatal: the in-memory session stays authoritative.
func (m *Manager) mirror(ctx context.Context) {
	raw, err := json.Marshal(m.active)
	if err != nil {
		m.logg.Error(ctx, "marshaling session mirror", err)
		return
	}
	if err := m.volatile.Set(ctx, storage.SessionActiveKey, string(raw)); err != nil {
		m.logg.Error(ctx, "writing session mirror", err)
	}
}
