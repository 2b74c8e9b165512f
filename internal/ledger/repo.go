package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/visionapps/darkshop-core/internal/storage"
)

// Repository manages persistence for the append-only ledger.
type Repository interface {
	List(ctx context.Context) ([]Entry, error)
	Append(ctx context.Context, entry Entry) error
}

type repository struct {
	store storage.Store
	mu    sync.Mutex
}

// NewRepository returns a ledger repository bound to the durable store.
func NewRepository(store storage.Store) Repository {
	return &repository{store: store}
}

func (r *repository) List(ctx context.Context) ([]Entry, error) {
	raw, exists, err := r.store.Get(ctx, storage.LedgerKey)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	if !exists {
		return []Entry{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("unmarshaling ledger: %w", err)
	}
	return entries, nil
}

// Append loads, extends, and rewrites the ledger under a single lock so
// concurrent appends from one process never lose entries.
func (r *repository) Append(ctx context.Context, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.List(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}
	if err := r.store.Set(ctx, storage.LedgerKey, string(raw)); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}
