package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/visionapps/darkshop-core/internal/storage"
)

// Repository manages persistence for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Replace(ctx context.Context, mutate func(products []Product) ([]Product, error)) error
}

type repository struct {
	store storage.Store
	mu    sync.Mutex
}

// NewRepository returns a catalog repository bound to the durable store.
func NewRepository(store storage.Store) Repository {
	return &repository{store: store}
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	raw, exists, err := r.store.Get(ctx, storage.CatalogKey)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	if !exists {
		return []Product{}, nil
	}

	var products []Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, fmt.Errorf("unmarshaling catalog: %w", err)
	}
	return products, nil
}

// Replace applies mutate to the current catalog and persists the result
// under a single lock so concurrent writers never clobber each other.
func (r *repository) Replace(ctx context.Context, mutate func(products []Product) ([]Product, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.List(ctx)
	if err != nil {
		return err
	}
	next, err := mutate(products)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	if err := r.store.Set(ctx, storage.CatalogKey, string(raw)); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}
