package storage

import "context"

// Well-known keys shared by the durable and volatile stores.
const (
	vaultKeyPrefix = "vault:"

	// LedgerKey holds the append-only sales ledger as a JSON array.
	LedgerKey = "ledger:global"

	// CatalogKey holds the product catalog as a JSON array.
	CatalogKey = "catalog:products"

	// SessionActiveKey mirrors the active session in the volatile store.
	SessionActiveKey = "session:active"
)

// VaultKey returns the durable key for an identity envelope addressed by
// the hashed email.
func VaultKey(emailHash string) string {
	return vaultKeyPrefix + emailHash
}

// Store is a flat string key/value surface. Get reports whether the key
// existed so callers can distinguish absence from an empty value.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}
