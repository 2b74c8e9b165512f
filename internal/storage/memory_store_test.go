package storage

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss for absent key, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || value != "v1" {
		t.Fatalf("expected v1, got %q ok=%v err=%v", value, ok, err)
	}

	if err := store.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	value, _, _ = store.Get(ctx, "k")
	if value != "v2" {
		t.Fatalf("expected overwrite to v2, got %q", value)
	}

	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected key to be gone after remove")
	}
	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove of absent key should be a no-op, got %v", err)
	}
}

func TestMemoryStoreDistinguishesEmptyValue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Set(ctx, "empty", ""); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, ok, err := store.Get(ctx, "empty")
	if err != nil || !ok || value != "" {
		t.Fatalf("expected present empty value, got %q ok=%v err=%v", value, ok, err)
	}
}

func TestVaultKey(t *testing.T) {
	if got := VaultKey("abc123"); got != "vault:abc123" {
		t.Fatalf("unexpected vault key %q", got)
	}
}
