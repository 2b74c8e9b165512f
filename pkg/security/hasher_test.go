package security

import (
	"testing"

	"github.com/visionapps/darkshop-core/pkg/config"
)

func TestHashEmailNormalizes(t *testing.T) {
	base := HashEmail("alice@example.com")
	if base == "" {
		t.Fatal("expected non-empty hash")
	}
	if HashEmail("  Alice@Example.COM  ") != base {
		t.Fatal("casing and whitespace must not change the lookup key")
	}
	if HashEmail("bob@example.com") == base {
		t.Fatal("distinct emails must not collide")
	}
}

func TestHashEmailIsStable(t *testing.T) {
	first := HashEmail("alice@example.com")
	second := HashEmail("alice@example.com")
	if first != second {
		t.Fatalf("hash must be deterministic: %q vs %q", first, second)
	}
}

func TestParamsFromConfigClampsIterations(t *testing.T) {
	params := ParamsFromConfig(config.VaultConfig{PBKDF2Iterations: 10, KeyLen: 8, SaltLen: 4})
	if params.Iterations < 100000 {
		t.Fatalf("iterations clamped too low: %d", params.Iterations)
	}
	if params.KeyLen != 32 {
		t.Fatalf("key length should clamp to 32, got %d", params.KeyLen)
	}
	if params.SaltLen != 16 {
		t.Fatalf("salt length should clamp to 16, got %d", params.SaltLen)
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	params := ParamsFromConfig(config.VaultConfig{PBKDF2Iterations: 100000, KeyLen: 32, SaltLen: 16})
	salt, err := params.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	if len(salt) != 16 {
		t.Fatalf("unexpected salt length %d", len(salt))
	}

	first := params.DeriveKey("correcthorse", salt)
	second := params.DeriveKey("correcthorse", salt)
	if string(first) != string(second) {
		t.Fatal("same password and salt must derive the same key")
	}
	if string(params.DeriveKey("wrongpass", salt)) == string(first) {
		t.Fatal("different passwords must derive different keys")
	}
}
