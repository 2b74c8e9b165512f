package security

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/visionapps/darkshop-core/pkg/config"
	"golang.org/x/crypto/pbkdf2"
)

// KeyParams captures the derivation parameters baked into each envelope.
type KeyParams struct {
	Iterations int
	KeyLen     int
	SaltLen    int
}

// ParamsFromConfig clamps configured values into a safe range. Iterations
// never drop below 100k so a brute-force pass stays deliberately slow.
func ParamsFromConfig(cfg config.VaultConfig) KeyParams {
	return KeyParams{
		Iterations: clampInt(cfg.PBKDF2Iterations, 100000, 10000000),
		// AES-256 requires exactly a 32-byte key.
		KeyLen:  32,
		SaltLen: clampInt(cfg.SaltLen, 16, 64),
	}
}

// NewSalt returns a fresh random salt of the configured length.
func (p KeyParams) NewSalt() ([]byte, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches the password into a symmetric key with PBKDF2-SHA256.
func (p KeyParams) DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, p.Iterations, p.KeyLen, sha256.New)
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
