package security

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// NormalizeEmail lower-cases and trims an email so the same account always
// maps to the same vault key regardless of how the address was typed.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashEmail returns the one-way lookup key for a normalized email. The digest
// is only ever used as a storage key; it carries no authentication strength.
func HashEmail(email string) string {
	sum := sha256.Sum256([]byte(NormalizeEmail(email)))
	return base64.StdEncoding.EncodeToString(sum[:])
}
