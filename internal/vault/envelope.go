package vault

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Envelope is the stored form of a sealed identity: the PBKDF2 salt, the
// AES-GCM nonce, and the ciphertext, each base64-encoded.
type Envelope struct {
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

type envelopeParts struct {
	salt       []byte
	nonce      []byte
	ciphertext []byte
}

func encodeEnvelope(salt, nonce, ciphertext []byte) (string, error) {
	env := Envelope{
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshaling envelope: %w", err)
	}
	return string(raw), nil
}

func decodeEnvelope(raw string) (envelopeParts, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return envelopeParts{}, fmt.Errorf("unmarshaling envelope: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return envelopeParts{}, fmt.Errorf("decoding salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return envelopeParts{}, fmt.Errorf("decoding nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return envelopeParts{}, fmt.Errorf("decoding ciphertext: %w", err)
	}
	if len(salt) == 0 || len(nonce) == 0 || len(ciphertext) == 0 {
		return envelopeParts{}, fmt.Errorf("envelope is missing material")
	}
	return envelopeParts{salt: salt, nonce: nonce, ciphertext: ciphertext}, nil
}
