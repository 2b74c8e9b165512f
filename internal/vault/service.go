package vault

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/visionapps/darkshop-core/internal/identity"
	"github.com/visionapps/darkshop-core/internal/storage"
	"github.com/visionapps/darkshop-core/pkg/errors"
	"github.com/visionapps/darkshop-core/pkg/logger"
	"github.com/visionapps/darkshop-core/pkg/metrics"
	"github.com/visionapps/darkshop-core/pkg/security"
)

// Service seals identity records under password-derived keys and unseals
// them on login. A wrong password and a corrupt envelope are deliberately
// indistinguishable to callers.
type Service interface {
	Register(ctx context.Context, email, password string, record identity.Record) error
	Unlock(ctx context.Context, email, password string) (identity.Record, error)
}

type service struct {
	store   storage.Store
	params  security.KeyParams
	logg    *logger.Logger
	metrics *metrics.CoreMetrics
}

// ServiceParams bundles the vault service dependencies.
type ServiceParams struct {
	Store   storage.Store
	Params  security.KeyParams
	Logger  *logger.Logger
	Metrics *metrics.CoreMetrics
}

// NewService wires a vault service over the durable store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("vault store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("vault logger required")
	}
	return &service{
		store:   params.Store,
		params:  params.Params,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

func (s *service) Register(ctx context.Context, email, password string, record identity.Record) error {
	if password == "" {
		return errors.New(errors.CodeValidation, "password is required")
	}
	if err := record.Validate(); err != nil {
		return err
	}

	key := storage.VaultKey(security.HashEmail(email))
	if _, exists, err := s.store.Get(ctx, key); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "checking vault slot")
	} else if exists {
		return errors.New(errors.CodeDuplicateIdentity, "an account with this email already exists")
	}

	envelope, err := s.seal(password, record)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "sealing identity")
	}
	if err := s.store.Set(ctx, key, envelope); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "persisting identity envelope")
	}

	s.logg.Info(s.logg.WithUserID(ctx, record.ID), "identity registered")
	return nil
}

func (s *service) Unlock(ctx context.Context, email, password string) (identity.Record, error) {
	key := storage.VaultKey(security.HashEmail(email))
	raw, exists, err := s.store.Get(ctx, key)
	if err != nil {
		return identity.Record{}, errors.Wrap(errors.CodeInternal, err, "reading vault slot")
	}
	if !exists {
		s.metrics.IncVaultUnlock("not_found")
		return identity.Record{}, errors.New(errors.CodeIdentityNotFound, "no account exists for this email")
	}

	record, err := s.open(raw, password)
	if err != nil {
		// Bad password, tampered ciphertext, and a malformed envelope all
		// collapse into the same credential failure.
		s.metrics.IncVaultUnlock("rejected")
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "vault unlock rejected")
		return identity.Record{}, errors.New(errors.CodeInvalidCredential, "incorrect password")
	}

	s.metrics.IncVaultUnlock("ok")
	return record, nil
}

func (s *service) seal(password string, record identity.Record) (string, error) {
	plaintext, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshaling identity: %w", err)
	}

	salt, err := s.params.NewSalt()
	if err != nil {
		return "", err
	}
	gcm, err := newGCM(s.params.DeriveKey(password, salt))
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	return encodeEnvelope(salt, nonce, ciphertext)
}

func (s *service) open(raw, password string) (identity.Record, error) {
	parts, err := decodeEnvelope(raw)
	if err != nil {
		return identity.Record{}, err
	}

	gcm, err := newGCM(s.params.DeriveKey(password, parts.salt))
	if err != nil {
		return identity.Record{}, err
	}
	if len(parts.nonce) != gcm.NonceSize() {
		return identity.Record{}, fmt.Errorf("unexpected nonce size %d", len(parts.nonce))
	}

	plaintext, err := gcm.Open(nil, parts.nonce, parts.ciphertext, nil)
	if err != nil {
		return identity.Record{}, fmt.Errorf("opening envelope: %w", err)
	}

	var record identity.Record
	if err := json.Unmarshal(plaintext, &record); err != nil {
		return identity.Record{}, fmt.Errorf("unmarshaling identity: %w", err)
	}
	return record, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating gcm: %w", err)
	}
	return gcm, nil
}
