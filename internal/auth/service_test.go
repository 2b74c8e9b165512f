package auth

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visionapps/darkshop-core/internal/ledger"
	"github.com/visionapps/darkshop-core/internal/session"
	"github.com/visionapps/darkshop-core/internal/storage"
	"github.com/visionapps/darkshop-core/internal/vault"
	"github.com/visionapps/darkshop-core/pkg/config"
	"github.com/visionapps/darkshop-core/pkg/enums"
	"github.com/visionapps/darkshop-core/pkg/errors"
	"github.com/visionapps/darkshop-core/pkg/logger"
	"github.com/visionapps/darkshop-core/pkg/security"
)

// newTestAuth wires the real vault, ledger, and session manager over
// in-memory stores so register/login flow end to end.
func newTestAuth(t *testing.T, roles config.RolesConfig) (Service, ledger.Service) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "auth-test"})

	vaultSvc, err := vault.NewService(vault.ServiceParams{
		Store:  storage.NewMemoryStore(),
		Params: security.ParamsFromConfig(config.VaultConfig{}),
		Logger: logg,
	})
	require.NoError(t, err)

	ledgerSvc, err := ledger.NewService(ledger.ServiceParams{
		Repo: ledger.NewRepository(storage.NewMemoryStore()),
	})
	require.NoError(t, err)

	sessions, err := session.NewManager(session.ManagerParams{
		Volatile: storage.NewMemoryStore(),
		Ledger:   ledgerSvc,
		Logger:   logg,
		Config:   config.SessionConfig{},
	})
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		Vault:    vaultSvc,
		Sessions: sessions,
		Roles:    roles,
		Logger:   logg,
	})
	require.NoError(t, err)
	return svc, ledgerSvc
}

func registerInput() RegisterInput {
	return RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Age:      30,
		Password: "s3cret-pass",
	}
}

func TestRegisterCreatesProducerSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuth(t, config.RolesConfig{})

	result, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleProducer, result.Record.Role)
	assert.True(t, result.Record.Balance.IsZero())
	assert.True(t, result.Record.Verified)
	assert.Contains(t, result.Record.AvatarURL, "ui-avatars.com")
	assert.False(t, result.Record.SubscriptionActive)

	current, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, result.Record.ID, current.ID)
}

func TestRegisterAdminAllowList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuth(t, config.RolesConfig{AdminEmails: []string{"Alice@Example.com"}})

	result, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, result.Record.Role)
	assert.True(t, result.Record.SubscriptionActive)
	assert.Nil(t, result.Record.SubscriptionExpiresAt, "complimentary subscription has no expiry")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuth(t, config.RolesConfig{})

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerInput())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDuplicateIdentity))
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuth(t, config.RolesConfig{})

	cases := []struct {
		name string
		edit func(*RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"negative age", func(in *RegisterInput) { in.Age = -1 }},
		{"short password", func(in *RegisterInput) { in.Password = "abc" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := registerInput()
			tc.edit(&input)
			_, err := svc.Register(ctx, input)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidation))
		})
	}
}

func TestLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, ledgerSvc := newTestAuth(t, config.RolesConfig{})

	registered, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	_, ok := svc.Current()
	require.False(t, ok)

	// A sale recorded while logged out must show up in the login balance.
	_, err = ledgerSvc.Append(ctx, ledger.AppendInput{
		ProductID:   "p-1",
		ProductName: "Go Course",
		Amount:      decimal.RequireFromString("49.90"),
		Kind:        enums.SaleKindSale,
		SellerID:    registered.Record.ID,
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, registered.Record.ID, result.Record.ID)
	assert.True(t, result.Record.Balance.Equal(decimal.RequireFromString("49.90")))
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuth(t, config.RolesConfig{})

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidCredential))
}

func TestLoginUnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuth(t, config.RolesConfig{})

	_, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeIdentityNotFound))
}
