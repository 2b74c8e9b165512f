package auth

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/visionapps/darkshop-core/internal/identity"
	"github.com/visionapps/darkshop-core/internal/session"
	"github.com/visionapps/darkshop-core/internal/vault"
	"github.com/visionapps/darkshop-core/pkg/config"
	"github.com/visionapps/darkshop-core/pkg/enums"
	"github.com/visionapps/darkshop-core/pkg/errors"
	"github.com/visionapps/darkshop-core/pkg/logger"
	"github.com/visionapps/darkshop-core/pkg/security"
)

// Sessions is the slice of the session manager the auth service drives.
type Sessions interface {
	Activate(ctx context.Context, record identity.Record) (session.ActivationResult, error)
	Logout(ctx context.Context) error
	Current() (identity.Record, bool)
}

// Service registers identities and opens sessions against the vault.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Result, error)
	Login(ctx context.Context, input LoginInput) (*Result, error)
	Logout(ctx context.Context) error
	Current() (identity.Record, bool)
}

type service struct {
	vault    vault.Service
	sessions Sessions
	roles    config.RolesConfig
	logg     *logger.Logger
}

// ServiceParams bundles the auth service dependencies.
type ServiceParams struct {
	Vault    vault.Service
	Sessions Sessions
	Roles    config.RolesConfig
	Logger   *logger.Logger
}

// NewService wires the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Vault == nil {
		return nil, fmt.Errorf("vault service required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		vault:    params.Vault,
		sessions: params.Sessions,
		roles:    params.Roles,
		logg:     params.Logger,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Result, error) {
	if err := validateRegister(input); err != nil {
		return nil, err
	}

	email := security.NormalizeEmail(input.Email)
	record := identity.Record{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     email,
		Age:       input.Age,
		Role:      enums.UserRoleProducer,
		Balance:   decimal.Zero,
		Verified:  true,
		AvatarURL: avatarURL(input.Name),
	}

	// Allow-listed emails become admins with a complimentary open-ended
	// subscription.
	if s.roles.IsAdmin(email) {
		record.Role = enums.UserRoleAdmin
		record.SubscriptionActive = true
	}

	if err := s.vault.Register(ctx, email, input.Password, record); err != nil {
		return nil, err
	}

	activation, err := s.sessions.Activate(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithUserID(ctx, record.ID), "account registered")
	return &Result{Record: activation.Record, SubscriptionExpired: activation.SubscriptionExpired}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*Result, error) {
	if input.Email == "" || input.Password == "" {
		return nil, errors.New(errors.CodeValidation, "email and password are required")
	}

	record, err := s.vault.Unlock(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	activation, err := s.sessions.Activate(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithUserID(ctx, record.ID), "login succeeded")
	return &Result{Record: activation.Record, SubscriptionExpired: activation.SubscriptionExpired}, nil
}

func (s *service) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

func (s *service) Current() (identity.Record, bool) {
	return s.sessions.Current()
}

func validateRegister(input RegisterInput) error {
	if input.Name == "" {
		return errors.New(errors.CodeValidation, "name is required")
	}
	if input.Email == "" {
		return errors.New(errors.CodeValidation, "email is required")
	}
	if input.Age < 0 {
		return errors.New(errors.CodeValidation, "age cannot be negative")
	}
	if len(input.Password) < 6 {
		return errors.New(errors.CodeValidation, "password must be at least 6 characters")
	}
	return nil
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?background=random&name=" + url.QueryEscape(name)
}
