package controllers

import (
	"net/http"

	"github.com/visionapps/darkshop-core/api/responses"
	"github.com/visionapps/darkshop-core/api/validators"
	"github.com/visionapps/darkshop-core/internal/auth"
	"github.com/visionapps/darkshop-core/internal/identity"
	pkgerrors "github.com/visionapps/darkshop-core/pkg/errors"
	"github.com/visionapps/darkshop-core/pkg/logger"
)

type sessionPayload struct {
	User                identity.Record `json:"user"`
	SubscriptionExpired bool            `json:"subscriptionExpired,omitempty"`
}

// AuthRegister creates an account and opens its session.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var input auth.RegisterInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input.Name = validators.SanitizeString(input.Name, 120)

		result, err := svc.Register(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sessionPayload{
			User:                result.Record,
			SubscriptionExpired: result.SubscriptionExpired,
		})
	}
}

// AuthLogin unlocks the vault and opens a session.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var input auth.LoginInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Login(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, sessionPayload{
			User:                result.Record,
			SubscriptionExpired: result.SubscriptionExpired,
		})
	}
}

// AuthLogout clears the active session.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := svc.Logout(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthSession returns the current session, if any.
func AuthSession(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		record, ok := svc.Current()
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInvalidCredential, "no active session"))
			return
		}
		responses.WriteSuccess(w, sessionPayload{User: record})
	}
}
