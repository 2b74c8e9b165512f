package controllers

import (
	"encoding/base64"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/visionapps/darkshop-core/api/responses"
	"github.com/visionapps/darkshop-core/api/validators"
	"github.com/visionapps/darkshop-core/internal/ledger"
	"github.com/visionapps/darkshop-core/internal/sales"
	"github.com/visionapps/darkshop-core/pkg/enums"
	pkgerrors "github.com/visionapps/darkshop-core/pkg/errors"
	"github.com/visionapps/darkshop-core/pkg/logger"
)

type recordSaleRequest struct {
	ProductID   string `json:"productId" validate:"required"`
	ProductName string `json:"productName" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=sale commission"`
	SellerID    string `json:"sellerId" validate:"required"`
}

type purchaseRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Receipt   string `json:"receipt" validate:"required"`
	MimeType  string `json:"mimeType" validate:"required"`
}

type subscriptionRequest struct {
	Receipt  string `json:"receipt" validate:"required"`
	MimeType string `json:"mimeType" validate:"required"`
}

type purchasePayload struct {
	Outcome   string        `json:"outcome"`
	Reason    string        `json:"reason,omitempty"`
	Entry     *ledger.Entry `json:"entry,omitempty"`
	AccessURL string        `json:"accessUrl,omitempty"`
}

// SellerHistory returns the seller's ledger entries, newest first.
func SellerHistory(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sellerID := chi.URLParam(r, "sellerId")

		history, err := svc.HistoryFor(ctx, sellerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// SellerBalance returns the exact decimal sum of the seller's entries.
func SellerBalance(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sellerID := chi.URLParam(r, "sellerId")

		balance, err := svc.BalanceFor(ctx, sellerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"sellerId": sellerID,
			"balance":  balance.String(),
		})
	}
}

// RecordSale appends a pre-verified entry to the ledger.
func RecordSale(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req recordSaleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeLedgerValidation, "amount must be a decimal string"))
			return
		}
		kind, err := enums.ParseSaleKind(req.Kind)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeLedgerValidation, "invalid sale kind"))
			return
		}

		entry, err := svc.RecordSale(ctx, ledger.AppendInput{
			ProductID:   req.ProductID,
			ProductName: req.ProductName,
			Amount:      amount,
			Kind:        kind,
			SellerID:    req.SellerID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// Purchase runs a receipt-verified purchase end to end.
func Purchase(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req purchaseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		receipt, err := base64.StdEncoding.DecodeString(req.Receipt)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "receipt must be base64"))
			return
		}

		result, err := svc.Purchase(ctx, sales.PurchaseInput{
			ProductID: req.ProductID,
			Receipt:   receipt,
			MimeType:  req.MimeType,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, purchasePayload{
			Outcome:   string(result.Outcome),
			Reason:    result.Reason,
			Entry:     result.Entry,
			AccessURL: result.AccessURL,
		})
	}
}

// SubscriptionActivate verifies a receipt and activates the subscription
// for the active session.
func SubscriptionActivate(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req subscriptionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		receipt, err := base64.StdEncoding.DecodeString(req.Receipt)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "receipt must be base64"))
			return
		}

		result, err := svc.ActivateSubscription(ctx, sales.SubscriptionInput{
			Receipt:  receipt,
			MimeType: req.MimeType,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"outcome": string(result.Outcome),
			"reason":  result.Reason,
			"user":    result.Record,
		})
	}
}
