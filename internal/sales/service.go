package sales

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/visionapps/darkshop-core/internal/catalog"
	"github.com/visionapps/darkshop-core/internal/gate"
	"github.com/visionapps/darkshop-core/internal/identity"
	"github.com/visionapps/darkshop-core/internal/ledger"
	"github.com/visionapps/darkshop-core/pkg/config"
	"github.com/visionapps/darkshop-core/pkg/enums"
	"github.com/visionapps/darkshop-core/pkg/errors"
	"github.com/visionapps/darkshop-core/pkg/logger"
)

// Sessions is the slice of the session manager the sales service drives.
type Sessions interface {
	Current() (identity.Record, bool)
	RefreshBalance(ctx context.Context) (identity.Record, error)
	ActivateSubscription(ctx context.Context) (identity.Record, error)
}

// Gate resolves receipt checks.
type Gate interface {
	Check(ctx context.Context, image []byte, mimeType string, amount decimal.Decimal) (gate.Result, error)
}

// PurchaseInput is a buyer's claim of payment for a product.
type PurchaseInput struct {
	ProductID string
	Receipt   []byte
	MimeType  string
}

// PurchaseResult reports how far a purchase got. Entry and AccessURL are
// only set for approved purchases.
type PurchaseResult struct {
	Outcome   gate.Outcome
	Reason    string
	Product   catalog.Product
	Entry     *ledger.Entry
	AccessURL string
}

// SubscriptionInput is a claim of payment for the dashboard subscription.
type SubscriptionInput struct {
	Receipt  []byte
	MimeType string
}

// SubscriptionResult reports the verification outcome; Record is only set
// when the subscription was activated.
type SubscriptionResult struct {
	Outcome gate.Outcome
	Reason  string
	Record  *identity.Record
}

// Service orchestrates purchases: verify the receipt, credit the seller's
// ledger, bump the catalog, and refresh the active session's projection.
type Service interface {
	Purchase(ctx context.Context, input PurchaseInput) (*PurchaseResult, error)
	RecordSale(ctx context.Context, input ledger.AppendInput) (ledger.Entry, error)
	ActivateSubscription(ctx context.Context, input SubscriptionInput) (*SubscriptionResult, error)
}

type service struct {
	catalog  catalog.Service
	ledger   ledger.Service
	gate     Gate
	sessions Sessions
	cfg      config.SessionConfig
	logg     *logger.Logger
}

// ServiceParams bundles the sales service dependencies.
type ServiceParams struct {
	Catalog  catalog.Service
	Ledger   ledger.Service
	Gate     Gate
	Sessions Sessions
	Config   config.SessionConfig
	Logger   *logger.Logger
}

// NewService wires the sales service.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if params.Gate == nil {
		return nil, fmt.Errorf("gate service required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		catalog:  params.Catalog,
		ledger:   params.Ledger,
		gate:     params.Gate,
		sessions: params.Sessions,
		cfg:      params.Config,
		logg:     params.Logger,
	}, nil
}

func (s *service) Purchase(ctx context.Context, input PurchaseInput) (*PurchaseResult, error) {
	product, err := s.catalog.Get(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	check, err := s.gate.Check(ctx, input.Receipt, input.MimeType, product.Price)
	if err != nil {
		return nil, err
	}
	if check.Outcome != gate.OutcomeApproved {
		return &PurchaseResult{Outcome: check.Outcome, Reason: check.Reason, Product: product}, nil
	}

	entry, err := s.RecordSale(ctx, ledger.AppendInput{
		ProductID:   product.ID,
		ProductName: product.Title,
		Amount:      product.Price,
		Kind:        enums.SaleKindSale,
		SellerID:    product.OwnerID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.catalog.IncrementSalesCount(ctx, product.ID); err != nil {
		// The sale is already on the ledger; a stale counter is tolerable.
		s.logg.Error(ctx, "incrementing sales count", err)
	}

	return &PurchaseResult{
		Outcome:   gate.OutcomeApproved,
		Product:   product,
		Entry:     &entry,
		AccessURL: accessURL(product),
	}, nil
}

func (s *service) RecordSale(ctx context.Context, input ledger.AppendInput) (ledger.Entry, error) {
	entry, err := s.ledger.Append(ctx, input)
	if err != nil {
		return ledger.Entry{}, err
	}

	// If the credited seller is the active session, its balance projection
	// is stale now; recompute it.
	if current, ok := s.sessions.Current(); ok && current.ID == entry.SellerID {
		if _, err := s.sessions.RefreshBalance(ctx); err != nil {
			s.logg.Error(ctx, "refreshing session balance", err)
		}
	}

	s.logg.Info(s.logg.WithSellerID(ctx, entry.SellerID), "sale recorded")
	return entry, nil
}

func (s *service) ActivateSubscription(ctx context.Context, input SubscriptionInput) (*SubscriptionResult, error) {
	if _, ok := s.sessions.Current(); !ok {
		return nil, errors.New(errors.CodeInvalidCredential, "no active session")
	}

	price, err := decimal.NewFromString(s.cfg.SubscriptionPrice)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "parsing subscription price")
	}

	check, err := s.gate.Check(ctx, input.Receipt, input.MimeType, price)
	if err != nil {
		return nil, err
	}
	if check.Outcome != gate.OutcomeApproved {
		return &SubscriptionResult{Outcome: check.Outcome, Reason: check.Reason}, nil
	}

	record, err := s.sessions.ActivateSubscription(ctx)
	if err != nil {
		return nil, err
	}
	return &SubscriptionResult{Outcome: gate.OutcomeApproved, Record: &record}, nil
}

func accessURL(product catalog.Product) string {
	if product.ContentURL != "" {
		return product.ContentURL
	}
	return product.PaymentLink
}
