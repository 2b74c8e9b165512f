package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/visionapps/darkshop-core/pkg/enums"
	"github.com/visionapps/darkshop-core/pkg/errors"
	"github.com/visionapps/darkshop-core/pkg/metrics"
)

// Service defines operations over the append-only sales ledger. Entries are
// never updated or removed; balances are recomputed from the full history.
type Service interface {
	Append(ctx context.Context, input AppendInput) (Entry, error)
	HistoryFor(ctx context.Context, sellerID string) ([]Entry, error)
	BalanceFor(ctx context.Context, sellerID string) (decimal.Decimal, error)
}

// AppendInput captures the immutable data a ledger entry requires. ID, Date
// and Timestamp are assigned at append time.
type AppendInput struct {
	ProductID   string
	ProductName string
	Amount      decimal.Decimal
	Kind        enums.SaleKind
	SellerID    string
}

type service struct {
	repo    Repository
	metrics *metrics.CoreMetrics
	now     func() time.Time

	// Serializes timestamp assignment with the append that persists it.
	mu sync.Mutex
}

// ServiceParams bundles the ledger service dependencies.
type ServiceParams struct {
	Repo    Repository
	Metrics *metrics.CoreMetrics
	Now     func() time.Time
}

// NewService wires a ledger service with the provided repository.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{repo: params.Repo, metrics: params.Metrics, now: params.Now}, nil
}

func (s *service) Append(ctx context.Context, input AppendInput) (Entry, error) {
	if input.SellerID == "" {
		return Entry{}, errors.New(errors.CodeLedgerValidation, "seller id is required")
	}
	if input.ProductID == "" {
		return Entry{}, errors.New(errors.CodeLedgerValidation, "product id is required")
	}
	if !input.Kind.IsValid() {
		return Entry{}, errors.New(errors.CodeLedgerValidation, fmt.Sprintf("invalid sale kind %q", input.Kind))
	}
	if input.Amount.IsNegative() {
		return Entry{}, errors.New(errors.CodeLedgerValidation, "amount cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	last, err := s.lastTimestamp(ctx)
	if err != nil {
		return Entry{}, err
	}

	now := s.now().UTC()
	timestamp := now.UnixMilli()
	if timestamp <= last {
		timestamp = last + 1
	}

	entry := Entry{
		ID:          uuid.NewString(),
		ProductID:   input.ProductID,
		ProductName: input.ProductName,
		Amount:      input.Amount,
		Date:        now.Format(DateLayout),
		Timestamp:   timestamp,
		Kind:        input.Kind,
		SellerID:    input.SellerID,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return Entry{}, errors.Wrap(errors.CodeInternal, err, "appending ledger entry")
	}

	s.metrics.IncLedgerAppend(string(entry.Kind))
	return entry, nil
}

func (s *service) HistoryFor(ctx context.Context, sellerID string) ([]Entry, error) {
	if sellerID == "" {
		return nil, errors.New(errors.CodeLedgerValidation, "seller id is required")
	}

	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing ledger entries")
	}

	history := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.SellerID == sellerID {
			history = append(history, entry)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp > history[j].Timestamp
	})
	return history, nil
}

func (s *service) BalanceFor(ctx context.Context, sellerID string) (decimal.Decimal, error) {
	if sellerID == "" {
		return decimal.Zero, errors.New(errors.CodeLedgerValidation, "seller id is required")
	}

	entries, err := s.repo.List(ctx)
	if err != nil {
		return decimal.Zero, errors.Wrap(errors.CodeInternal, err, "listing ledger entries")
	}

	balance := decimal.Zero
	for _, entry := range entries {
		if entry.SellerID == sellerID {
			balance = balance.Add(entry.Amount)
		}
	}
	return balance, nil
}

func (s *service) lastTimestamp(ctx context.Context) (int64, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.CodeInternal, err, "listing ledger entries")
	}
	var last int64
	for _, entry := range entries {
		if entry.Timestamp > last {
			last = entry.Timestamp
		}
	}
	return last, nil
}
