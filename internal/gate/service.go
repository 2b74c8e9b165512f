package gate

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/visionapps/darkshop-core/pkg/enums"
	"github.com/visionapps/darkshop-core/pkg/errors"
	"github.com/visionapps/darkshop-core/pkg/logger"
	"github.com/visionapps/darkshop-core/pkg/metrics"
)

// Outcome is the resolved verification result after fallback policy.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
	OutcomeHeld     Outcome = "held"
)

// Result is the gate service's answer for one receipt.
type Result struct {
	Outcome      Outcome
	Reason       string
	FallbackUsed bool
}

// Service resolves receipt checks against the remote verifier, degrading
// to the configured fallback policy when the verifier is missing or
// unreachable. Unavailability never becomes a caller-visible error.
type Service struct {
	verifier Verifier
	fallback enums.GateFallback
	logg     *logger.Logger
	metrics  *metrics.CoreMetrics
}

// ServiceParams bundles the gate service dependencies. Verifier may be
// nil when no gate is configured.
type ServiceParams struct {
	Verifier Verifier
	Fallback enums.GateFallback
	Logger   *logger.Logger
	Metrics  *metrics.CoreMetrics
}

// NewService wires the gate service with its fallback policy.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("gate logger required")
	}
	if !params.Fallback.IsValid() {
		return nil, fmt.Errorf("invalid gate fallback policy %q", params.Fallback)
	}
	return &Service{
		verifier: params.Verifier,
		fallback: params.Fallback,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// Check verifies a receipt for the claimed amount.
func (s *Service) Check(ctx context.Context, image []byte, mimeType string, amount decimal.Decimal) (Result, error) {
	if len(image) == 0 {
		return Result{}, errors.New(errors.CodeValidation, "receipt image is required")
	}
	if amount.IsNegative() {
		return Result{}, errors.New(errors.CodeValidation, "amount cannot be negative")
	}

	if s.verifier == nil {
		return s.applyFallback(ctx, "verification gate not configured"), nil
	}

	decision, err := s.verifier.VerifyReceipt(ctx, image, mimeType, amount)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "verification gate unavailable")
		return s.applyFallback(ctx, "verification gate unavailable"), nil
	}

	result := Result{Outcome: OutcomeRejected, Reason: decision.Reason}
	if decision.Approved {
		result.Outcome = OutcomeApproved
	}
	s.metrics.IncGateDecision(string(result.Outcome), false)
	return result, nil
}

func (s *Service) applyFallback(ctx context.Context, reason string) Result {
	result := Result{Reason: reason, FallbackUsed: true}
	switch s.fallback {
	case enums.GateFallbackApprove:
		result.Outcome = OutcomeApproved
	case enums.GateFallbackReject:
		result.Outcome = OutcomeRejected
	default:
		result.Outcome = OutcomeHeld
	}

	s.metrics.IncGateDecision(string(result.Outcome), true)
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"policy":  string(s.fallback),
		"outcome": string(result.Outcome),
	}), "applied gate fallback policy")
	return result
}
