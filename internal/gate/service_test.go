package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visionapps/darkshop-core/pkg/config"
	"github.com/visionapps/darkshop-core/pkg/enums"
	"github.com/visionapps/darkshop-core/pkg/logger"
)

type stubVerifier struct {
	decision Decision
	err      error
	calls    int
}

func (v *stubVerifier) VerifyReceipt(context.Context, []byte, string, decimal.Decimal) (Decision, error) {
	v.calls++
	return v.decision, v.err
}

func newGateService(t *testing.T, verifier Verifier, fallback enums.GateFallback) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Verifier: verifier,
		Fallback: fallback,
		Logger:   logger.New(logger.Options{ServiceName: "gate-test"}),
	})
	require.NoError(t, err)
	return svc
}

func TestCheckApproved(t *testing.T) {
	verifier := &stubVerifier{decision: Decision{Approved: true}}
	svc := newGateService(t, verifier, enums.GateFallbackHold)

	result, err := svc.Check(context.Background(), []byte("img"), "image/png", decimal.New(30, 0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, result.Outcome)
	assert.False(t, result.FallbackUsed)
	assert.Equal(t, 1, verifier.calls)
}

func TestCheckRejectedCarriesReason(t *testing.T) {
	verifier := &stubVerifier{decision: Decision{Approved: false, Reason: "amount mismatch"}}
	svc := newGateService(t, verifier, enums.GateFallbackHold)

	result, err := svc.Check(context.Background(), []byte("img"), "image/png", decimal.New(30, 0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, "amount mismatch", result.Reason)
}

func TestCheckFallbackPolicies(t *testing.T) {
	cases := []struct {
		policy  enums.GateFallback
		outcome Outcome
	}{
		{enums.GateFallbackApprove, OutcomeApproved},
		{enums.GateFallbackReject, OutcomeRejected},
		{enums.GateFallbackHold, OutcomeHeld},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			verifier := &stubVerifier{err: fmt.Errorf("connection refused")}
			svc := newGateService(t, verifier, tc.policy)

			result, err := svc.Check(context.Background(), []byte("img"), "image/png", decimal.New(30, 0))
			require.NoError(t, err, "gate unavailability must not surface as an error")
			assert.Equal(t, tc.outcome, result.Outcome)
			assert.True(t, result.FallbackUsed)
		})
	}
}

func TestCheckWithoutVerifierUsesFallback(t *testing.T) {
	svc := newGateService(t, nil, enums.GateFallbackHold)

	result, err := svc.Check(context.Background(), []byte("img"), "image/png", decimal.New(30, 0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeHeld, result.Outcome)
	assert.True(t, result.FallbackUsed)
}

func TestCheckValidation(t *testing.T) {
	svc := newGateService(t, &stubVerifier{}, enums.GateFallbackHold)

	_, err := svc.Check(context.Background(), nil, "image/png", decimal.New(30, 0))
	require.Error(t, err)

	_, err = svc.Check(context.Background(), []byte("img"), "image/png", decimal.New(-1, 0))
	require.Error(t, err)
}

func TestNewServiceRejectsInvalidFallback(t *testing.T) {
	_, err := NewService(ServiceParams{
		Fallback: "panic",
		Logger:   logger.New(logger.Options{ServiceName: "gate-test"}),
	})
	require.Error(t, err)
}

func TestHTTPClientVerifyReceipt(t *testing.T) {
	var gotAuth string
	var gotBody verifyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(Decision{Approved: true})
	}))
	defer server.Close()

	client := NewHTTPClient(config.GateConfig{URL: server.URL, APIKey: "test-key", Timeout: 0})
	decision, err := client.VerifyReceipt(context.Background(), []byte("receipt-bytes"), "image/jpeg", decimal.RequireFromString("49.9"))
	require.NoError(t, err)
	assert.True(t, decision.Approved)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "49.90", gotBody.Amount)
	assert.Equal(t, "image/jpeg", gotBody.MimeType)
}

func TestHTTPClientNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(config.GateConfig{URL: server.URL})
	_, err := client.VerifyReceipt(context.Background(), []byte("x"), "image/png", decimal.New(1, 0))
	require.Error(t, err)
}

func TestNewHTTPClientWithoutURL(t *testing.T) {
	assert.Nil(t, NewHTTPClient(config.GateConfig{}))
}
