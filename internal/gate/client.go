package gate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/visionapps/darkshop-core/pkg/config"
)

// Decision is the gate's verdict on a submitted payment receipt.
type Decision struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}

// Verifier submits a receipt image and the claimed amount for out-of-band
// verification.
type Verifier interface {
	VerifyReceipt(ctx context.Context, image []byte, mimeType string, amount decimal.Decimal) (Decision, error)
}

type verifyRequest struct {
	Amount   string `json:"amount"`
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

// HTTPClient calls the external verification gate over HTTPS. The gate is
// a remote collaborator; its transport and failures never leak past the
// gate service.
type HTTPClient struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPClient returns a gate client, or nil when no gate URL is
// configured so the caller falls straight through to the fallback policy.
func NewHTTPClient(cfg config.GateConfig) *HTTPClient {
	if cfg.URL == "" {
		return nil
	}
	return &HTTPClient{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *HTTPClient) VerifyReceipt(ctx context.Context, image []byte, mimeType string, amount decimal.Decimal) (Decision, error) {
	payload, err := json.Marshal(verifyRequest{
		Amount:   amount.StringFixed(2),
		Image:    base64.StdEncoding.EncodeToString(image),
		MimeType: mimeType,
	})
	if err != nil {
		return Decision{}, fmt.Errorf("marshaling verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return Decision{}, fmt.Errorf("building verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Decision{}, fmt.Errorf("calling verification gate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Decision{}, fmt.Errorf("verification gate returned %d: %s", resp.StatusCode, string(body))
	}

	var decision Decision
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return Decision{}, fmt.Errorf("decoding gate decision: %w", err)
	}
	return decision, nil
}
