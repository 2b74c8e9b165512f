package enums

import "fmt"

// GateFallback is the explicit decision applied when the verification gate
// cannot be reached. The original product approved on any gate failure; that
// behavior is now an opt-in policy instead of a catch-all.
type GateFallback string

const (
	GateFallbackApprove GateFallback = "approve"
	GateFallbackReject  GateFallback = "reject"
	GateFallbackHold    GateFallback = "hold"
)

var validGateFallbacks = []GateFallback{
	GateFallbackApprove,
	GateFallbackReject,
	GateFallbackHold,
}

// IsValid reports whether the value matches the canonical fallback enum.
func (f GateFallback) IsValid() bool {
	for _, candidate := range validGateFallbacks {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseGateFallback converts raw input into GateFallback.
func ParseGateFallback(value string) (GateFallback, error) {
	for _, candidate := range validGateFallbacks {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gate fallback %q", value)
}
