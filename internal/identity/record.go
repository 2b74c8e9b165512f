package identity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/visionapps/darkshop-core/pkg/enums"
	"github.com/visionapps/darkshop-core/pkg/errors"
)

// Record is the identity payload sealed inside a vault envelope. Balance is
// a projection over the ledger and is recomputed on session activation, so
// the stored value is advisory only.
type Record struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	Email                 string          `json:"email"`
	Age                   int             `json:"age"`
	Role                  enums.UserRole  `json:"role"`
	Balance               decimal.Decimal `json:"balance"`
	Verified              bool            `json:"is_verified"`
	SubscriptionActive    bool            `json:"subscription_active"`
	SubscriptionExpiresAt *time.Time      `json:"subscription_expires_at,omitempty"`
	AvatarURL             string          `json:"avatar_url,omitempty"`
}

// Validate checks the structural invariants a record must satisfy before it
// is sealed or activated.
func (r Record) Validate() error {
	if r.ID == "" {
		return errors.New(errors.CodeValidation, "identity id is required")
	}
	if r.Name == "" {
		return errors.New(errors.CodeValidation, "identity name is required")
	}
	if r.Email == "" {
		return errors.New(errors.CodeValidation, "identity email is required")
	}
	if r.Age < 0 {
		return errors.New(errors.CodeValidation, "identity age cannot be negative")
	}
	if !r.Role.IsValid() {
		return errors.New(errors.CodeValidation, "identity role is invalid")
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate shared state through
// the expiry pointer.
func (r Record) Clone() Record {
	out := r
	if r.SubscriptionExpiresAt != nil {
		expires := *r.SubscriptionExpiresAt
		out.SubscriptionExpiresAt = &expires
	}
	return out
}

// SubscriptionExpired reports whether a subscription was active but has
// passed its expiry at the provided instant.
func (r Record) SubscriptionExpired(now time.Time) bool {
	return r.SubscriptionActive &&
		r.SubscriptionExpiresAt != nil &&
		r.SubscriptionExpiresAt.Before(now)
}
