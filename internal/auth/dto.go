package auth

import "github.com/visionapps/darkshop-core/internal/identity"

// RegisterInput captures a new account request.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Age      int    `json:"age" validate:"gte=0"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput captures a credential pair.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Result is the outcome of a register or login: the activated record plus
// the one-time notice that an expired subscription was cleared.
type Result struct {
	Record              identity.Record
	SubscriptionExpired bool
}
