package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/visionapps/darkshop-core/pkg/enums"
	"github.com/visionapps/darkshop-core/pkg/errors"
)

// Product is a marketplace listing owned by a seller.
type Product struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	Price          decimal.Decimal   `json:"price"`
	CommissionRate decimal.Decimal   `json:"commissionRate"`
	Type           enums.ProductType `json:"type"`
	ImageURL       string            `json:"imageUrl,omitempty"`
	ContentURL     string            `json:"contentUrl,omitempty"`
	PaymentLink    string            `json:"paymentLink,omitempty"`
	SalesCount     int               `json:"salesCount"`
	OwnerID        string            `json:"ownerId"`
}

// Validate checks the fields a product must carry before it is listed.
func (p Product) Validate() error {
	if p.Title == "" {
		return errors.New(errors.CodeValidation, "product title is required")
	}
	if p.OwnerID == "" {
		return errors.New(errors.CodeValidation, "product owner is required")
	}
	if p.Price.IsNegative() {
		return errors.New(errors.CodeValidation, "product price cannot be negative")
	}
	if p.CommissionRate.IsNegative() || p.CommissionRate.GreaterThan(decimal.New(1, 0)) {
		return errors.New(errors.CodeValidation, "commission rate must be between 0 and 1")
	}
	if !p.Type.IsValid() {
		return errors.New(errors.CodeValidation, "product type is invalid")
	}
	return nil
}
