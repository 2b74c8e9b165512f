package enums

import "fmt"

// SaleKind distinguishes a direct sale from an affiliate commission.
type SaleKind string

const (
	SaleKindSale       SaleKind = "sale"
	SaleKindCommission SaleKind = "commission"
)

var validSaleKinds = []SaleKind{
	SaleKindSale,
	SaleKindCommission,
}

// IsValid reports whether the value matches the canonical sale kind enum.
func (k SaleKind) IsValid() bool {
	for _, candidate := range validSaleKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseSaleKind converts raw input into SaleKind.
func ParseSaleKind(value string) (SaleKind, error) {
	for _, candidate := range validSaleKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sale kind %q", value)
}
