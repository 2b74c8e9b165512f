package enums

import "fmt"

// ProductType categorizes catalog products.
type ProductType string

const (
	ProductTypeCourse       ProductType = "course"
	ProductTypeEbook        ProductType = "ebook"
	ProductTypeMusic        ProductType = "music"
	ProductTypeService      ProductType = "service"
	ProductTypeSubscription ProductType = "subscription"
)

var validProductTypes = []ProductType{
	ProductTypeCourse,
	ProductTypeEbook,
	ProductTypeMusic,
	ProductTypeService,
	ProductTypeSubscription,
}

// IsValid reports whether the value matches the canonical product type enum.
func (t ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}
