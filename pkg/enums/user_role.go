package enums

import "fmt"

// UserRole identifies what an identity is allowed to do in the dashboard.
type UserRole string

const (
	UserRoleProducer  UserRole = "producer"
	UserRoleAffiliate UserRole = "affiliate"
	UserRoleAdmin     UserRole = "admin"
)

var validUserRoles = []UserRole{
	UserRoleProducer,
	UserRoleAffiliate,
	UserRoleAdmin,
}

// IsValid reports whether the value matches the canonical role enum.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
