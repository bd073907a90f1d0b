package enums

import "fmt"

// Role represents the account role attached to a user.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleFarmer     Role = "farmer"
	RoleVendor     Role = "vendor"
	RoleConsultant Role = "consultant"
	RoleAdmin      Role = "admin"
)

var validRoles = []Role{
	RoleCustomer,
	RoleFarmer,
	RoleVendor,
	RoleConsultant,
	RoleAdmin,
}

// SellerRoles are the roles permitted to list products.
var SellerRoles = []Role{RoleAdmin, RoleVendor, RoleFarmer}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanSell reports whether the role may create product listings.
func (r Role) CanSell() bool {
	for _, candidate := range SellerRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
