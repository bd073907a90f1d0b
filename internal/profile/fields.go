package profile

import (
	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
)

// Base fields are required for every role; role-specific sets extend them.
var baseFields = []string{"phone", "address", "bio"}

var roleFields = map[enums.Role][]string{
	enums.RoleFarmer:     {"business_name", "crop_types", "farm_size"},
	enums.RoleVendor:     {"business_name", "vendor_type", "product_categories"},
	enums.RoleConsultant: {"expertise", "qualifications", "experience_years"},
}

// RequiredFields returns the field names a user of the given role must fill
// before their profile counts as complete.
func RequiredFields(role enums.Role) []string {
	fields := append([]string(nil), baseFields...)
	return append(fields, roleFields[role]...)
}

// MissingFields reports which required fields are still empty on the user.
func MissingFields(user *models.User) []string {
	var missing []string
	for _, field := range RequiredFields(user.Role) {
		if !fieldPresent(user, field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// IsComplete reports whether every required field for the user's role is set.
func IsComplete(user *models.User) bool {
	return len(MissingFields(user)) == 0
}

func fieldPresent(user *models.User, field string) bool {
	switch field {
	case "phone":
		return hasText(user.Phone)
	case "address":
		return hasText(user.Address)
	case "bio":
		return hasText(user.Bio)
	case "business_name":
		return hasText(user.BusinessName)
	case "crop_types":
		return len(user.CropTypes) > 0
	case "farm_size":
		return hasText(user.FarmSize)
	case "vendor_type":
		return hasText(user.VendorType)
	case "product_categories":
		return len(user.ProductCategories) > 0
	case "expertise":
		return len(user.Expertise) > 0
	case "qualifications":
		return hasText(user.Qualifications)
	case "experience_years":
		return user.ExperienceYears != nil && *user.ExperienceYears >= 0
	default:
		return false
	}
}

func hasText(value *string) bool {
	return value != nil && *value != ""
}
