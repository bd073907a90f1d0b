package profile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
)

// UpdateRequest carries profile fields submitted by the user. Absent fields
// are left untouched; submitted fields are persisted whether or not the
// user's role requires them.
type UpdateRequest struct {
	Phone          *string `json:"phone,omitempty"`
	Address        *string `json:"address,omitempty"`
	Location       *string `json:"location,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"`
	Gender         *string `json:"gender,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`

	BusinessName  *string  `json:"business_name,omitempty"`
	FarmSize      *string  `json:"farm_size,omitempty"`
	CropTypes     []string `json:"crop_types,omitempty"`
	FarmingMethod *string  `json:"farming_method,omitempty"`

	BusinessType      *string  `json:"business_type,omitempty"`
	VendorType        *string  `json:"vendor_type,omitempty"`
	ProductCategories []string `json:"product_categories,omitempty"`
	DeliveryAreas     *string  `json:"delivery_areas,omitempty"`

	Expertise       []string         `json:"expertise,omitempty"`
	Qualifications  *string          `json:"qualifications,omitempty"`
	ExperienceYears *int             `json:"experience_years,omitempty"`
	ConsultationFee *decimal.Decimal `json:"consultation_fee,omitempty"`
	Availability    *string          `json:"availability,omitempty"`

	Interests        []string `json:"interests,omitempty"`
	PreferredContact *string  `json:"preferred_contact,omitempty"`
}

const dateOfBirthLayout = "2006-01-02"

// apply copies the submitted fields onto the user model.
func (r UpdateRequest) apply(user *models.User) error {
	setText(&user.Phone, r.Phone)
	setText(&user.Address, r.Address)
	setText(&user.Location, r.Location)
	setText(&user.Bio, r.Bio)
	setText(&user.Gender, r.Gender)
	setText(&user.ProfilePicture, r.ProfilePicture)

	if r.DateOfBirth != nil {
		raw := strings.TrimSpace(*r.DateOfBirth)
		if raw == "" {
			user.DateOfBirth = nil
		} else {
			parsed, err := time.Parse(dateOfBirthLayout, raw)
			if err != nil {
				return err
			}
			user.DateOfBirth = &parsed
		}
	}

	setText(&user.BusinessName, r.BusinessName)
	setText(&user.FarmSize, r.FarmSize)
	if r.CropTypes != nil {
		user.CropTypes = append([]string(nil), r.CropTypes...)
	}
	setText(&user.FarmingMethod, r.FarmingMethod)

	setText(&user.BusinessType, r.BusinessType)
	setText(&user.VendorType, r.VendorType)
	if r.ProductCategories != nil {
		user.ProductCategories = append([]string(nil), r.ProductCategories...)
	}
	setText(&user.DeliveryAreas, r.DeliveryAreas)

	if r.Expertise != nil {
		user.Expertise = append([]string(nil), r.Expertise...)
	}
	setText(&user.Qualifications, r.Qualifications)
	if r.ExperienceYears != nil {
		years := *r.ExperienceYears
		user.ExperienceYears = &years
	}
	if r.ConsultationFee != nil {
		fee := *r.ConsultationFee
		user.ConsultationFee = &fee
	}
	setText(&user.Availability, r.Availability)

	if r.Interests != nil {
		user.Interests = append([]string(nil), r.Interests...)
	}
	setText(&user.PreferredContact, r.PreferredContact)

	return nil
}

func setText(dst **string, src *string) {
	if src == nil {
		return
	}
	trimmed := strings.TrimSpace(*src)
	if trimmed == "" {
		*dst = nil
		return
	}
	*dst = &trimmed
}
