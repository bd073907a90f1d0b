package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Role            enums.Role `json:"role"`
	IsActive        bool       `json:"is_active"`
	IsVerified      bool       `json:"is_verified"`
	ProfileComplete bool       `json:"profile_complete"`
	Phone           *string    `json:"phone,omitempty"`
	Address         *string    `json:"address,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Bio             *string    `json:"bio,omitempty"`
	ProfilePicture  *string    `json:"profile_picture,omitempty"`

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
	Rating          *float64         `json:"rating,omitempty"`

	Interests        []string `json:"interests,omitempty"`
	PreferredContact *string  `json:"preferred_contact,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Role         enums.Role
	IsActive     *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              u.Role,
		IsActive:          u.IsActive,
		IsVerified:        u.IsVerified,
		ProfileComplete:   u.ProfileComplete,
		Phone:             u.Phone,
		Address:           u.Address,
		Location:          u.Location,
		Bio:               u.Bio,
		ProfilePicture:    u.ProfilePicture,
		BusinessName:      u.BusinessName,
		FarmSize:          u.FarmSize,
		CropTypes:         copyList(u.CropTypes),
		FarmingMethod:     u.FarmingMethod,
		BusinessType:      u.BusinessType,
		VendorType:        u.VendorType,
		ProductCategories: copyList(u.ProductCategories),
		DeliveryAreas:     u.DeliveryAreas,
		Expertise:         copyList(u.Expertise),
		Qualifications:    u.Qualifications,
		ExperienceYears:   u.ExperienceYears,
		ConsultationFee:   u.ConsultationFee,
		Availability:      u.Availability,
		Rating:            u.Rating,
		Interests:         copyList(u.Interests),
		PreferredContact:  u.PreferredContact,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return &models.User{
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
		IsActive:     isActive,
	}
}

func copyList(values pq.StringArray) []string {
	if len(values) == 0 {
		return nil
	}
	return append([]string(nil), values...)
}
