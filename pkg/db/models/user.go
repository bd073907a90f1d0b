package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/enums"
)

// User represents the canonical identity entity. Role-specific profile fields
// live on the same row; only the columns relevant to the user's role are
// required for profile completion.
type User struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name            string     `gorm:"column:name;not null"`
	Email           string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash    string     `gorm:"column:password_hash;not null"`
	Role            enums.Role `gorm:"column:role;type:text;not null;default:'customer'"`
	IsActive        bool       `gorm:"column:is_active;not null;default:true"`
	IsVerified      bool       `gorm:"column:is_verified;not null;default:false"`
	IsTrustedSeller bool       `gorm:"column:is_trusted_seller;not null;default:false"`
	ProfileComplete bool       `gorm:"column:profile_complete;not null;default:false"`

	// Base profile fields, required for every role.
	Phone          *string    `gorm:"column:phone"`
	Address        *string    `gorm:"column:address"`
	Location       *string    `gorm:"column:location"`
	Bio            *string    `gorm:"column:bio"`
	DateOfBirth    *time.Time `gorm:"column:date_of_birth"`
	Gender         *string    `gorm:"column:gender"`
	ProfilePicture *string    `gorm:"column:profile_picture"`

	// Farmer fields.
	BusinessName  *string        `gorm:"column:business_name"`
	FarmSize      *string        `gorm:"column:farm_size"`
	CropTypes     pq.StringArray `gorm:"column:crop_types;type:text"`
	FarmingMethod *string        `gorm:"column:farming_method"`

	// Vendor fields. BusinessName is shared with farmers.
	BusinessType      *string        `gorm:"column:business_type"`
	VendorType        *string        `gorm:"column:vendor_type"`
	ProductCategories pq.StringArray `gorm:"column:product_categories;type:text"`
	DeliveryAreas     *string        `gorm:"column:delivery_areas"`

	// Consultant fields, mirrored onto the Consultant shadow record.
	Expertise       pq.StringArray   `gorm:"column:expertise;type:text"`
	Qualifications  *string          `gorm:"column:qualifications"`
	ExperienceYears *int             `gorm:"column:experience_years"`
	ConsultationFee *decimal.Decimal `gorm:"column:consultation_fee;type:numeric(10,2)"`
	Availability    *string          `gorm:"column:availability"`
	Rating          *float64         `gorm:"column:rating;type:numeric(3,2)"`

	// Customer fields.
	Interests        pq.StringArray `gorm:"column:interests;type:text"`
	PreferredContact *string        `gorm:"column:preferred_contact"`

	ResetToken       *string    `gorm:"column:reset_token"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
