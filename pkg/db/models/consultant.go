package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Consultant is the public-facing shadow of a consultant-role User. It is
// derived from the User row and fully overwritten on every profile write, so
// consultant columns here are never edited directly.
type Consultant struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Name            string          `gorm:"column:name;not null"`
	Email           string          `gorm:"column:email;not null"`
	Phone           *string         `gorm:"column:phone"`
	Expertise       pq.StringArray  `gorm:"column:expertise;type:text"`
	Qualifications  *string         `gorm:"column:qualifications"`
	ExperienceYears int             `gorm:"column:experience_years;not null;default:0"`
	Bio             *string         `gorm:"column:bio"`
	ConsultationFee decimal.Decimal `gorm:"column:consultation_fee;type:numeric(10,2);not null"`
	Availability    *string         `gorm:"column:availability"`
	Rating          *float64        `gorm:"column:rating;type:numeric(3,2)"`
	IsVerified      bool            `gorm:"column:is_verified;not null;default:false"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	ImgURL          *string         `gorm:"column:img_url"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Consultant) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
