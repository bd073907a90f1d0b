package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/enums"
)

// Consultation is a booking between a client user and a Consultant shadow
// record. Fee is snapshotted from the shadow at booking time.
type Consultation struct {
	ID               uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	UserID           uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	ConsultantID     uuid.UUID                `gorm:"column:consultant_id;type:uuid;not null;index"`
	Topic            string                   `gorm:"column:topic;not null"`
	Description      *string                  `gorm:"column:description"`
	Status           enums.ConsultationStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ConsultationType *string                  `gorm:"column:consultation_type"`
	ScheduledDate    *time.Time               `gorm:"column:scheduled_date"`
	DurationMinutes  int                      `gorm:"column:duration_minutes;not null;default:60"`
	Fee              decimal.Decimal          `gorm:"column:fee;type:numeric(10,2);not null"`
	PaymentStatus    enums.PaymentStatus      `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	ConsultantNotes  *string                  `gorm:"column:consultant_notes"`
	Recommendations  *string                  `gorm:"column:recommendations"`
	ClientRating     *int                     `gorm:"column:client_rating"`
	ClientFeedback   *string                  `gorm:"column:client_feedback"`
	CreatedAt        time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Consultation) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
