package consultations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
)

// preferredDateLayout is the only accepted format for booking dates.
const preferredDateLayout = "2006-01-02T15:04"

// BookRequest is the client-facing booking payload.
type BookRequest struct {
	ConsultantUserID uuid.UUID `json:"consultant_user_id" validate:"required"`
	Topic            string    `json:"topic" validate:"required"`
	Description      *string   `json:"description,omitempty"`
	ConsultationType *string   `json:"consultation_type,omitempty"`
	PreferredDate    string    `json:"preferred_date,omitempty"`
	DurationMinutes  int       `json:"duration_minutes,omitempty" validate:"omitempty,gte=15"`
}

// CompleteRequest carries the consultant's closing notes.
type CompleteRequest struct {
	ConsultantNotes *string `json:"consultant_notes,omitempty"`
	Recommendations *string `json:"recommendations,omitempty"`
}

// ConsultationDTO is the transport shape of a booking.
type ConsultationDTO struct {
	ID               uuid.UUID                `json:"id"`
	UserID           uuid.UUID                `json:"user_id"`
	ConsultantID     uuid.UUID                `json:"consultant_id"`
	Topic            string                   `json:"topic"`
	Description      *string                  `json:"description,omitempty"`
	Status           enums.ConsultationStatus `json:"status"`
	ConsultationType *string                  `json:"consultation_type,omitempty"`
	ScheduledDate    *time.Time               `json:"scheduled_date,omitempty"`
	DurationMinutes  int                      `json:"duration_minutes"`
	Fee              decimal.Decimal          `json:"fee"`
	PaymentStatus    enums.PaymentStatus      `json:"payment_status"`
	ConsultantNotes  *string                  `json:"consultant_notes,omitempty"`
	Recommendations  *string                  `json:"recommendations,omitempty"`
	ClientRating     *int                     `json:"client_rating,omitempty"`
	ClientFeedback   *string                  `json:"client_feedback,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
}

// ConsultantDTO is the public listing shape of a consultant, sourced from the
// shadow record when one exists.
type ConsultantDTO struct {
	UserID          uuid.UUID       `json:"user_id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           *string         `json:"phone,omitempty"`
	Expertise       []string        `json:"expertise,omitempty"`
	Qualifications  *string         `json:"qualifications,omitempty"`
	ExperienceYears int             `json:"experience_years"`
	Bio             *string         `json:"bio,omitempty"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	Availability    *string         `json:"availability,omitempty"`
	Rating          *float64        `json:"rating,omitempty"`
	IsVerified      bool            `json:"is_verified"`
	ImgURL          *string         `json:"img_url,omitempty"`
}

// DashboardDTO is what a consultant sees on their own dashboard.
type DashboardDTO struct {
	Profile       ConsultantDTO     `json:"profile"`
	Consultations []ConsultationDTO `json:"consultations"`
}

func FromModel(c *models.Consultation) ConsultationDTO {
	return ConsultationDTO{
		ID:               c.ID,
		UserID:           c.UserID,
		ConsultantID:     c.ConsultantID,
		Topic:            c.Topic,
		Description:      c.Description,
		Status:           c.Status,
		ConsultationType: c.ConsultationType,
		ScheduledDate:    c.ScheduledDate,
		DurationMinutes:  c.DurationMinutes,
		Fee:              c.Fee,
		PaymentStatus:    c.PaymentStatus,
		ConsultantNotes:  c.ConsultantNotes,
		Recommendations:  c.Recommendations,
		ClientRating:     c.ClientRating,
		ClientFeedback:   c.ClientFeedback,
		CreatedAt:        c.CreatedAt,
	}
}

func consultantFromShadow(c *models.Consultant) ConsultantDTO {
	return ConsultantDTO{
		UserID:          c.UserID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Expertise:       append([]string(nil), c.Expertise...),
		Qualifications:  c.Qualifications,
		ExperienceYears: c.ExperienceYears,
		Bio:             c.Bio,
		ConsultationFee: c.ConsultationFee,
		Availability:    c.Availability,
		Rating:          c.Rating,
		IsVerified:      c.IsVerified,
		ImgURL:          c.ImgURL,
	}
}

func consultantFromUser(u *models.User) ConsultantDTO {
	dto := ConsultantDTO{
		UserID:         u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		Expertise:      append([]string(nil), u.Expertise...),
		Qualifications: u.Qualifications,
		Bio:            u.Bio,
		Availability:   u.Availability,
		Rating:         u.Rating,
		IsVerified:     u.IsVerified,
		ImgURL:         u.ProfilePicture,
	}
	if u.ExperienceYears != nil {
		dto.ExperienceYears = *u.ExperienceYears
	}
	if u.ConsultationFee != nil {
		dto.ConsultationFee = *u.ConsultationFee
	}
	return dto
}
