package consultations

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/internal/consultants"
	"github.com/agrisphere/agrisphere-backend/internal/users"
	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/logger"
)

// bookingMailer notifies a consultant about a new request. Failures are
// logged, never surfaced.
type bookingMailer interface {
	SendConsultationRequested(ctx context.Context, email, name, topic string) error
}

// Service owns the consultation workflow on both sides of a booking.
type Service interface {
	ListConsultants(ctx context.Context) ([]ConsultantDTO, error)
	ViewConsultant(ctx context.Context, userID uuid.UUID) (*ConsultantDTO, error)
	Book(ctx context.Context, clientID uuid.UUID, req BookRequest) (*ConsultationDTO, error)
	ListMine(ctx context.Context, clientID uuid.UUID) ([]ConsultationDTO, error)
	Accept(ctx context.Context, actorID, consultationID uuid.UUID) (*ConsultationDTO, error)
	Decline(ctx context.Context, actorID, consultationID uuid.UUID) (*ConsultationDTO, error)
	Complete(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, consultationID uuid.UUID, req CompleteRequest) (*ConsultationDTO, error)
	Dashboard(ctx context.Context, consultantUserID uuid.UUID) (*DashboardDTO, error)
}

// ServiceParams packages the dependencies for the consultation service.
type ServiceParams struct {
	DB     *db.Client
	Mailer bookingMailer
	Logger *logger.Logger
}

type service struct {
	db     *db.Client
	mailer bookingMailer
	logg   *logger.Logger
}

// NewService builds a consultation service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{db: params.DB, mailer: params.Mailer, logg: params.Logger}, nil
}

// ListConsultants returns every active consultant-role user, sourced from the
// shadow record when one exists.
func (s *service) ListConsultants(ctx context.Context) ([]ConsultantDTO, error) {
	userRepo := users.NewRepository(s.db.DB())
	shadowRepo := consultants.NewRepository(s.db.DB())

	rows, err := userRepo.ListActiveByRole(ctx, enums.RoleConsultant)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list consultants")
	}

	out := make([]ConsultantDTO, 0, len(rows))
	for i := range rows {
		if shadow, err := shadowRepo.FindByUserID(ctx, rows[i].ID); err == nil {
			out = append(out, consultantFromShadow(shadow))
			continue
		}
		out = append(out, consultantFromUser(&rows[i]))
	}
	return out, nil
}

func (s *service) ViewConsultant(ctx context.Context, userID uuid.UUID) (*ConsultantDTO, error) {
	userRepo := users.NewRepository(s.db.DB())
	user, err := userRepo.FindByID(ctx, userID)
	if err != nil || user.Role != enums.RoleConsultant || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "consultant not found")
	}

	if shadow, err := consultants.NewRepository(s.db.DB()).FindByUserID(ctx, userID); err == nil {
		dto := consultantFromShadow(shadow)
		return &dto, nil
	}
	dto := consultantFromUser(user)
	return &dto, nil
}

func (s *service) Book(ctx context.Context, clientID uuid.UUID, req BookRequest) (*ConsultationDTO, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "topic is required")
	}
	if clientID == req.ConsultantUserID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "you cannot book a consultation with yourself")
	}

	var scheduled *time.Time
	if strings.TrimSpace(req.PreferredDate) != "" {
		parsed, err := time.Parse(preferredDateLayout, req.PreferredDate)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "preferred date must be formatted as 2006-01-02T15:04")
		}
		scheduled = &parsed
	}

	var (
		booking    *models.Consultation
		consultant *models.User
	)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		target, err := userRepo.FindByID(ctx, req.ConsultantUserID)
		if err != nil || target.Role != enums.RoleConsultant || !target.IsActive {
			return pkgerrors.New(pkgerrors.CodeNotFound, "consultant not found")
		}
		consultant = target

		shadow, err := consultants.Ensure(ctx, consultants.NewRepository(tx), target)
		if err != nil {
			return err
		}

		duration := req.DurationMinutes
		if duration <= 0 {
			duration = 60
		}

		booking = &models.Consultation{
			ID:               uuid.New(),
			UserID:           clientID,
			ConsultantID:     shadow.ID,
			Topic:            strings.TrimSpace(req.Topic),
			Description:      req.Description,
			Status:           enums.ConsultationStatusPending,
			ConsultationType: req.ConsultationType,
			ScheduledDate:    scheduled,
			DurationMinutes:  duration,
			Fee:              shadow.ConsultationFee,
			PaymentStatus:    enums.PaymentStatusPending,
		}
		if err := NewRepository(tx).Create(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create consultation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.mailer != nil && consultant != nil {
		if err := s.mailer.SendConsultationRequested(ctx, consultant.Email, consultant.Name, booking.Topic); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "consultation_id", booking.ID.String()), "consultation request email failed: "+err.Error())
		}
	}

	dto := FromModel(booking)
	return &dto, nil
}

func (s *service) ListMine(ctx context.Context, clientID uuid.UUID) ([]ConsultationDTO, error) {
	rows, err := NewRepository(s.db.DB()).ListByClient(ctx, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list consultations")
	}
	out := make([]ConsultationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Accept(ctx context.Context, actorID, consultationID uuid.UUID) (*ConsultationDTO, error) {
	return s.respond(ctx, actorID, consultationID, enums.ConsultationStatusAccepted)
}

// Decline marks the booking cancelled; decline and client cancellation share
// the cancelled status.
func (s *service) Decline(ctx context.Context, actorID, consultationID uuid.UUID) (*ConsultationDTO, error) {
	return s.respond(ctx, actorID, consultationID, enums.ConsultationStatusCancelled)
}

func (s *service) respond(ctx context.Context, actorID, consultationID uuid.UUID, next enums.ConsultationStatus) (*ConsultationDTO, error) {
	var result *ConsultationDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		booking, err := repo.FindByID(ctx, consultationID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "consultation not found")
		}

		shadow, err := consultants.NewRepository(tx).FindByUserID(ctx, actorID)
		if err != nil || shadow.ID != booking.ConsultantID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "consultation belongs to another consultant")
		}
		if booking.Status != enums.ConsultationStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "consultation is not pending")
		}

		booking.Status = next
		if err := repo.Save(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update consultation")
		}
		dto := FromModel(booking)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Complete(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, consultationID uuid.UUID, req CompleteRequest) (*ConsultationDTO, error) {
	var result *ConsultationDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		booking, err := repo.FindByID(ctx, consultationID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "consultation not found")
		}

		if actorRole != enums.RoleAdmin {
			shadow, err := consultants.NewRepository(tx).FindByUserID(ctx, actorID)
			if err != nil || shadow.ID != booking.ConsultantID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "consultation belongs to another consultant")
			}
		}
		if booking.Status != enums.ConsultationStatusAccepted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only accepted consultations can be completed")
		}

		booking.Status = enums.ConsultationStatusCompleted
		if req.ConsultantNotes != nil {
			booking.ConsultantNotes = req.ConsultantNotes
		}
		if req.Recommendations != nil {
			booking.Recommendations = req.Recommendations
		}
		if err := repo.Save(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update consultation")
		}
		dto := FromModel(booking)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Dashboard re-derives the shadow record from the live user row, then lists
// the consultant's bookings newest first.
func (s *service) Dashboard(ctx context.Context, consultantUserID uuid.UUID) (*DashboardDTO, error) {
	var out *DashboardDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := users.NewRepository(tx).FindByID(ctx, consultantUserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}

		shadow, err := consultants.Sync(ctx, consultants.NewRepository(tx), user)
		if err != nil {
			return err
		}

		rows, err := NewRepository(tx).ListByConsultant(ctx, shadow.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list consultations")
		}

		out = &DashboardDTO{
			Profile:       consultantFromShadow(shadow),
			Consultations: make([]ConsultationDTO, 0, len(rows)),
		}
		for i := range rows {
			out.Consultations = append(out.Consultations, FromModel(&rows[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
