package profile

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/internal/consultants"
	"github.com/agrisphere/agrisphere-backend/internal/users"
	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
)

// Service owns profile reads and the two write paths. Complete validates the
// role's required fields and flips profile_complete; Edit only updates fields.
// Both re-sync the consultant shadow record inside the same transaction.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	Complete(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*users.UserDTO, error)
	Edit(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*users.UserDTO, error)
}

// ServiceParams packages the dependencies for the profile service.
type ServiceParams struct {
	DB *db.Client
}

type service struct {
	db *db.Client
}

// NewService builds a profile service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	repo := users.NewRepository(s.db.DB())
	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
	}
	return users.FromModel(user), nil
}

func (s *service) Complete(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*users.UserDTO, error) {
	return s.update(ctx, userID, req, true)
}

func (s *service) Edit(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*users.UserDTO, error) {
	return s.update(ctx, userID, req, false)
}

func (s *service) update(ctx context.Context, userID uuid.UUID, req UpdateRequest, complete bool) (*users.UserDTO, error) {
	var result *users.UserDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		consultantRepo := consultants.NewRepository(tx)

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}

		if err := req.apply(user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date_of_birth")
		}

		if complete {
			if missing := MissingFields(user); len(missing) > 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "missing required profile fields").
					WithDetails(map[string]any{"missing_fields": missing})
			}
			user.ProfileComplete = true
		}

		if err := userRepo.Save(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save profile")
		}

		if user.Role == enums.RoleConsultant {
			if _, err := consultants.Sync(ctx, consultantRepo, user); err != nil {
				return err
			}
		}

		result = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
