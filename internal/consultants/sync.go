package consultants

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
)

// DefaultFee is applied when a consultant user has not set a fee yet.
var DefaultFee = decimal.NewFromFloat(4.0)

// Derive maps live User fields onto a Consultant shadow row. Every profile
// write path funnels through this single function so the shadow can never
// drift field-by-field.
func Derive(user *models.User, target *models.Consultant) {
	target.UserID = user.ID
	target.Name = user.Name
	target.Email = user.Email
	target.Phone = user.Phone
	target.Expertise = user.Expertise
	target.Qualifications = user.Qualifications
	target.Bio = user.Bio
	target.Availability = user.Availability
	target.Rating = user.Rating
	target.IsVerified = user.IsVerified
	target.IsActive = user.IsActive
	target.ImgURL = user.ProfilePicture

	if user.ExperienceYears != nil {
		target.ExperienceYears = *user.ExperienceYears
	} else {
		target.ExperienceYears = 0
	}

	if user.ConsultationFee != nil {
		target.ConsultationFee = *user.ConsultationFee
	} else if target.ConsultationFee.IsZero() {
		target.ConsultationFee = DefaultFee
	}
}

// Ensure returns the shadow record for the given consultant user, creating it
// from live user fields when absent. The operation is idempotent: a second
// call returns the same row.
func Ensure(ctx context.Context, repo *Repository, user *models.User) (*models.Consultant, error) {
	if user.Role != enums.RoleConsultant {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user is not a consultant")
	}

	existing, err := repo.FindByUserID(ctx, user.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup consultant record")
	}

	consultant := &models.Consultant{}
	Derive(user, consultant)
	if err := repo.Create(ctx, consultant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create consultant record")
	}
	return consultant, nil
}

// Sync overwrites the shadow record from live user fields, creating it first
// when needed.
func Sync(ctx context.Context, repo *Repository, user *models.User) (*models.Consultant, error) {
	consultant, err := Ensure(ctx, repo, user)
	if err != nil {
		return nil, err
	}

	Derive(user, consultant)
	if err := repo.Save(ctx, consultant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sync consultant record")
	}
	return consultant, nil
}
