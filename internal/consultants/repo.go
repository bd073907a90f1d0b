package consultants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
)

// Repository exposes persistence for the Consultant shadow records.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a consultants repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a shadow record by its primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Consultant, error) {
	var consultant models.Consultant
	if err := r.db.WithContext(ctx).First(&consultant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &consultant, nil
}

// FindByUserID loads the shadow record tied to the given user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Consultant, error) {
	var consultant models.Consultant
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&consultant).Error; err != nil {
		return nil, err
	}
	return &consultant, nil
}

// Create inserts a new shadow record.
func (r *Repository) Create(ctx context.Context, consultant *models.Consultant) error {
	return r.db.WithContext(ctx).Create(consultant).Error
}

// Save persists the full shadow row.
func (r *Repository) Save(ctx context.Context, consultant *models.Consultant) error {
	return r.db.WithContext(ctx).Save(consultant).Error
}

// List returns all shadow records, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Consultant, error) {
	var out []models.Consultant
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SetVerified toggles the consultant's verified flag.
func (r *Repository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Consultant{}).
		Where("id = ?", id).
		UpdateColumn("is_verified", verified).Error
}

// SetActive toggles the consultant's active flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Consultant{}).
		Where("id = ?", id).
		UpdateColumn("is_active", active).Error
}

// Count returns the total number of shadow records.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Consultant{}).Count(&count).Error
	return count, err
}
