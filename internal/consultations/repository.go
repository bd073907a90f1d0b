package consultations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
)

// Repository persists consultation bookings.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, consultation *models.Consultation) error {
	return r.db.WithContext(ctx).Create(consultation).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Consultation, error) {
	var out models.Consultation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository) Save(ctx context.Context, consultation *models.Consultation) error {
	return r.db.WithContext(ctx).Save(consultation).Error
}

// ListByClient returns a client's bookings newest first.
func (r *Repository) ListByClient(ctx context.Context, userID uuid.UUID) ([]models.Consultation, error) {
	var out []models.Consultation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByConsultant returns a shadow record's bookings newest first.
func (r *Repository) ListByConsultant(ctx context.Context, consultantID uuid.UUID) ([]models.Consultation, error) {
	var out []models.Consultation
	err := r.db.WithContext(ctx).
		Where("consultant_id = ?", consultantID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Consultation{}).Count(&count).Error
	return count, err
}
