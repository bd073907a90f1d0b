package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/pagination"
)

// Repository wires together product, image, and review persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindDetail loads the product with its images ordered by position.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save updates an existing product row.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// ReplaceImages swaps all image rows for the product.
func (r *Repository) ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return tx.Create(&images).Error
}

// ListByVendor returns all products owned by the vendor, newest first.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Categories returns the distinct non-null categories of active products.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category IS NOT NULL AND is_active = ?", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RenameCategory bulk-updates every product carrying the old category value.
func (r *Repository) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category = ?", oldName).
		UpdateColumn("category", newName)
	return res.RowsAffected, res.Error
}

// ClearCategory nulls the category on matching products; the products survive.
func (r *Repository) ClearCategory(ctx context.Context, name string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category = ?", name).
		UpdateColumn("category", nil)
	return res.RowsAffected, res.Error
}

// Count returns the total number of products.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// AdminListFilter narrows the admin product listing.
type AdminListFilter struct {
	Query    string
	Category string
	Active   *bool
	Limit    int
}

// AdminList returns products matching the filter, newest first, without the
// is_active restriction applied to public listings.
func (r *Repository) AdminList(ctx context.Context, filter AdminListFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var out []models.Product
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// List applies the public filters and sort, returning up to limit+1 rows so
// the caller can detect the next page.
func (r *Repository) List(ctx context.Context, filters ListFilters, sort SortOrder, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("products.is_active = ?", true)

	if term := strings.TrimSpace(filters.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", like, like)
	}
	if filters.Category != "" {
		q = q.Where("products.category = ?", filters.Category)
	}
	if filters.MinPrice != nil {
		q = q.Where("products.price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		q = q.Where("products.price <= ?", *filters.MaxPrice)
	}

	switch sort {
	case SortPriceAsc:
		q = q.Order("products.price ASC, products.id ASC")
	case SortPriceDesc:
		q = q.Order("products.price DESC, products.id ASC")
	case SortPopularity:
		q = q.
			Joins("LEFT JOIN order_items ON order_items.product_id = products.id").
			Group("products.id").
			Order("COUNT(order_items.id) DESC, products.created_at DESC")
	case SortRating:
		q = q.
			Joins("LEFT JOIN reviews ON reviews.product_id = products.id AND reviews.is_approved = ?", true).
			Group("products.id").
			Order("AVG(reviews.rating) DESC, products.created_at DESC")
	default:
		// Newest first, with keyset pagination on (created_at, id).
		if cursor != nil {
			q = q.Where(
				"products.created_at < ? OR (products.created_at = ? AND products.id < ?)",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
			)
		}
		q = q.Order("products.created_at DESC, products.id DESC")
	}

	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []models.Product
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CreateReview inserts an unapproved review row.
func (r *Repository) CreateReview(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// ListApprovedReviews returns the approved reviews for a product, newest first.
func (r *Repository) ListApprovedReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApprovedRating returns the average approved-review rating, or nil when the
// product has no approved reviews yet.
func (r *Repository) ApprovedRating(ctx context.Context, productID uuid.UUID) (*float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return avg, nil
}

// SetReviewApproved toggles a review's moderation flag.
func (r *Repository) SetReviewApproved(ctx context.Context, reviewID uuid.UUID, approved bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", reviewID).
		UpdateColumn("is_approved", approved).Error
}
