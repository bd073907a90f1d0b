package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
)

// ProductDTO is the transport shape of a catalog listing.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    *string         `json:"category,omitempty"`
	SubCategory *string         `json:"sub_category,omitempty"`
	ImgURL      *string         `json:"img_url,omitempty"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
	InStock     bool            `json:"in_stock"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductDetailDTO adds images and approved reviews to the listing shape.
type ProductDetailDTO struct {
	ProductDTO
	Images        []string    `json:"images"`
	Reviews       []ReviewDTO `json:"reviews"`
	AverageRating *float64    `json:"average_rating,omitempty"`
}

// ReviewDTO is the transport shape of an approved review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest is the seller-facing creation payload. Images are
// base64 strings; at least two are required.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Category    *string         `json:"category,omitempty"`
	SubCategory *string         `json:"sub_category,omitempty"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	MinQuantity int             `json:"min_quantity" validate:"gte=0"`
	Images      []string        `json:"images" validate:"required"`
}

// UpdateProductRequest carries partial product edits. A nil field is left
// untouched; Images, when present, replaces the whole set.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	SubCategory *string          `json:"sub_category,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	MinQuantity *int             `json:"min_quantity,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
	Images      []string         `json:"images,omitempty"`
}

// AddReviewRequest is the buyer-facing review payload.
type AddReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment *string `json:"comment,omitempty"`
}

func FromModel(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		VendorID:    p.VendorID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		ImgURL:      p.ImgURL,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		InStock:     p.InStock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func reviewFromModel(r models.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
