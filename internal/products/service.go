package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/pagination"
)

// minImages is the minimum number of listing images a seller must supply.
const minImages = 2

// Service owns the catalog: seller CRUD, public browse, and reviews.
type Service interface {
	CreateProduct(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, req CreateProductRequest) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	ListMyProducts(ctx context.Context, actorID uuid.UUID) ([]ProductDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDetailDTO, error)
	Categories(ctx context.Context) ([]string, error)
	AddReview(ctx context.Context, actorID uuid.UUID, productID uuid.UUID, req AddReviewRequest) (*ReviewDTO, error)
}

// ServiceParams packages the dependencies for the catalog service.
type ServiceParams struct {
	DB *db.Client
}

type service struct {
	db *db.Client
}

// NewService builds a catalog service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{db: params.DB}, nil
}

// sellerRoles may create and manage listings.
func canSell(role enums.Role) bool {
	switch role {
	case enums.RoleAdmin, enums.RoleVendor, enums.RoleFarmer:
		return true
	default:
		return false
	}
}

func validateImages(images []string) ([]string, error) {
	cleaned := make([]string, 0, len(images))
	for _, img := range images {
		if trimmed := strings.TrimSpace(img); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) < minImages {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least two product images are required").
			WithDetails(map[string]any{"min_images": minImages, "got": len(cleaned)})
	}
	return cleaned, nil
}

func imageModels(productID uuid.UUID, images []string) []models.ProductImage {
	rows := make([]models.ProductImage, 0, len(images))
	for i, data := range images {
		rows = append(rows, models.ProductImage{
			ID:        uuid.New(),
			ProductID: productID,
			ImageData: data,
			Position:  i,
		})
	}
	return rows
}

func (s *service) CreateProduct(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, req CreateProductRequest) (*ProductDTO, error) {
	if !canSell(actorRole) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only vendors, farmers, and admins can create products")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if req.Quantity < 0 || req.MinQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantities cannot be negative")
	}
	images, err := validateImages(req.Images)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New(),
		VendorID:    actorID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		ImgURL:      &images[0],
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		InStock:     req.Quantity > 0,
		IsActive:    true,
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.Create(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create product")
		}
		if err := repo.ReplaceImages(ctx, product.ID, imageModels(product.ID, images)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to store product images")
		}
		if product.Quantity > 0 {
			log := &models.InventoryLog{
				ID:               uuid.New(),
				ProductID:        product.ID,
				ChangeType:       enums.InventoryChangeRestock,
				QuantityChange:   product.Quantity,
				PreviousQuantity: 0,
				NewQuantity:      product.Quantity,
				CreatedBy:        &actorID,
			}
			if err := tx.WithContext(ctx).Create(log).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record inventory change")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := FromModel(product)
	return &dto, nil
}

func (s *service) UpdateProduct(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	var result *ProductDTO

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		product, err := repo.FindByID(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		if product.VendorID != actorID && actorRole != enums.RoleAdmin {
			return pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this product")
		}

		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
			}
			product.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			product.Description = req.Description
		}
		if req.Price != nil {
			if req.Price.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
			}
			product.Price = *req.Price
		}
		if req.Category != nil {
			product.Category = req.Category
		}
		if req.SubCategory != nil {
			product.SubCategory = req.SubCategory
		}
		if req.MinQuantity != nil {
			if *req.MinQuantity < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "min quantity cannot be negative")
			}
			product.MinQuantity = *req.MinQuantity
		}
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}

		if req.Quantity != nil {
			next := *req.Quantity
			if next < 0 {
				next = 0
			}
			if next != product.Quantity {
				log := &models.InventoryLog{
					ID:               uuid.New(),
					ProductID:        product.ID,
					ChangeType:       enums.InventoryChangeAdjustment,
					QuantityChange:   next - product.Quantity,
					PreviousQuantity: product.Quantity,
					NewQuantity:      next,
					CreatedBy:        &actorID,
				}
				if err := tx.WithContext(ctx).Create(log).Error; err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record inventory change")
				}
			}
			product.Quantity = next
			product.InStock = next > 0
		}

		if req.Images != nil {
			images, err := validateImages(req.Images)
			if err != nil {
				return err
			}
			if err := repo.ReplaceImages(ctx, product.ID, imageModels(product.ID, images)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to replace product images")
			}
			product.ImgURL = &images[0]
		}

		if err := repo.Save(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update product")
		}

		dto := FromModel(product)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) ListMyProducts(ctx context.Context, actorID uuid.UUID) ([]ProductDTO, error) {
	repo := NewRepository(s.db.DB())
	rows, err := repo.ListByVendor(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	repo := NewRepository(s.db.DB())
	rows, err := repo.List(ctx, input.Filters, input.Sort, cursor, pagination.LimitWithBuffer(input.Pagination.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list products")
	}

	result := &ListResult{Products: make([]ProductDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Products = append(result.Products, FromModel(&rows[i]))
	}
	// Cursor continuation is only defined for the created_at ordering.
	if hasMore && input.Sort == SortNewest {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDetailDTO, error) {
	repo := NewRepository(s.db.DB())
	product, err := repo.FindDetail(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}

	reviews, err := repo.ListApprovedReviews(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load reviews")
	}
	rating, err := repo.ApprovedRating(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load rating")
	}

	detail := &ProductDetailDTO{
		ProductDTO:    FromModel(product),
		Images:        make([]string, 0, len(product.Images)),
		Reviews:       make([]ReviewDTO, 0, len(reviews)),
		AverageRating: rating,
	}
	for _, img := range product.Images {
		detail.Images = append(detail.Images, img.ImageData)
	}
	for _, r := range reviews {
		detail.Reviews = append(detail.Reviews, reviewFromModel(r))
	}
	return detail, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	repo := NewRepository(s.db.DB())
	categories, err := repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list categories")
	}
	return categories, nil
}

func (s *service) AddReview(ctx context.Context, actorID uuid.UUID, productID uuid.UUID, req AddReviewRequest) (*ReviewDTO, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	repo := NewRepository(s.db.DB())
	if _, err := repo.FindByID(ctx, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}

	review := &models.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    actorID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		// Reviews stay hidden until an admin approves them.
		IsApproved: false,
	}
	if err := repo.CreateReview(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create review")
	}

	dto := reviewFromModel(*review)
	return &dto, nil
}
