package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/pagination"
)

func newCatalogTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Product{}, &models.ProductImage{},
		&models.Review{}, &models.InventoryLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(ServiceParams{DB: db.FromGorm(conn)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func validCreateRequest(name string, qty int) CreateProductRequest {
	return CreateProductRequest{
		Name:     name,
		Price:    decimal.NewFromFloat(12.50),
		Quantity: qty,
		Images:   []string{"aW1hZ2Ux", "aW1hZ2Uy"},
	}
}

func TestCreateProductRequiresTwoImages(t *testing.T) {
	t.Parallel()
	svc, conn := newCatalogTestService(t)
	ctx := context.Background()
	vendorID := uuid.New()

	req := validCreateRequest("Tomato Seeds", 10)
	req.Images = []string{"aW1hZ2Ux"}

	_, err := svc.CreateProduct(ctx, vendorID, enums.RoleVendor, req)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	var productCount, imageCount int64
	conn.Model(&models.Product{}).Count(&productCount)
	conn.Model(&models.ProductImage{}).Count(&imageCount)
	if productCount != 0 || imageCount != 0 {
		t.Fatalf("expected no partial persistence, got %d products %d images", productCount, imageCount)
	}
}

func TestCreateProductPersistsImagesAndRestockLog(t *testing.T) {
	t.Parallel()
	svc, conn := newCatalogTestService(t)
	ctx := context.Background()
	vendorID := uuid.New()

	dto, err := svc.CreateProduct(ctx, vendorID, enums.RoleFarmer, validCreateRequest("Tomato Seeds", 10))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if !dto.InStock {
		t.Fatalf("expected in_stock true for quantity 10")
	}
	if dto.ImgURL == nil || *dto.ImgURL != "aW1hZ2Ux" {
		t.Fatalf("expected img_url to mirror first image, got %v", dto.ImgURL)
	}

	var images []models.ProductImage
	if err := conn.Where("product_id = ?", dto.ID).Order("position asc").Find(&images).Error; err != nil {
		t.Fatalf("load images: %v", err)
	}
	if len(images) != 2 || images[0].Position != 0 || images[1].Position != 1 {
		t.Fatalf("expected 2 ordered images, got %+v", images)
	}

	var log models.InventoryLog
	if err := conn.Where("product_id = ?", dto.ID).First(&log).Error; err != nil {
		t.Fatalf("load inventory log: %v", err)
	}
	if log.ChangeType != enums.InventoryChangeRestock || log.QuantityChange != 10 || log.NewQuantity != 10 {
		t.Fatalf("unexpected restock log: %+v", log)
	}
}

func TestCreateProductRejectsNonSellers(t *testing.T) {
	t.Parallel()
	svc, _ := newCatalogTestService(t)
	ctx := context.Background()

	for _, role := range []enums.Role{enums.RoleCustomer, enums.RoleConsultant} {
		_, err := svc.CreateProduct(ctx, uuid.New(), role, validCreateRequest("Sprayer", 1))
		if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
			t.Fatalf("role %s: expected forbidden, got %v", role, err)
		}
	}
}

func TestUpdateProductOwnershipAndAdjustmentLog(t *testing.T) {
	t.Parallel()
	svc, conn := newCatalogTestService(t)
	ctx := context.Background()
	vendorID := uuid.New()

	dto, err := svc.CreateProduct(ctx, vendorID, enums.RoleVendor, validCreateRequest("Compost", 5))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	_, err = svc.UpdateProduct(ctx, uuid.New(), enums.RoleVendor, dto.ID, UpdateProductRequest{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	newQty := 0
	updated, err := svc.UpdateProduct(ctx, vendorID, enums.RoleVendor, dto.ID, UpdateProductRequest{Quantity: &newQty})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Quantity != 0 || updated.InStock {
		t.Fatalf("expected quantity 0 and out of stock, got %+v", updated)
	}

	var logs []models.InventoryLog
	if err := conn.Where("product_id = ? AND change_type = ?", dto.ID, enums.InventoryChangeAdjustment).Find(&logs).Error; err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 1 || logs[0].QuantityChange != -5 || logs[0].PreviousQuantity != 5 {
		t.Fatalf("unexpected adjustment logs: %+v", logs)
	}

	// Admins may edit listings they do not own.
	active := false
	if _, err := svc.UpdateProduct(ctx, uuid.New(), enums.RoleAdmin, dto.ID, UpdateProductRequest{IsActive: &active}); err != nil {
		t.Fatalf("admin update: %v", err)
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	t.Parallel()
	svc, conn := newCatalogTestService(t)
	ctx := context.Background()
	vendorID := uuid.New()

	seed := func(name string, price float64, category string, createdAt time.Time) *models.Product {
		p := &models.Product{
			ID:        uuid.New(),
			VendorID:  vendorID,
			Name:      name,
			Price:     decimal.NewFromFloat(price),
			Category:  &category,
			Quantity:  10,
			InStock:   true,
			IsActive:  true,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}
		if err := conn.Create(p).Error; err != nil {
			t.Fatalf("seed product: %v", err)
		}
		return p
	}

	base := time.Now().UTC().Add(-time.Hour)
	seed("Tomato Seeds", 4.00, "seeds", base)
	seed("Pepper Seeds", 6.00, "seeds", base.Add(time.Minute))
	seed("Hand Trowel", 15.00, "tools", base.Add(2*time.Minute))

	out, err := svc.List(ctx, ListInput{Filters: ListFilters{Category: "seeds"}, Sort: SortPriceAsc})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Products) != 2 || out.Products[0].Name != "Tomato Seeds" {
		t.Fatalf("unexpected price_asc page: %+v", out.Products)
	}

	out, err = svc.List(ctx, ListInput{Filters: ListFilters{Query: "trowel"}, Sort: SortNewest})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Products) != 1 || out.Products[0].Name != "Hand Trowel" {
		t.Fatalf("unexpected query match: %+v", out.Products)
	}

	min := decimal.NewFromFloat(5.00)
	out, err = svc.List(ctx, ListInput{Filters: ListFilters{MinPrice: &min}, Sort: SortPriceDesc})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Products) != 2 || out.Products[0].Name != "Hand Trowel" {
		t.Fatalf("unexpected min_price page: %+v", out.Products)
	}
}

func TestListNewestPaginatesWithCursor(t *testing.T) {
	t.Parallel()
	svc, conn := newCatalogTestService(t)
	ctx := context.Background()
	vendorID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		p := &models.Product{
			ID:        uuid.New(),
			VendorID:  vendorID,
			Name:      "Listing",
			Price:     decimal.NewFromInt(1),
			Quantity:  1,
			InStock:   true,
			IsActive:  true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := conn.Create(p).Error; err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}

	first, err := svc.List(ctx, ListInput{Sort: SortNewest, Pagination: pagination.Params{Limit: 2}})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first.Products) != 2 || first.NextCursor == "" {
		t.Fatalf("expected full first page with cursor, got %d items cursor %q", len(first.Products), first.NextCursor)
	}

	second, err := svc.List(ctx, ListInput{Sort: SortNewest, Pagination: pagination.Params{Limit: 2, Cursor: first.NextCursor}})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Products) != 1 || second.NextCursor != "" {
		t.Fatalf("expected final page of 1, got %d items cursor %q", len(second.Products), second.NextCursor)
	}
	for _, p := range first.Products {
		if p.ID == second.Products[0].ID {
			t.Fatalf("pages overlap on product %s", p.ID)
		}
	}
}

func TestGetProductIncludesApprovedReviewsOnly(t *testing.T) {
	t.Parallel()
	svc, conn := newCatalogTestService(t)
	ctx := context.Background()
	vendorID := uuid.New()

	dto, err := svc.CreateProduct(ctx, vendorID, enums.RoleVendor, validCreateRequest("Mulch", 3))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	review, err := svc.AddReview(ctx, uuid.New(), dto.ID, AddReviewRequest{Rating: 4})
	if err != nil {
		t.Fatalf("add review: %v", err)
	}

	detail, err := svc.GetProduct(ctx, dto.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if len(detail.Reviews) != 0 || detail.AverageRating != nil {
		t.Fatalf("expected unapproved review hidden, got %+v", detail)
	}
	if len(detail.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(detail.Images))
	}

	if err := conn.Model(&models.Review{}).Where("id = ?", review.ID).Update("is_approved", true).Error; err != nil {
		t.Fatalf("approve review: %v", err)
	}

	detail, err = svc.GetProduct(ctx, dto.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if len(detail.Reviews) != 1 || detail.AverageRating == nil || *detail.AverageRating != 4 {
		t.Fatalf("expected approved review visible with rating 4, got %+v", detail)
	}
}

func TestAddReviewRejectsOutOfRangeRating(t *testing.T) {
	t.Parallel()
	svc, _ := newCatalogTestService(t)
	ctx := context.Background()

	for _, rating := range []int{0, 6} {
		_, err := svc.AddReview(ctx, uuid.New(), uuid.New(), AddReviewRequest{Rating: rating})
		if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("rating %d: expected validation error, got %v", rating, err)
		}
	}
}
