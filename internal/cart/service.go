package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/internal/products"
	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
)

const (
	// ActionIncrease bumps a cart row by one.
	ActionIncrease = "increase"
	// ActionDecrease drops a cart row by one, deleting it below 1.
	ActionDecrease = "decrease"
)

// Service owns the cart: add, nudge, remove, and fetch with subtotal.
// Stock is re-validated at add time and again at checkout; the increase
// action deliberately skips a live-stock re-check.
type Service interface {
	AddToCart(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*ItemDTO, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, action string) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	FetchCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

// ServiceParams packages the dependencies for the cart service.
type ServiceParams struct {
	DB *db.Client
}

type service struct {
	db *db.Client
}

// NewService builds a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) AddToCart(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*ItemDTO, error) {
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var result *ItemDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := products.NewRepository(tx)
		product, err := productRepo.FindByID(ctx, req.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		if !product.IsActive {
			return pkgerrors.New(pkgerrors.CodeConflict, "product is no longer available")
		}
		if !product.InStock || req.Quantity > product.Quantity {
			return pkgerrors.New(pkgerrors.CodeConflict, "not enough stock")
		}

		repo := NewRepository(tx)
		item, err := repo.FindByUserAndProduct(ctx, userID, req.ProductID)
		switch {
		case err == nil:
			// Merge into the existing row, capped at the available stock.
			merged := item.Quantity + req.Quantity
			if merged > product.Quantity {
				merged = product.Quantity
			}
			item.Quantity = merged
			if err := repo.Save(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update cart item")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = &models.CartItem{
				ID:        uuid.New(),
				UserID:    userID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
			}
			if err := repo.Create(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to add cart item")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to read cart")
		}

		result = itemDTO(item, product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, action string) (*CartDTO, error) {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		item, err := repo.FindByID(ctx, itemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		if item.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "cart item belongs to another user")
		}

		switch action {
		case ActionIncrease:
			item.Quantity++
			if err := repo.Save(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update cart item")
			}
		case ActionDecrease:
			item.Quantity--
			if item.Quantity < 1 {
				if err := repo.Delete(ctx, item.ID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to remove cart item")
				}
				return nil
			}
			if err := repo.Save(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update cart item")
			}
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, "action must be increase or decrease")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FetchCart(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	repo := NewRepository(s.db.DB())
	item, err := repo.FindByID(ctx, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
	}
	if item.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cart item belongs to another user")
	}
	if err := repo.Delete(ctx, item.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to remove cart item")
	}
	return nil
}

func (s *service) FetchCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	repo := NewRepository(s.db.DB())
	productRepo := products.NewRepository(s.db.DB())

	items, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cart")
	}

	out := &CartDTO{Items: make([]ItemDTO, 0, len(items)), Subtotal: decimal.Zero}
	for i := range items {
		product, err := productRepo.FindByID(ctx, items[i].ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cart product")
		}
		dto := itemDTO(&items[i], product)
		out.Items = append(out.Items, *dto)
		out.Subtotal = out.Subtotal.Add(dto.LineTotal)
	}
	return out, nil
}

func itemDTO(item *models.CartItem, product *models.Product) *ItemDTO {
	return &ItemDTO{
		ID:          item.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		ImgURL:      product.ImgURL,
		UnitPrice:   product.Price,
		Quantity:    item.Quantity,
		LineTotal:   product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		AddedAt:     item.CreatedAt,
	}
}
