package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}

// UpdateItemRequest nudges a cart row by one in either direction.
type UpdateItemRequest struct {
	Action string `json:"action" validate:"required,oneof=increase decrease"`
}

// ItemDTO is one cart row joined with its product's live listing data.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImgURL      *string         `json:"img_url,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	AddedAt     time.Time       `json:"added_at"`
}

// CartDTO is the whole cart plus its decimal subtotal.
type CartDTO struct {
	Items    []ItemDTO       `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
