package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a seller listing. InStock is maintained alongside
// Quantity by every inventory-affecting write: InStock == (Quantity > 0).
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	VendorID    uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Category    *string         `gorm:"column:category;index"`
	SubCategory *string         `gorm:"column:sub_category"`
	ImgURL      *string         `gorm:"column:img_url"`
	Quantity    int             `gorm:"column:quantity;not null;default:0"`
	MinQuantity int             `gorm:"column:min_quantity;not null;default:0"`
	InStock     bool            `gorm:"column:in_stock;not null;default:false"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductImage stores one base64-encoded image. Position 0 is the canonical
// image mirrored onto Product.ImgURL.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	ImageData string    `gorm:"column:image_data;type:text;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (i *ProductImage) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
