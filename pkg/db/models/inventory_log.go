package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/enums"
)

// InventoryLog records one stock movement. Checkout writes sale entries,
// product creation writes restock entries, admin edits write adjustments.
type InventoryLog struct {
	ID               uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	ProductID        uuid.UUID                 `gorm:"column:product_id;type:uuid;not null;index"`
	ChangeType       enums.InventoryChangeType `gorm:"column:change_type;type:text;not null"`
	QuantityChange   int                       `gorm:"column:quantity_change;not null"`
	PreviousQuantity int                       `gorm:"column:previous_quantity;not null"`
	NewQuantity      int                       `gorm:"column:new_quantity;not null"`
	Notes            *string                   `gorm:"column:notes"`
	CreatedBy        *uuid.UUID                `gorm:"column:created_by;type:uuid"`
	CreatedAt        time.Time                 `gorm:"column:created_at;autoCreateTime"`
}

func (l *InventoryLog) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
