package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
)

// decrementStock atomically takes quantity off a product with a conditional
// UPDATE. It reports false when the product no longer has enough stock, which
// is the race-safe signal under concurrent checkouts: only one of two
// competing transactions can win the last units.
func decrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity int) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	// Keep the in_stock flag in step with the new quantity.
	err := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity <= 0", productID).
		UpdateColumn("in_stock", false).Error
	if err != nil {
		return false, err
	}
	return true, nil
}
