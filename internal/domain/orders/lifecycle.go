package orders

import (
	"errors"
	"time"

	"storefront-app/internal/domain/catalog"

	"gorm.io/gorm"
)

// Advance moves o to the given status inside tx and persists the change.
// Cancelling returns unshipped goods to stock.
func Advance(tx *gorm.DB, o *Order, to string, now time.Time) error {
	restock := to == StatusCancelled && o.Restocks()
	if err := o.Transition(to); err != nil {
		return err
	}

	switch to {
	case StatusPaid:
		o.PaidAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}

	if restock {
		for _, it := range o.Items {
			err := catalog.ApplyStockDelta(tx, it.ProductID, it.VariantID, it.Quantity)
			// the product may have been deleted since the sale
			if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, catalog.ErrVariantNotFound) {
				continue
			}
			if err != nil {
				return err
			}
		}
	}

	return tx.Model(o).
		Select("status", "payment_status", "paid_at", "cancelled_at").
		Updates(o).Error
}
