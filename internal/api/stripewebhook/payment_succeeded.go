package stripewebhooks

import (
	"errors"
	"fmt"

	"storefront-app/internal/domain/orders"
	payments "storefront-app/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// handlePaymentSucceeded marks the order of the intent paid. Redelivered
// events for orders already past pending are acknowledged without change.
func (h *Handler) handlePaymentSucceeded(log *zap.Logger, pi *stripe.PaymentIntent) error {
	if status, ok := payments.OrderPaymentStatus(pi.Status); !ok || status != orders.PaymentPaid {
		log.Info("intent not settled", zap.String("intent", pi.ID), zap.String("status", string(pi.Status)))
		return nil
	}

	return h.db.Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, pi)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("no order for payment intent", zap.String("intent", pi.ID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}
		log = log.With(zap.String("order", order.Number))

		if order.Status != orders.StatusPending {
			log.Info("order already settled", zap.String("status", order.Status))
			return nil
		}
		if pi.Amount != order.AmountCents() {
			log.Error("payment amount does not match order total",
				zap.Int64("paid", pi.Amount), zap.Int64("expected", order.AmountCents()))
			return nil
		}

		if order.PaymentIntentID == nil {
			id := pi.ID
			order.PaymentIntentID = &id
			if err := tx.Model(order).Update("payment_intent_id", id).Error; err != nil {
				return err
			}
		}
		if err := orders.Advance(tx, order, orders.StatusPaid, h.now()); err != nil {
			return err
		}
		log.Info("order paid")
		return nil
	})
}

// findOrder matches by stored intent id first, then by the order_id
// metadata set when the intent was created.
func findOrder(tx *gorm.DB, pi *stripe.PaymentIntent) (*orders.Order, error) {
	var order orders.Order
	err := tx.Preload("Items").Where("payment_intent_id = ?", pi.ID).First(&order).Error
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	orderID := pi.Metadata["order_id"]
	if orderID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
