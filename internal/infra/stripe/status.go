package stripe

import (
	"storefront-app/internal/domain/orders"

	"github.com/stripe/stripe-go/v75"
)

// OrderPaymentStatus maps a PaymentIntent status onto an order payment
// status. ok is false for intermediate states that do not change the order.
func OrderPaymentStatus(s stripe.PaymentIntentStatus) (string, bool) {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return orders.PaymentPaid, true
	case stripe.PaymentIntentStatusCanceled, stripe.PaymentIntentStatusRequiresPaymentMethod:
		return orders.PaymentUnpaid, true
	default:
		return "", false
	}
}
