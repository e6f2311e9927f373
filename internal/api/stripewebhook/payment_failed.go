package stripewebhooks

import (
	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

// handlePaymentFailed only records the failure. The order stays pending so
// the customer can retry with the same intent.
func handlePaymentFailed(log *zap.Logger, pi *stripe.PaymentIntent) {
	fields := []zap.Field{
		zap.String("intent", pi.ID),
		zap.String("order_id", pi.Metadata["order_id"]),
	}
	if pi.LastPaymentError != nil {
		fields = append(fields,
			zap.String("code", string(pi.LastPaymentError.Code)),
			zap.String("message", pi.LastPaymentError.Msg),
		)
	}
	log.Warn("payment failed", fields...)
}
