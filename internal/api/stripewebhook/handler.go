// Package stripewebhooks receives Stripe events for order payments.
package stripewebhooks

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"storefront-app/internal/api/respond"
	payments "storefront-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxBodyBytes = 65536

type Handler struct {
	db     *gorm.DB
	log    *zap.Logger
	secret string
	now    func() time.Time
}

func NewHandler(db *gorm.DB, log *zap.Logger, webhookSecret string) *Handler {
	return &Handler{db: db, log: log.Named("stripe-webhook"), secret: webhookSecret, now: time.Now}
}

// ------------------------------
// POST /webhooks/stripe
// ------------------------------
func (h *Handler) StripeWebhook(c *gin.Context) {
	if h.secret == "" {
		respond.Error(c, http.StatusServiceUnavailable, "STRIPE_WEBHOOK_SECRET not configured")
		return
	}

	payload, err := readBody(c, maxBodyBytes)
	if err != nil {
		respond.Error(c, http.StatusServiceUnavailable, "Error reading request body")
		return
	}

	event, err := payments.ParseEvent(payload, c.GetHeader("Stripe-Signature"), h.secret)
	if err != nil {
		h.log.Warn("signature verification failed", zap.Error(err))
		respond.Error(c, http.StatusBadRequest, "Signature verification failed")
		return
	}
	log := h.log.With(zap.String("event", event.ID), zap.String("type", string(event.Type)))

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			respond.Error(c, http.StatusBadRequest, "Failed to parse payment intent")
			return
		}
		if err := h.handlePaymentSucceeded(log, &pi); err != nil {
			// retryable: Stripe redelivers on non-2xx
			log.Error("failed to apply payment", zap.Error(err))
			respond.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			respond.Error(c, http.StatusBadRequest, "Failed to parse payment intent")
			return
		}
		handlePaymentFailed(log, &pi)
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	default:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

func readBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
