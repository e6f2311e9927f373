// Package stripe wraps the parts of the Stripe API the order flow uses.
package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
	"github.com/stripe/stripe-go/v75/webhook"
)

type IntentRequest struct {
	OrderID     string
	OrderNumber string
	AmountCents int64
	Currency    string
	Email       string
}

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Status       string `json:"status"`
}

// Payments is what the order handlers need from a payment provider.
type Payments interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (Intent, error)
}

type Client struct {
	api *client.API
}

// NewClient returns nil when no secret key is configured.
func NewClient(secretKey string) *Client {
	if secretKey == "" {
		return nil
	}
	return &Client{api: client.New(secretKey, nil)}
}

func (c *Client) CreatePaymentIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(req.AmountCents),
		Currency:     stripe.String(req.Currency),
		Description:  stripe.String("Order " + req.OrderNumber),
		ReceiptEmail: stripe.String(req.Email),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", req.OrderID)
	params.AddMetadata("order_number", req.OrderNumber)
	// one intent per order and amount
	params.SetIdempotencyKey(fmt.Sprintf("order-%s-%d", req.OrderID, req.AmountCents))

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("create payment intent: %w", err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}

// ParseEvent verifies the Stripe-Signature header and decodes the event.
func ParseEvent(payload []byte, signature, secret string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, signature, secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
}
