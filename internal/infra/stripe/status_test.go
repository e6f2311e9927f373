package stripe

import (
	"testing"

	"storefront-app/internal/domain/orders"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v75"
)

func TestOrderPaymentStatus(t *testing.T) {
	s, ok := OrderPaymentStatus(stripe.PaymentIntentStatusSucceeded)
	assert.True(t, ok)
	assert.Equal(t, orders.PaymentPaid, s)

	s, ok = OrderPaymentStatus(stripe.PaymentIntentStatusCanceled)
	assert.True(t, ok)
	assert.Equal(t, orders.PaymentUnpaid, s)

	_, ok = OrderPaymentStatus(stripe.PaymentIntentStatusProcessing)
	assert.False(t, ok)
}

func TestNewClientDisabledWithoutKey(t *testing.T) {
	assert.Nil(t, NewClient(""))
	assert.NotNil(t, NewClient("sk_test_123"))
}
