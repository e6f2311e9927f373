package orders

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitions(t *testing.T) {
	o := &Order{Status: StatusPending, PaymentStatus: PaymentUnpaid}
	require.NoError(t, o.Transition(StatusPaid))
	assert.Equal(t, PaymentPaid, o.PaymentStatus)

	require.NoError(t, o.Transition(StatusProcessing))
	require.NoError(t, o.Transition(StatusShipped))
	assert.False(t, o.Restocks())
	assert.ErrorIs(t, o.Transition(StatusCancelled), ErrInvalidTransition)
	require.NoError(t, o.Transition(StatusDelivered))
	assert.ErrorIs(t, o.Transition(StatusPending), ErrInvalidTransition)
}

func TestRefundMarksPayment(t *testing.T) {
	o := &Order{Status: StatusPaid, PaymentStatus: PaymentPaid}
	require.NoError(t, o.Transition(StatusRefunded))
	assert.Equal(t, PaymentRefunded, o.PaymentStatus)
}

func TestTotals(t *testing.T) {
	o := &Order{
		Shipping: 4.99,
		Tax:      1.2,
		Items: []OrderItem{
			{UnitPrice: 10.1, Quantity: 3},
			{UnitPrice: 0.333, Quantity: 3},
		},
	}
	o.Totals()
	assert.Equal(t, 30.3, o.Items[0].LineTotal)
	assert.Equal(t, 1.0, o.Items[1].LineTotal)
	assert.Equal(t, 31.3, o.Subtotal)
	assert.Equal(t, 37.49, o.Total)
	assert.Equal(t, int64(3749), o.AmountCents())
}

func TestNewNumber(t *testing.T) {
	n := NewNumber(time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^ORD-20261019-[A-Z2-9]{6}$`), n)
	assert.NotEqual(t, n, NewNumber(time.Now()))
}

func TestIsStatus(t *testing.T) {
	assert.True(t, IsStatus(StatusShipped))
	assert.False(t, IsStatus("lost"))
}
