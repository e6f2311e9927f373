package orders

import (
	"errors"
	"fmt"
	"math"
)

const (
	StatusPending    = "pending"
	StatusPaid       = "paid"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"

	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

var transitions = map[string][]string{
	StatusPending:    {StatusPaid, StatusCancelled},
	StatusPaid:       {StatusProcessing, StatusRefunded, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func IsStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves o to the given status, keeping payment status in step.
func (o *Order) Transition(to string) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	switch to {
	case StatusPaid:
		o.PaymentStatus = PaymentPaid
	case StatusRefunded:
		o.PaymentStatus = PaymentRefunded
	}
	return nil
}

// Restocks reports whether cancelling from the current status returns the
// goods to inventory. Shipped goods are out of the warehouse.
func (o *Order) Restocks() bool {
	return o.Status == StatusPending || o.Status == StatusPaid || o.Status == StatusProcessing
}

// Totals recomputes line totals, subtotal and total from the items.
func (o *Order) Totals() {
	subtotal := 0.0
	for i := range o.Items {
		o.Items[i].LineTotal = round(o.Items[i].UnitPrice * float64(o.Items[i].Quantity))
		subtotal += o.Items[i].LineTotal
	}
	o.Subtotal = round(subtotal)
	o.Total = round(o.Subtotal + o.Shipping + o.Tax)
}

// AmountCents is the total in the smallest currency unit.
func (o *Order) AmountCents() int64 {
	return int64(math.Round(o.Total * 100))
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
