package orders

import "storefront-app/internal/domain/orders"

type ItemInput struct {
	ProductID string  `json:"productId" binding:"required"`
	VariantID *string `json:"variantId"`
	Quantity  int     `json:"quantity" binding:"required,min=1,max=1000"`
}

type CreateOrderRequest struct {
	CustomerName    string         `json:"customerName" binding:"required,max=200"`
	CustomerEmail   string         `json:"customerEmail" binding:"required,email"`
	ShippingAddress orders.Address `json:"shippingAddress"`
	Items           []ItemInput    `json:"items" binding:"required,min=1,dive"`
	Shipping        float64        `json:"shipping" binding:"gte=0"`
	Tax             float64        `json:"tax" binding:"gte=0"`
	Notes           string         `json:"notes" binding:"max=2000"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid processing shipped delivered cancelled refunded"`
}

type PaymentIntentResponse struct {
	OrderID         string `json:"orderId"`
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}
