package orders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type Order struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	Number string `gorm:"not null;uniqueIndex" json:"number"`

	CustomerName    string                      `gorm:"not null" json:"customerName"`
	CustomerEmail   string                      `gorm:"not null;index" json:"customerEmail"`
	ShippingAddress datatypes.JSONType[Address] `json:"shippingAddress"`

	Status          string  `gorm:"not null;default:'pending';index" json:"status"`
	PaymentStatus   string  `gorm:"not null;default:'unpaid';index" json:"paymentStatus"`
	PaymentIntentID *string `gorm:"index" json:"paymentIntentId,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;" json:"items"`

	Subtotal float64 `gorm:"not null;default:0" json:"subtotal"`
	Shipping float64 `gorm:"not null;default:0" json:"shipping"`
	Tax      float64 `gorm:"not null;default:0" json:"tax"`
	Total    float64 `gorm:"not null;default:0" json:"total"`
	Currency string  `gorm:"not null;default:'usd'" json:"currency"`
	Notes    string  `json:"notes,omitempty"`

	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem snapshots what was sold; later catalog edits do not change it.
type OrderItem struct {
	ID        string  `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   string  `gorm:"type:uuid;not null;index" json:"orderId"`
	ProductID string  `gorm:"type:uuid;not null;index" json:"productId"`
	VariantID *string `gorm:"type:uuid" json:"variantId,omitempty"`
	Name      string  `gorm:"not null" json:"name"`
	SKU       string  `json:"sku,omitempty"`
	UnitPrice float64 `gorm:"not null" json:"unitPrice"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	LineTotal float64 `gorm:"not null" json:"lineTotal"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
