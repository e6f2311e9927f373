// Package orders serves the admin order endpoints: creation with stock
// reservation, status changes and Stripe payment intents.
package orders

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront-app/internal/api/listing"
	"storefront-app/internal/api/respond"
	"storefront-app/internal/domain/catalog"
	"storefront-app/internal/domain/orders"
	"storefront-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var errUnavailable = errors.New("product is not available")

var orderFields = listing.Fields{
	Search: []string{"number", "customer_name", "customer_email"},
	Sort: map[string]string{
		"createdAt": "created_at",
		"total":     "total",
		"number":    "number",
	},
	Filters: map[string]listing.Filter{
		"status":        {Column: "status"},
		"paymentStatus": {Column: "payment_status"},
		"customerEmail": {Column: "customer_email"},
	},
	DefaultSort: "created_at desc",
}

type Handler struct {
	db       *gorm.DB
	log      *zap.Logger
	payments stripe.Payments
	currency string
	now      func() time.Time
}

// NewHandler wires the order endpoints. payments may be nil, in which case
// payment intents answer 503.
func NewHandler(db *gorm.DB, log *zap.Logger, payments stripe.Payments, currency string) *Handler {
	return &Handler{
		db:       db,
		log:      log.Named("orders"),
		payments: payments,
		currency: strings.ToLower(currency),
		now:      time.Now,
	}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items")
}

func (h *Handler) fail(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, catalog.ErrInsufficientStock):
		respond.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, orders.ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, errUnavailable), errors.Is(err, catalog.ErrVariantNotFound):
		respond.BadRequest(c, err)
	default:
		respond.DB(c, h.log, err, "Order", action)
	}
}

// ------------------------------
// GET /admin/orders
// ------------------------------
func (h *Handler) ListOrders(c *gin.Context) {
	params, err := listing.Parse(c, orderFields)
	if err != nil {
		respond.BadRequest(c, err)
		return
	}
	res, err := listing.Find[orders.Order](h.db.Model(&orders.Order{}), orderFields, params, withItems)
	if err != nil {
		respond.DB(c, h.log, err, "Order", "load orders")
		return
	}
	c.JSON(http.StatusOK, res)
}

// ------------------------------
// GET /admin/orders/:id
// ------------------------------
func (h *Handler) GetOrder(c *gin.Context) {
	var o orders.Order
	if err := withItems(h.db).First(&o, "id = ?", c.Param("id")).Error; err != nil {
		respond.DB(c, h.log, err, "Order", "load order")
		return
	}
	c.JSON(http.StatusOK, o)
}

// ------------------------------
// POST /admin/orders
// ------------------------------
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	now := h.now()
	o := orders.Order{
		Number:          orders.NewNumber(now),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		Status:          orders.StatusPending,
		PaymentStatus:   orders.PaymentUnpaid,
		Shipping:        catalog.RoundMoney(req.Shipping),
		Tax:             catalog.RoundMoney(req.Tax),
		Currency:        h.currency,
		Notes:           req.Notes,
		ShippingAddress: datatypes.NewJSONType(req.ShippingAddress),
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, in := range req.Items {
			item, err := reserveItem(tx, in)
			if err != nil {
				return err
			}
			o.Items = append(o.Items, item)
		}
		o.Totals()
		return tx.Create(&o).Error
	})
	if err != nil {
		h.fail(c, err, "create order")
		return
	}

	h.log.Info("order created",
		zap.String("number", o.Number),
		zap.Float64("total", o.Total),
		zap.Int("items", len(o.Items)),
	)
	c.JSON(http.StatusCreated, o)
}

// reserveItem prices one line from the catalog and takes it out of stock.
func reserveItem(tx *gorm.DB, in ItemInput) (orders.OrderItem, error) {
	var p catalog.Product
	err := tx.Preload("Variants").First(&p, "id = ?", in.ProductID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return orders.OrderItem{}, fmt.Errorf("%w: %s", errUnavailable, in.ProductID)
	}
	if err != nil {
		return orders.OrderItem{}, err
	}
	if p.Status != catalog.StatusActive {
		return orders.OrderItem{}, fmt.Errorf("%w: %s", errUnavailable, p.Name)
	}

	variantID := in.VariantID
	if variantID != nil && *variantID == "" {
		variantID = nil
	}
	if p.HasVariants && variantID == nil {
		return orders.OrderItem{}, fmt.Errorf("%w: %s needs a variant", catalog.ErrVariantNotFound, p.Name)
	}

	price, err := p.UnitPrice(variantID)
	if err != nil {
		return orders.OrderItem{}, err
	}
	if err := catalog.ApplyStockDelta(tx, p.ID, variantID, -in.Quantity); err != nil {
		if errors.Is(err, catalog.ErrInsufficientStock) {
			return orders.OrderItem{}, fmt.Errorf("%w: %s", err, p.Name)
		}
		return orders.OrderItem{}, err
	}

	item := orders.OrderItem{
		ProductID: p.ID,
		VariantID: variantID,
		Name:      p.Name,
		SKU:       p.SKU,
		UnitPrice: price,
		Quantity:  in.Quantity,
	}
	if variantID != nil {
		v := p.FindVariant(*variantID)
		item.Name = p.Name + " - " + v.Label()
		if v.SKU != "" {
			item.SKU = v.SKU
		}
	}
	return item, nil
}

// ------------------------------
// PUT /admin/orders/:id/status
// ------------------------------
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	h.advance(c, req.Status)
}

// ------------------------------
// POST /admin/orders/:id/cancel
// ------------------------------
func (h *Handler) CancelOrder(c *gin.Context) {
	h.advance(c, orders.StatusCancelled)
}

func (h *Handler) advance(c *gin.Context, to string) {
	var o orders.Order
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := withItems(tx).First(&o, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		return orders.Advance(tx, &o, to, h.now())
	})
	if err != nil {
		h.fail(c, err, "update order")
		return
	}
	h.log.Info("order status changed", zap.String("number", o.Number), zap.String("status", o.Status))
	c.JSON(http.StatusOK, o)
}

// ------------------------------
// POST /admin/orders/:id/payment-intent
// ------------------------------
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	if h.payments == nil {
		respond.Error(c, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	var o orders.Order
	if err := h.db.First(&o, "id = ?", c.Param("id")).Error; err != nil {
		respond.DB(c, h.log, err, "Order", "load order")
		return
	}
	if o.Status != orders.StatusPending || o.PaymentStatus != orders.PaymentUnpaid {
		respond.Error(c, http.StatusConflict, "Order is not awaiting payment")
		return
	}
	if o.AmountCents() <= 0 {
		respond.Error(c, http.StatusBadRequest, "Order total must be positive")
		return
	}

	intent, err := h.payments.CreatePaymentIntent(c.Request.Context(), stripe.IntentRequest{
		OrderID:     o.ID,
		OrderNumber: o.Number,
		AmountCents: o.AmountCents(),
		Currency:    o.Currency,
		Email:       o.CustomerEmail,
	})
	if err != nil {
		h.log.Error("payment intent failed", zap.String("order", o.Number), zap.Error(err))
		respond.Error(c, http.StatusBadGateway, "Failed to create payment intent")
		return
	}

	if err := h.db.Model(&o).Update("payment_intent_id", intent.ID).Error; err != nil {
		respond.DB(c, h.log, err, "Order", "store payment intent")
		return
	}

	c.JSON(http.StatusOK, PaymentIntentResponse{
		OrderID:         o.ID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          o.AmountCents(),
		Currency:        o.Currency,
	})
}
