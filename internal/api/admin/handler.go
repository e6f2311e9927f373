// Package admin serves the back-office dashboard and user management.
package admin

import (
	"net/http"
	"time"

	"storefront-app/internal/api/respond"
	"storefront-app/internal/domain/catalog"
	"storefront-app/internal/domain/orders"
	"storefront-app/internal/domain/pages"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const lowStockPreview = 10

type Handler struct {
	db                *gorm.DB
	log               *zap.Logger
	lowStockThreshold int
	now               func() time.Time
}

func NewHandler(db *gorm.DB, log *zap.Logger, lowStockThreshold int) *Handler {
	return &Handler{db: db, log: log.Named("admin"), lowStockThreshold: lowStockThreshold, now: time.Now}
}

type Counts struct {
	Products   int64 `json:"products"`
	Active     int64 `json:"activeProducts"`
	Categories int64 `json:"categories"`
	Brands     int64 `json:"brands"`
	Pages      int64 `json:"pages"`
	Orders     int64 `json:"orders"`
}

type Revenue struct {
	Total  float64 `json:"total"`
	Recent float64 `json:"last30Days"`
}

type Stats struct {
	Counts         Counts                 `json:"counts"`
	OrdersByStatus map[string]int64       `json:"ordersByStatus"`
	LowStockCount  int                    `json:"lowStockCount"`
	LowStock       []catalog.LowStockItem `json:"lowStock"`
	Revenue        Revenue                `json:"revenue"`
}

// ------------------------------
// GET /admin/dashboard
// ------------------------------
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.stats()
	if err != nil {
		respond.DB(c, h.log, err, "Dashboard", "load dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) stats() (Stats, error) {
	var s Stats
	counts := []struct {
		dst   *int64
		model any
		where []any
	}{
		{&s.Counts.Products, &catalog.Product{}, nil},
		{&s.Counts.Active, &catalog.Product{}, []any{"status = ?", catalog.StatusActive}},
		{&s.Counts.Categories, &catalog.Category{}, nil},
		{&s.Counts.Brands, &catalog.Brand{}, nil},
		{&s.Counts.Pages, &pages.Page{}, nil},
		{&s.Counts.Orders, &orders.Order{}, nil},
	}
	for _, q := range counts {
		tx := h.db.Model(q.model)
		if len(q.where) > 0 {
			tx = tx.Where(q.where[0], q.where[1:]...)
		}
		if err := tx.Count(q.dst).Error; err != nil {
			return s, err
		}
	}

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := h.db.Model(&orders.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return s, err
	}
	s.OrdersByStatus = map[string]int64{}
	for _, row := range byStatus {
		s.OrdersByStatus[row.Status] = row.Count
	}

	if err := h.db.Model(&orders.Order{}).
		Where("payment_status = ?", orders.PaymentPaid).
		Select("COALESCE(SUM(total), 0)").
		Scan(&s.Revenue.Total).Error; err != nil {
		return s, err
	}
	since := h.now().AddDate(0, 0, -30)
	if err := h.db.Model(&orders.Order{}).
		Where("payment_status = ? AND paid_at >= ?", orders.PaymentPaid, since).
		Select("COALESCE(SUM(total), 0)").
		Scan(&s.Revenue.Recent).Error; err != nil {
		return s, err
	}
	s.Revenue.Total = catalog.RoundMoney(s.Revenue.Total)
	s.Revenue.Recent = catalog.RoundMoney(s.Revenue.Recent)

	low, err := catalog.LowStock(h.db, h.lowStockThreshold)
	if err != nil {
		return s, err
	}
	s.LowStockCount = len(low)
	if len(low) > lowStockPreview {
		low = low[:lowStockPreview]
	}
	s.LowStock = low
	return s, nil
}
