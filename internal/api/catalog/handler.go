// Package catalog serves the admin CRUD endpoints for products,
// categories, brands and attribute definitions.
package catalog

import (
	"errors"
	"net/http"

	"storefront-app/internal/api/respond"
	"storefront-app/internal/domain/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db                *gorm.DB
	log               *zap.Logger
	lowStockThreshold int
}

func NewHandler(db *gorm.DB, log *zap.Logger, lowStockThreshold int) *Handler {
	return &Handler{db: db, log: log.Named("catalog"), lowStockThreshold: lowStockThreshold}
}

// fail answers domain and reference errors with 400/409 and falls back to
// the storage mapping.
func (h *Handler) fail(c *gin.Context, err error, entity, action string) {
	switch {
	case errors.Is(err, errReference),
		errors.Is(err, catalog.ErrAttributeValue),
		errors.Is(err, catalog.ErrCategoryCycle),
		errors.Is(err, catalog.ErrNegativePrice),
		errors.Is(err, catalog.ErrVariantNotFound):
		respond.BadRequest(c, err)
	case errors.Is(err, catalog.ErrInsufficientStock):
		respond.Error(c, http.StatusConflict, err.Error())
	default:
		respond.DB(c, h.log, err, entity, action)
	}
}
