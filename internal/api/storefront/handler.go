// Package storefront serves the public read-only catalog and the rendered
// pages of the shop.
package storefront

import (
	"net/http"
	"sort"
	"strings"

	"storefront-app/internal/api/listing"
	"storefront-app/internal/api/respond"
	"storefront-app/internal/domain/catalog"
	"storefront-app/internal/render"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const attrPrefix = "attr."

var productFields = listing.Fields{
	Search: []string{"name", "description"},
	Sort: map[string]string{
		"name":      "name",
		"price":     "price",
		"createdAt": "created_at",
	},
	Filters: map[string]listing.Filter{
		"categoryId": {Column: "category_id"},
		"brandId":    {Column: "brand_id"},
		"featured":   {Column: "featured", Bool: true},
	},
	DefaultSort: "featured desc, created_at desc",
}

var categoryFields = listing.Fields{
	Search:      []string{"name"},
	Sort:        map[string]string{"name": "name", "sortIndex": "sort_index"},
	Filters:     map[string]listing.Filter{"parentId": {Column: "parent_id"}},
	DefaultSort: "sort_index asc, name asc",
}

var brandFields = listing.Fields{
	Search:      []string{"name"},
	Sort:        map[string]string{"name": "name"},
	DefaultSort: "name asc",
}

type Handler struct {
	db     *gorm.DB
	log    *zap.Logger
	loader *render.Loader
}

func NewHandler(db *gorm.DB, log *zap.Logger, loader *render.Loader) *Handler {
	return &Handler{db: db, log: log.Named("storefront"), loader: loader}
}

func withCatalogGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Brand").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_index ASC")
		}).
		Preload("AttributeValues", func(db *gorm.DB) *gorm.DB { return db.Order("sort_index ASC") })
}

// attributeFilters collects attr.<Name>=<v1>,<v2> query parameters.
func attributeFilters(c *gin.Context) map[string][]string {
	out := map[string][]string{}
	for key, vals := range c.Request.URL.Query() {
		if !strings.HasPrefix(key, attrPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(key, attrPrefix)))
		if name == "" {
			continue
		}
		for _, v := range vals {
			for _, part := range strings.Split(v, ",") {
				if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
					out[name] = append(out[name], part)
				}
			}
		}
	}
	return out
}

// withAttributes keeps products that have, for every named attribute, at
// least one of the listed values in their canonical attribute rows.
func withAttributes(db *gorm.DB, filters map[string][]string) *gorm.DB {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&catalog.AttributeValue{}).
			Select("product_id").
			Where("LOWER(name) = ? AND LOWER(value) IN ?", name, filters[name])
		db = db.Where("id IN (?)", sub)
	}
	return db
}

// ------------------------------
// GET /store/products
// ------------------------------
func (h *Handler) ListProducts(c *gin.Context) {
	params, err := listing.Parse(c, productFields)
	if err != nil {
		respond.BadRequest(c, err)
		return
	}

	base := h.db.Model(&catalog.Product{}).Where("status = ?", catalog.StatusActive)
	base = withAttributes(base, attributeFilters(c))

	res, err := listing.Find[catalog.Product](base, productFields, params, withCatalogGraph)
	if err != nil {
		respond.DB(c, h.log, err, "Product", "load products")
		return
	}
	c.JSON(http.StatusOK, res)
}

// ------------------------------
// GET /store/products/:slug
// ------------------------------
func (h *Handler) GetProduct(c *gin.Context) {
	view, err := h.loader.RenderProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respond.DB(c, h.log, err, "Product", "render product")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ------------------------------
// GET /store/categories
// ------------------------------
func (h *Handler) ListCategories(c *gin.Context) {
	params, err := listing.Parse(c, categoryFields)
	if err != nil {
		respond.BadRequest(c, err)
		return
	}
	base := h.db.Model(&catalog.Category{}).Where("active = ?", true)
	res, err := listing.Find[catalog.Category](base, categoryFields, params, nil)
	if err != nil {
		respond.DB(c, h.log, err, "Category", "load categories")
		return
	}
	c.JSON(http.StatusOK, res)
}

// ------------------------------
// GET /store/categories/:slug
// ------------------------------
func (h *Handler) GetCategory(c *gin.Context) {
	params, err := listing.Parse(c, listing.Fields{})
	if err != nil {
		respond.BadRequest(c, err)
		return
	}
	view, err := h.loader.RenderCategory(c.Request.Context(), c.Param("slug"), params.Offset(), params.Limit)
	if err != nil {
		respond.DB(c, h.log, err, "Category", "render category")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category":     view.Category,
		"page":         view.Page,
		"productCount": view.ProductCount,
		"products": listing.Result[catalog.Product]{
			Items:      view.Products,
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      view.ProductCount,
			TotalPages: int((view.ProductCount + int64(params.Limit) - 1) / int64(params.Limit)),
		},
	})
}

// ------------------------------
// GET /store/brands
// ------------------------------
func (h *Handler) ListBrands(c *gin.Context) {
	params, err := listing.Parse(c, brandFields)
	if err != nil {
		respond.BadRequest(c, err)
		return
	}
	base := h.db.Model(&catalog.Brand{}).Where("active = ?", true)
	res, err := listing.Find[catalog.Brand](base, brandFields, params, nil)
	if err != nil {
		respond.DB(c, h.log, err, "Brand", "load brands")
		return
	}
	c.JSON(http.StatusOK, res)
}

// ------------------------------
// GET /store/pages/:slug
// ------------------------------
func (h *Handler) GetPage(c *gin.Context) {
	p, err := h.loader.RenderPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respond.DB(c, h.log, err, "Page", "render page")
		return
	}
	c.JSON(http.StatusOK, p)
}
