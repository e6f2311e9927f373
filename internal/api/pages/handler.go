// Package pages serves the page-builder admin endpoints.
package pages

import (
	"errors"
	"net/http"

	"storefront-app/internal/api/listing"
	"storefront-app/internal/api/respond"
	"storefront-app/internal/binding"
	"storefront-app/internal/domain/catalog"
	"storefront-app/internal/domain/pages"
	"storefront-app/internal/render"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var pageFields = listing.Fields{
	Search: []string{"title", "slug"},
	Sort: map[string]string{
		"title":     "title",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	Filters: map[string]listing.Filter{
		"kind":      {Column: "kind"},
		"status":    {Column: "status"},
		"isDefault": {Column: "is_default", Bool: true},
	},
	DefaultSort: "updated_at desc",
}

type Handler struct {
	db     *gorm.DB
	log    *zap.Logger
	loader *render.Loader
}

func NewHandler(db *gorm.DB, log *zap.Logger, loader *render.Loader) *Handler {
	return &Handler{db: db, log: log.Named("pages"), loader: loader}
}

func (h *Handler) fail(c *gin.Context, err error, action string) {
	if errors.Is(err, pages.ErrInvalidLayout) || errors.Is(err, pages.ErrUnknownBlockType) {
		respond.BadRequest(c, err)
		return
	}
	respond.DB(c, h.log, err, "Page", action)
}

// ------------------------------
// GET /admin/pages
// ------------------------------
func (h *Handler) ListPages(c *gin.Context) {
	params, err := listing.Parse(c, pageFields)
	if err != nil {
		respond.BadRequest(c, err)
		return
	}
	// layouts can be large; the list omits them
	base := h.db.Model(&pages.Page{}).Omit("segments")
	res, err := listing.Find[pages.Page](base, pageFields, params, nil)
	if err != nil {
		respond.DB(c, h.log, err, "Page", "load pages")
		return
	}
	c.JSON(http.StatusOK, res)
}

// ------------------------------
// GET /admin/pages/:id
// ------------------------------
func (h *Handler) GetPage(c *gin.Context) {
	var p pages.Page
	if err := h.db.First(&p, "id = ?", c.Param("id")).Error; err != nil {
		respond.DB(c, h.log, err, "Page", "load page")
		return
	}
	c.JSON(http.StatusOK, p)
}

// ------------------------------
// POST /admin/pages
// ------------------------------
func (h *Handler) CreatePage(c *gin.Context) {
	var req PageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	p := pages.Page{}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := applyPageInput(tx, &p, req); err != nil {
			return err
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		return clearOtherDefaults(tx, p)
	})
	if err != nil {
		h.fail(c, err, "create page")
		return
	}
	h.log.Info("page created", zap.String("id", p.ID), zap.String("slug", p.Slug), zap.String("kind", p.Kind))
	c.JSON(http.StatusCreated, p)
}

// ------------------------------
// PUT /admin/pages/:id
// ------------------------------
func (h *Handler) UpdatePage(c *gin.Context) {
	var req PageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	var p pages.Page
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		if err := applyPageInput(tx, &p, req); err != nil {
			return err
		}
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		return clearOtherDefaults(tx, p)
	})
	if err != nil {
		h.fail(c, err, "update page")
		return
	}
	c.JSON(http.StatusOK, p)
}

// ------------------------------
// DELETE /admin/pages/:id
// ------------------------------
// Products and categories pointing at the page fall back to the default
// template.
func (h *Handler) DeletePage(c *gin.Context) {
	id := c.Param("id")

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var p pages.Page
		if err := tx.Select("id").First(&p, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&catalog.Product{}).Where("page_id = ?", id).Update("page_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&catalog.Category{}).Where("page_id = ?", id).Update("page_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		respond.DB(c, h.log, err, "Page", "delete page")
		return
	}
	c.Status(http.StatusNoContent)
}

// ------------------------------
// POST /admin/pages/:id/duplicate
// ------------------------------
func (h *Handler) DuplicatePage(c *gin.Context) {
	var cp pages.Page
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var src pages.Page
		if err := tx.First(&src, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		slug, err := catalog.UniqueSlug(tx, &pages.Page{}, src.Slug+"-copy", "")
		if err != nil {
			return err
		}
		cp = pages.Page{
			Title:          src.Title + " (Copy)",
			Slug:           slug,
			Description:    src.Description,
			SEOTitle:       src.SEOTitle,
			SEODescription: src.SEODescription,
			Kind:           src.Kind,
			Status:         pages.StatusDraft,
			Segments:       src.Segments,
		}
		return tx.Create(&cp).Error
	})
	if err != nil {
		respond.DB(c, h.log, err, "Page", "duplicate page")
		return
	}
	c.JSON(http.StatusCreated, cp)
}

// ------------------------------
// POST /admin/pages/:id/preview
// ------------------------------
func (h *Handler) PreviewPage(c *gin.Context) {
	var req PreviewRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, err)
			return
		}
	}

	var p pages.Page
	if err := h.db.First(&p, "id = ?", c.Param("id")).Error; err != nil {
		respond.DB(c, h.log, err, "Page", "load page")
		return
	}

	ctx, err := h.previewContext(c, req)
	if err != nil {
		respond.DB(c, h.log, err, "Preview record", "build preview")
		return
	}

	out := render.Bind(p, ctx, binding.Options{SkipMediaGallery: req.SkipMediaGallery})
	c.JSON(http.StatusOK, out)
}

func (h *Handler) previewContext(c *gin.Context, req PreviewRequest) (binding.Context, error) {
	ctx := binding.Context{}

	if req.CategoryID != nil && *req.CategoryID != "" {
		var cat catalog.Category
		if err := h.db.First(&cat, "id = ?", *req.CategoryID).Error; err != nil {
			return nil, err
		}
		var n int64
		if err := h.db.Model(&catalog.Product{}).
			Where("category_id = ? AND status = ?", cat.ID, catalog.StatusActive).
			Count(&n).Error; err != nil {
			return nil, err
		}
		cctx, err := render.CategoryContext(cat, n)
		if err != nil {
			return nil, err
		}
		ctx = cctx
	}

	if req.ProductID != nil && *req.ProductID != "" {
		prod, err := h.loader.Product(c.Request.Context(), *req.ProductID)
		if err != nil {
			return nil, err
		}
		pctx, err := render.ProductContext(prod)
		if err != nil {
			return nil, err
		}
		for src, rec := range pctx {
			// an explicit categoryId wins over the product's own category
			if _, set := ctx[src]; set && src == binding.SourceCategory {
				continue
			}
			ctx = ctx.With(src, rec)
		}
	}

	if req.Customer != nil {
		ctx = ctx.With(binding.SourceCustomer, binding.Record(req.Customer))
	}
	if req.Collection != nil {
		ctx = ctx.With(binding.SourceCollection, binding.Record(req.Collection))
	}
	return ctx, nil
}

func applyPageInput(tx *gorm.DB, p *pages.Page, req PageInput) error {
	segments := req.Segments
	if segments == nil {
		segments = []pages.Segment{}
	}
	if err := pages.ValidateLayout(segments); err != nil {
		return err
	}
	pages.SanitizeHTML(segments)

	slug := req.Slug
	if slug == "" {
		slug = p.Slug
	}
	if slug == "" {
		var err error
		if slug, err = catalog.UniqueSlug(tx, &pages.Page{}, req.Title, p.ID); err != nil {
			return err
		}
	}

	p.Title = req.Title
	p.Slug = slug
	p.Description = req.Description
	p.SEOTitle = req.SEOTitle
	p.SEODescription = req.SEODescription
	p.Kind = req.Kind
	if p.Kind == "" {
		p.Kind = pages.KindPage
	}
	p.Status = req.Status
	if p.Status == "" {
		p.Status = pages.StatusDraft
	}
	p.IsDefault = req.IsDefault && p.Kind != pages.KindPage
	p.Segments = segments
	return nil
}

// clearOtherDefaults keeps at most one default template per kind.
func clearOtherDefaults(tx *gorm.DB, p pages.Page) error {
	if !p.IsDefault {
		return nil
	}
	return tx.Model(&pages.Page{}).
		Where("kind = ? AND id <> ? AND is_default = ?", p.Kind, p.ID, true).
		Update("is_default", false).Error
}
