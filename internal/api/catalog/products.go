package catalog

import (
	"net/http"
	"strconv"

	"storefront-app/internal/api/listing"
	"storefront-app/internal/api/respond"
	"storefront-app/internal/domain/catalog"
	"storefront-app/internal/domain/pages"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ------------------------------
// GET /admin/products
// ------------------------------
func (h *Handler) ListProducts(c *gin.Context) {
	params, err := listing.Parse(c, productFields)
	if err != nil {
		respond.BadRequest(c, err)
		return
	}

	res, err := listing.Find[catalog.Product](h.db.Model(&catalog.Product{}), productFields, params, withProductGraph)
	if err != nil {
		respond.DB(c, h.log, err, "Product", "load products")
		return
	}
	c.JSON(http.StatusOK, res)
}

// ------------------------------
// GET /admin/products/:id
// ------------------------------
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := loadProduct(h.db, c.Param("id"))
	if err != nil {
		respond.DB(c, h.log, err, "Product", "load product")
		return
	}
	c.JSON(http.StatusOK, p)
}

// ------------------------------
// POST /admin/products
// ------------------------------
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	var id string
	err := h.db.Transaction(func(tx *gorm.DB) error {
		p := catalog.Product{Status: catalog.StatusDraft}
		if err := applyProductInput(tx, &p, req); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&p).Error; err != nil {
			return err
		}
		id = p.ID
		return saveProductChildren(tx, &p, req)
	})
	if err != nil {
		h.fail(c, err, "Product", "create product")
		return
	}

	p, err := loadProduct(h.db, id)
	if err != nil {
		respond.DB(c, h.log, err, "Product", "load product")
		return
	}
	h.log.Info("product created", zap.String("id", p.ID), zap.String("slug", p.Slug))
	c.JSON(http.StatusCreated, p)
}

// ------------------------------
// PUT /admin/products/:id
// ------------------------------
func (h *Handler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var req ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var p catalog.Product
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return err
		}
		if err := applyProductInput(tx, &p, req); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&p).Error; err != nil {
			return err
		}
		return saveProductChildren(tx, &p, req)
	})
	if err != nil {
		h.fail(c, err, "Product", "update product")
		return
	}

	p, err := loadProduct(h.db, id)
	if err != nil {
		respond.DB(c, h.log, err, "Product", "load product")
		return
	}
	c.JSON(http.StatusOK, p)
}

// ------------------------------
// DELETE /admin/products/:id
// ------------------------------
func (h *Handler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var p catalog.Product
		if err := tx.Select("id").First(&p, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&catalog.AttributeValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&catalog.Variant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		respond.DB(c, h.log, err, "Product", "delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

// applyProductInput copies the request onto p. PUT replaces every field.
func applyProductInput(tx *gorm.DB, p *catalog.Product, req ProductInput) error {
	categoryID, brandID, pageID := blank(req.CategoryID), blank(req.BrandID), blank(req.PageID)
	if err := checkExists(tx, &catalog.Category{}, categoryID, "categoryId"); err != nil {
		return err
	}
	if err := checkExists(tx, &catalog.Brand{}, brandID, "brandId"); err != nil {
		return err
	}
	if err := checkPage(tx, pageID, pages.KindProduct); err != nil {
		return err
	}

	slug := req.Slug
	if slug == "" && p.Slug != "" {
		slug = p.Slug
	}
	slug, err := resolveSlug(tx, &catalog.Product{}, slug, req.Name, p.ID)
	if err != nil {
		return err
	}

	p.Name = req.Name
	p.Slug = slug
	p.Description = req.Description
	p.SKU = req.SKU
	p.Price = catalog.RoundMoney(req.Price)
	p.CompareAtPrice = req.CompareAtPrice
	p.Stock = req.Stock
	if req.Status != "" {
		p.Status = req.Status
	}
	p.Featured = req.Featured
	p.Images = append([]string{}, req.Images...)
	p.CategoryID = categoryID
	p.BrandID = brandID
	p.PageID = pageID
	p.SEOTitle = req.SEOTitle
	p.SEODescription = req.SEODescription
	p.HasVariants = req.HasVariants || len(req.Variants) > 0
	return nil
}

// saveProductChildren replaces the variants and the canonical attribute
// rows of p.
func saveProductChildren(tx *gorm.DB, p *catalog.Product, req ProductInput) error {
	variants, err := syncVariants(tx, p.ID, req.Variants)
	if err != nil {
		return err
	}
	return catalog.SaveAttributeValues(tx, p.ID, req.Attributes, variants)
}

// syncVariants updates variants whose id is known, creates the rest and
// deletes the ones no longer listed.
func syncVariants(tx *gorm.DB, productID string, in []VariantInput) ([]catalog.Variant, error) {
	var existing []catalog.Variant
	if err := tx.Where("product_id = ?", productID).Find(&existing).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]catalog.Variant, len(existing))
	for _, v := range existing {
		byID[v.ID] = v
	}

	out := make([]catalog.Variant, 0, len(in))
	keep := make([]string, 0, len(in))
	for i, vin := range in {
		v := catalog.Variant{ProductID: productID}
		if vin.ID != nil {
			if ev, ok := byID[*vin.ID]; ok {
				v = ev
			}
		}
		v.SKU = vin.SKU
		v.Price = catalog.RoundMoney(vin.Price)
		v.Stock = vin.Stock
		v.IsActive = boolOr(vin.IsActive, true)
		v.SortIndex = i
		v.Options = append([]catalog.Option{}, vin.Options...)
		v.Images = append([]string{}, vin.Images...)

		var err error
		if v.ID == "" {
			err = tx.Create(&v).Error
		} else {
			err = tx.Save(&v).Error
		}
		if err != nil {
			return nil, err
		}
		keep = append(keep, v.ID)
		out = append(out, v)
	}

	del := tx.Where("product_id = ?", productID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(&catalog.Variant{}).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ------------------------------
// PATCH /admin/products/:id/stock
// ------------------------------
func (h *Handler) UpdateStock(c *gin.Context) {
	id := c.Param("id")

	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	if (req.Quantity == nil) == (req.Delta == nil) {
		respond.Error(c, http.StatusBadRequest, "exactly one of quantity or delta is required")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var p catalog.Product
		if err := tx.Select("id", "has_variants").First(&p, "id = ?", id).Error; err != nil {
			return err
		}
		variantID := blank(req.VariantID)
		if p.HasVariants && variantID == nil {
			return catalog.ErrVariantNotFound
		}
		if req.Quantity != nil {
			return catalog.SetStock(tx, id, variantID, *req.Quantity)
		}
		return catalog.ApplyStockDelta(tx, id, variantID, *req.Delta)
	})
	if err != nil {
		h.fail(c, err, "Product", "update stock")
		return
	}

	p, err := loadProduct(h.db, id)
	if err != nil {
		respond.DB(c, h.log, err, "Product", "load product")
		return
	}
	c.JSON(http.StatusOK, p)
}

// ------------------------------
// PATCH /admin/products/:id/pricing
// ------------------------------
func (h *Handler) UpdatePricing(c *gin.Context) {
	id := c.Param("id")

	var req PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var p catalog.Product
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return err
		}

		updates := map[string]any{}
		if req.Price != nil {
			updates["price"] = catalog.RoundMoney(*req.Price)
		}
		if req.CompareAtPrice != nil {
			updates["compare_at_price"] = catalog.RoundMoney(*req.CompareAtPrice)
		}
		if len(updates) > 0 {
			if err := tx.Model(&p).Updates(updates).Error; err != nil {
				return err
			}
		}

		for _, vp := range req.Variants {
			res := tx.Model(&catalog.Variant{}).
				Where("id = ? AND product_id = ?", vp.ID, id).
				Update("price", catalog.RoundMoney(vp.Price))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return catalog.ErrVariantNotFound
			}
		}
		return nil
	})
	if err != nil {
		h.fail(c, err, "Product", "update pricing")
		return
	}

	p, err := loadProduct(h.db, id)
	if err != nil {
		respond.DB(c, h.log, err, "Product", "load product")
		return
	}
	c.JSON(http.StatusOK, p)
}

// ------------------------------
// GET /admin/products/low-stock
// ------------------------------
func (h *Handler) LowStock(c *gin.Context) {
	threshold := h.lowStockThreshold
	if v := c.Query("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond.Error(c, http.StatusBadRequest, "threshold must be a non-negative integer")
			return
		}
		threshold = n
	}

	items, err := catalog.LowStock(h.db, threshold)
	if err != nil {
		respond.DB(c, h.log, err, "Product", "load low stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"threshold": threshold, "items": items})
}
