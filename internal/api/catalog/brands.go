package catalog

import (
	"net/http"

	"storefront-app/internal/api/listing"
	"storefront-app/internal/api/respond"
	"storefront-app/internal/domain/catalog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) ListBrands(c *gin.Context) {
	params, err := listing.Parse(c, brandFields)
	if err != nil {
		respond.BadRequest(c, err)
		return
	}
	res, err := listing.Find[catalog.Brand](h.db.Model(&catalog.Brand{}), brandFields, params, nil)
	if err != nil {
		respond.DB(c, h.log, err, "Brand", "load brands")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetBrand(c *gin.Context) {
	var b catalog.Brand
	if err := h.db.First(&b, "id = ?", c.Param("id")).Error; err != nil {
		respond.DB(c, h.log, err, "Brand", "load brand")
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) CreateBrand(c *gin.Context) {
	var req BrandInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	b := catalog.Brand{}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := applyBrandInput(tx, &b, req); err != nil {
			return err
		}
		return tx.Create(&b).Error
	})
	if err != nil {
		h.fail(c, err, "Brand", "create brand")
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) UpdateBrand(c *gin.Context) {
	var req BrandInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	var b catalog.Brand
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		if err := applyBrandInput(tx, &b, req); err != nil {
			return err
		}
		return tx.Save(&b).Error
	})
	if err != nil {
		h.fail(c, err, "Brand", "update brand")
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBrand(c *gin.Context) {
	id := c.Param("id")

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var b catalog.Brand
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&catalog.Product{}).Where("brand_id = ?", id).Update("brand_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&b).Error
	})
	if err != nil {
		respond.DB(c, h.log, err, "Brand", "delete brand")
		return
	}
	c.Status(http.StatusNoContent)
}

func applyBrandInput(tx *gorm.DB, b *catalog.Brand, req BrandInput) error {
	slug := req.Slug
	if slug == "" {
		slug = b.Slug
	}
	slug, err := resolveSlug(tx, &catalog.Brand{}, slug, req.Name, b.ID)
	if err != nil {
		return err
	}

	b.Name = req.Name
	b.Slug = slug
	b.Description = req.Description
	b.LogoURL = req.LogoURL
	b.Website = req.Website
	b.Active = boolOr(req.Active, true)
	return nil
}
