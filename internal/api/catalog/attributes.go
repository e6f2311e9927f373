package catalog

import (
	"net/http"
	"strings"

	"storefront-app/internal/api/listing"
	"storefront-app/internal/api/respond"
	"storefront-app/internal/domain/catalog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) ListAttributes(c *gin.Context) {
	params, err := listing.Parse(c, attributeFields)
	if err != nil {
		respond.BadRequest(c, err)
		return
	}
	res, err := listing.Find[catalog.AttributeDefinition](h.db.Model(&catalog.AttributeDefinition{}), attributeFields, params, nil)
	if err != nil {
		respond.DB(c, h.log, err, "Attribute", "load attributes")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetAttribute(c *gin.Context) {
	var a catalog.AttributeDefinition
	if err := h.db.First(&a, "id = ?", c.Param("id")).Error; err != nil {
		respond.DB(c, h.log, err, "Attribute", "load attribute")
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) CreateAttribute(c *gin.Context) {
	var req AttributeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	a := catalog.AttributeDefinition{}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := applyAttributeInput(tx, &a, req); err != nil {
			return err
		}
		return tx.Create(&a).Error
	})
	if err != nil {
		h.fail(c, err, "Attribute", "create attribute")
		return
	}
	c.JSON(http.StatusCreated, a)
}

// UpdateAttribute also renames the attribute on every product that carries it.
func (h *Handler) UpdateAttribute(c *gin.Context) {
	var req AttributeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	var a catalog.AttributeDefinition
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&a, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		oldName := a.Name
		if err := applyAttributeInput(tx, &a, req); err != nil {
			return err
		}
		if err := tx.Save(&a).Error; err != nil {
			return err
		}
		if oldName == a.Name {
			return nil
		}
		return tx.Model(&catalog.AttributeValue{}).
			Where("LOWER(name) = ?", strings.ToLower(oldName)).
			Update("name", a.Name).Error
	})
	if err != nil {
		h.fail(c, err, "Attribute", "update attribute")
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeleteAttribute removes the definition only; values already on products
// stay as free-form attributes.
func (h *Handler) DeleteAttribute(c *gin.Context) {
	res := h.db.Delete(&catalog.AttributeDefinition{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		respond.DB(c, h.log, res.Error, "Attribute", "delete attribute")
		return
	}
	if res.RowsAffected == 0 {
		respond.Error(c, http.StatusNotFound, "Attribute not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func applyAttributeInput(tx *gorm.DB, a *catalog.AttributeDefinition, req AttributeInput) error {
	slug := req.Slug
	if slug == "" {
		slug = a.Slug
	}
	slug, err := resolveSlug(tx, &catalog.AttributeDefinition{}, slug, req.Name, a.ID)
	if err != nil {
		return err
	}

	values := make([]string, 0, len(req.Values))
	seen := map[string]bool{}
	for _, v := range req.Values {
		v = strings.TrimSpace(v)
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		values = append(values, v)
	}

	a.Name = strings.TrimSpace(req.Name)
	a.Slug = slug
	a.Type = req.Type
	if a.Type == "" {
		a.Type = catalog.AttributeSelect
	}
	a.Values = values
	a.Filterable = req.Filterable
	return nil
}
