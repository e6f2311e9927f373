package catalog

import (
	"net/http"

	"storefront-app/internal/api/listing"
	"storefront-app/internal/api/respond"
	"storefront-app/internal/domain/catalog"
	"storefront-app/internal/domain/pages"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) ListCategories(c *gin.Context) {
	params, err := listing.Parse(c, categoryFields)
	if err != nil {
		respond.BadRequest(c, err)
		return
	}
	res, err := listing.Find[catalog.Category](h.db.Model(&catalog.Category{}), categoryFields, params, nil)
	if err != nil {
		respond.DB(c, h.log, err, "Category", "load categories")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetCategory(c *gin.Context) {
	var cat catalog.Category
	if err := h.db.First(&cat, "id = ?", c.Param("id")).Error; err != nil {
		respond.DB(c, h.log, err, "Category", "load category")
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	cat := catalog.Category{}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := applyCategoryInput(tx, &cat, req); err != nil {
			return err
		}
		return tx.Create(&cat).Error
	})
	if err != nil {
		h.fail(c, err, "Category", "create category")
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	var req CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	var cat catalog.Category
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cat, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		if err := applyCategoryInput(tx, &cat, req); err != nil {
			return err
		}
		return tx.Save(&cat).Error
	})
	if err != nil {
		h.fail(c, err, "Category", "update category")
		return
	}
	c.JSON(http.StatusOK, cat)
}

// DeleteCategory detaches children and products before deleting.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var cat catalog.Category
		if err := tx.First(&cat, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&catalog.Category{}).Where("parent_id = ?", id).Update("parent_id", cat.ParentID).Error; err != nil {
			return err
		}
		if err := tx.Model(&catalog.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&cat).Error
	})
	if err != nil {
		respond.DB(c, h.log, err, "Category", "delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

func applyCategoryInput(tx *gorm.DB, cat *catalog.Category, req CategoryInput) error {
	parentID, pageID := blank(req.ParentID), blank(req.PageID)
	if parentID != nil {
		if err := checkExists(tx, &catalog.Category{}, parentID, "parentId"); err != nil {
			return err
		}
		if err := catalog.CheckParent(tx, cat.ID, parentID); err != nil {
			return err
		}
	}
	if err := checkPage(tx, pageID, pages.KindCategory); err != nil {
		return err
	}

	slug := req.Slug
	if slug == "" {
		slug = cat.Slug
	}
	slug, err := resolveSlug(tx, &catalog.Category{}, slug, req.Name, cat.ID)
	if err != nil {
		return err
	}

	cat.Name = req.Name
	cat.Slug = slug
	cat.Description = req.Description
	cat.ParentID = parentID
	cat.ImageURL = req.ImageURL
	cat.SortIndex = req.SortIndex
	cat.Active = boolOr(req.Active, true)
	cat.PageID = pageID
	return nil
}
