package catalog

import (
	"errors"
	"fmt"

	"storefront-app/internal/api/listing"
	"storefront-app/internal/domain/catalog"
	"storefront-app/internal/domain/pages"

	"gorm.io/gorm"
)

var errReference = errors.New("referenced record does not exist")

var productFields = listing.Fields{
	Search: []string{"name", "sku"},
	Sort: map[string]string{
		"name":      "name",
		"price":     "price",
		"stock":     "stock",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	Filters: map[string]listing.Filter{
		"status":      {Column: "status"},
		"categoryId":  {Column: "category_id"},
		"brandId":     {Column: "brand_id"},
		"featured":    {Column: "featured", Bool: true},
		"hasVariants": {Column: "has_variants", Bool: true},
	},
	DefaultSort: "created_at desc",
}

var categoryFields = listing.Fields{
	Search: []string{"name", "slug"},
	Sort: map[string]string{
		"name":      "name",
		"sortIndex": "sort_index",
		"createdAt": "created_at",
	},
	Filters: map[string]listing.Filter{
		"active":   {Column: "active", Bool: true},
		"parentId": {Column: "parent_id"},
	},
	DefaultSort: "sort_index asc, name asc",
}

var brandFields = listing.Fields{
	Search: []string{"name", "slug"},
	Sort: map[string]string{
		"name":      "name",
		"createdAt": "created_at",
	},
	Filters: map[string]listing.Filter{
		"active": {Column: "active", Bool: true},
	},
	DefaultSort: "name asc",
}

var attributeFields = listing.Fields{
	Search: []string{"name", "slug"},
	Sort: map[string]string{
		"name":      "name",
		"type":      "type",
		"createdAt": "created_at",
	},
	Filters: map[string]listing.Filter{
		"type":       {Column: "type"},
		"filterable": {Column: "filterable", Bool: true},
	},
	DefaultSort: "name asc",
}

// withProductGraph preloads everything a product response carries.
func withProductGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Brand").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("sort_index ASC") }).
		Preload("AttributeValues", func(db *gorm.DB) *gorm.DB { return db.Order("sort_index ASC") })
}

func loadProduct(db *gorm.DB, id string) (catalog.Product, error) {
	var p catalog.Product
	err := withProductGraph(db).First(&p, "id = ?", id).Error
	return p, err
}

func checkExists(tx *gorm.DB, model any, id *string, field string) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := tx.Model(model).Where("id = ?", *id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", errReference, field)
	}
	return nil
}

// checkPage verifies a page reference and that the page is a template of
// the expected kind.
func checkPage(tx *gorm.DB, id *string, kind string) error {
	if id == nil {
		return nil
	}
	var p pages.Page
	err := tx.Select("id", "kind").First(&p, "id = ?", *id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: pageId", errReference)
	}
	if err != nil {
		return err
	}
	if p.Kind != kind {
		return fmt.Errorf("%w: pageId must reference a %s page", errReference, kind)
	}
	return nil
}

// resolveSlug returns the requested slug verbatim, or derives a free one
// from name. An explicit slug that is taken fails on the unique index.
func resolveSlug(tx *gorm.DB, model any, requested, name, excludeID string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	return catalog.UniqueSlug(tx, model, name, excludeID)
}
