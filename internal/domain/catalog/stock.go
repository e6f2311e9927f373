package catalog

import (
	"errors"

	"gorm.io/gorm"
)

// ApplyStockDelta adds delta to the stock of a product, or of one of its
// variants when variantID is set. The update is a single conditional
// statement, so concurrent orders cannot drive stock below zero.
func ApplyStockDelta(tx *gorm.DB, productID string, variantID *string, delta int) error {
	var (
		model any
		q     *gorm.DB
	)
	if variantID != nil && *variantID != "" {
		model = &Variant{}
		q = tx.Model(model).Where("id = ? AND product_id = ?", *variantID, productID)
	} else {
		model = &Product{}
		q = tx.Model(model).Where("id = ?", productID)
	}

	res := q.Session(&gorm.Session{}).
		Where("stock + ? >= 0", delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := q.Session(&gorm.Session{}).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		if _, ok := model.(*Variant); ok {
			return ErrVariantNotFound
		}
		return gorm.ErrRecordNotFound
	}
	return ErrInsufficientStock
}

// SetStock overwrites the stock level.
func SetStock(tx *gorm.DB, productID string, variantID *string, quantity int) error {
	if quantity < 0 {
		return ErrInsufficientStock
	}
	var res *gorm.DB
	if variantID != nil && *variantID != "" {
		res = tx.Model(&Variant{}).Where("id = ? AND product_id = ?", *variantID, productID).Update("stock", quantity)
		if res.Error == nil && res.RowsAffected == 0 {
			return ErrVariantNotFound
		}
	} else {
		res = tx.Model(&Product{}).Where("id = ?", productID).Update("stock", quantity)
		if res.Error == nil && res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return res.Error
}

// IsStockError reports errors caused by the request rather than storage.
func IsStockError(err error) bool {
	return errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrVariantNotFound)
}

type LowStockItem struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductSlug  string  `json:"productSlug"`
	VariantID    *string `json:"variantId,omitempty"`
	VariantLabel string  `json:"variantLabel,omitempty"`
	SKU          string  `json:"sku,omitempty"`
	Stock        int     `json:"stock"`
}

// LowStock lists simple products and active variants at or below threshold,
// skipping archived products.
func LowStock(db *gorm.DB, threshold int) ([]LowStockItem, error) {
	var simple []Product
	if err := db.
		Where("has_variants = ? AND status <> ? AND stock <= ?", false, StatusArchived, threshold).
		Order("stock ASC, name ASC").
		Find(&simple).Error; err != nil {
		return nil, err
	}

	var withVariants []Product
	if err := db.
		Where("has_variants = ? AND status <> ?", true, StatusArchived).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ? AND stock <= ?", true, threshold).Order("stock ASC, sort_index ASC")
		}).
		Order("name ASC").
		Find(&withVariants).Error; err != nil {
		return nil, err
	}

	items := make([]LowStockItem, 0, len(simple))
	for _, p := range simple {
		items = append(items, LowStockItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			ProductSlug: p.Slug,
			SKU:         p.SKU,
			Stock:       p.Stock,
		})
	}
	for _, p := range withVariants {
		for _, v := range p.Variants {
			vid := v.ID
			items = append(items, LowStockItem{
				ProductID:    p.ID,
				ProductName:  p.Name,
				ProductSlug:  p.Slug,
				VariantID:    &vid,
				VariantLabel: v.Label(),
				SKU:          v.SKU,
				Stock:        v.Stock,
			})
		}
	}
	return items, nil
}
