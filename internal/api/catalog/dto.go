package catalog

import "storefront-app/internal/domain/catalog"

// ---------- products

type VariantInput struct {
	ID       *string          `json:"id"`
	SKU      string           `json:"sku" binding:"max=64"`
	Price    float64          `json:"price" binding:"gte=0"`
	Stock    int              `json:"stock" binding:"gte=0"`
	IsActive *bool            `json:"isActive"`
	Options  []catalog.Option `json:"options" binding:"dive"`
	Images   []string         `json:"images"`
}

type ProductInput struct {
	Name           string   `json:"name" binding:"required,max=200"`
	Slug           string   `json:"slug" binding:"omitempty,slug"`
	Description    string   `json:"description"`
	SKU            string   `json:"sku" binding:"max=64"`
	Price          float64  `json:"price" binding:"gte=0"`
	CompareAtPrice *float64 `json:"compareAtPrice" binding:"omitempty,gte=0"`
	Stock          int      `json:"stock" binding:"gte=0"`
	Status         string   `json:"status" binding:"omitempty,oneof=draft active archived"`
	Featured       bool     `json:"featured"`
	Images         []string `json:"images"`

	CategoryID *string `json:"categoryId"`
	BrandID    *string `json:"brandId"`
	PageID     *string `json:"pageId"`

	SEOTitle       string `json:"seoTitle" binding:"max=200"`
	SEODescription string `json:"seoDescription" binding:"max=500"`

	HasVariants bool                     `json:"hasVariants"`
	Variants    []VariantInput           `json:"variants" binding:"dive"`
	Attributes  []catalog.AttributeGroup `json:"attributes" binding:"dive"`
}

// StockRequest either sets the stock to Quantity or moves it by Delta.
type StockRequest struct {
	VariantID *string `json:"variantId"`
	Quantity  *int    `json:"quantity" binding:"omitempty,gte=0"`
	Delta     *int    `json:"delta"`
}

type VariantPrice struct {
	ID    string  `json:"id" binding:"required"`
	Price float64 `json:"price" binding:"gte=0"`
}

type PricingRequest struct {
	Price          *float64       `json:"price" binding:"omitempty,gte=0"`
	CompareAtPrice *float64       `json:"compareAtPrice" binding:"omitempty,gte=0"`
	Variants       []VariantPrice `json:"variants" binding:"dive"`
}

// ---------- categories / brands / attributes

type CategoryInput struct {
	Name        string  `json:"name" binding:"required,max=120"`
	Slug        string  `json:"slug" binding:"omitempty,slug"`
	Description string  `json:"description"`
	ParentID    *string `json:"parentId"`
	ImageURL    string  `json:"imageUrl"`
	SortIndex   int     `json:"sortIndex"`
	Active      *bool   `json:"active"`
	PageID      *string `json:"pageId"`
}

type BrandInput struct {
	Name        string `json:"name" binding:"required,max=120"`
	Slug        string `json:"slug" binding:"omitempty,slug"`
	Description string `json:"description"`
	LogoURL     string `json:"logoUrl"`
	Website     string `json:"website" binding:"omitempty,url"`
	Active      *bool  `json:"active"`
}

type AttributeInput struct {
	Name       string   `json:"name" binding:"required,max=80"`
	Slug       string   `json:"slug" binding:"omitempty,slug"`
	Type       string   `json:"type" binding:"omitempty,oneof=select text color number"`
	Values     []string `json:"values"`
	Filterable bool     `json:"filterable"`
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}

// blank turns "" into nil so optional references can be cleared.
func blank(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
