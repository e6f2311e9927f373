package catalog

import (
	"encoding/json"
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

type Product struct {
	ID             string   `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string   `gorm:"not null" json:"name"`
	Slug           string   `gorm:"not null;uniqueIndex" json:"slug"`
	Description    string   `json:"description,omitempty"`
	SKU            string   `gorm:"index" json:"sku,omitempty"`
	Price          float64  `gorm:"not null;default:0" json:"price"`
	CompareAtPrice *float64 `json:"compareAtPrice,omitempty"`
	Stock          int      `gorm:"not null;default:0" json:"stock"`
	Status         string   `gorm:"not null;default:'draft';index" json:"status"`
	Featured       bool     `gorm:"not null;default:false;index" json:"featured"`

	Images datatypes.JSONSlice[string] `json:"images"`

	CategoryID *string   `gorm:"type:uuid;index" json:"categoryId,omitempty"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	BrandID    *string   `gorm:"type:uuid;index" json:"brandId,omitempty"`
	Brand      *Brand    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"brand,omitempty"`

	// PageID overrides the default product template page.
	PageID *string `gorm:"type:uuid" json:"pageId,omitempty"`

	SEOTitle       string `gorm:"column:seo_title" json:"seoTitle,omitempty"`
	SEODescription string `gorm:"column:seo_description" json:"seoDescription,omitempty"`

	HasVariants     bool             `gorm:"not null;default:false;index" json:"hasVariants"`
	Variants        []Variant        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;" json:"variants"`
	AttributeValues []AttributeValue `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// MarshalJSON exposes the canonical attribute rows in grouped form and adds
// the computed price range and total stock.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	out := struct {
		alias
		Attributes []AttributeGroup `json:"attributes"`
		PriceRange *PriceRange      `json:"priceRange,omitempty"`
		TotalStock int              `json:"totalStock"`
	}{
		alias:      alias(p),
		Attributes: GroupAttributes(p.AttributeValues),
		TotalStock: p.TotalStock(),
	}
	if out.Variants == nil {
		out.Variants = []Variant{}
	}
	if out.Images == nil {
		out.Images = datatypes.JSONSlice[string]{}
	}
	if r, ok := p.PriceRange(); ok {
		out.PriceRange = &r
	}
	return json.Marshal(out)
}

// TotalStock is the sellable quantity: the sum over active variants for
// variant products, the product stock otherwise.
func (p Product) TotalStock() int {
	if !p.HasVariants {
		return p.Stock
	}
	total := 0
	for _, v := range p.Variants {
		if v.IsActive {
			total += v.Stock
		}
	}
	return total
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PriceRange returns min/max over active variants. ok is false when the
// product has no variants or none is active.
func (p Product) PriceRange() (PriceRange, bool) {
	if !p.HasVariants {
		return PriceRange{}, false
	}
	r := PriceRange{Min: math.Inf(1), Max: math.Inf(-1)}
	found := false
	for _, v := range p.Variants {
		if !v.IsActive {
			continue
		}
		found = true
		r.Min = math.Min(r.Min, v.Price)
		r.Max = math.Max(r.Max, v.Price)
	}
	if !found {
		return PriceRange{}, false
	}
	return r, true
}

// UnitPrice returns the price charged for the product or one of its variants.
func (p Product) UnitPrice(variantID *string) (float64, error) {
	if variantID == nil || *variantID == "" {
		return p.Price, nil
	}
	v := p.FindVariant(*variantID)
	if v == nil || !v.IsActive {
		return 0, ErrVariantNotFound
	}
	return v.Price, nil
}

func (p *Product) FindVariant(id string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// RoundMoney rounds to cents.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
