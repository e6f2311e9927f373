package catalog

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Option is one attribute of a variant's combination, e.g. Color=Red.
type Option struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value" binding:"required"`
}

type Variant struct {
	ID        string  `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID string  `gorm:"type:uuid;not null;index" json:"productId"`
	SKU       string  `gorm:"index" json:"sku,omitempty"`
	Price     float64 `gorm:"not null;default:0" json:"price"`
	Stock     int     `gorm:"not null;default:0" json:"stock"`
	IsActive  bool    `gorm:"not null" json:"isActive"`
	SortIndex int     `gorm:"not null;default:0" json:"sortIndex"`

	Options datatypes.JSONSlice[Option] `json:"options"`
	Images  datatypes.JSONSlice[string] `json:"images"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (v *Variant) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

// Label renders the option combination as "Red / M".
func (v Variant) Label() string {
	label := ""
	for i, o := range v.Options {
		if i > 0 {
			label += " / "
		}
		label += o.Value
	}
	return label
}
