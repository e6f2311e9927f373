package catalog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AttributeSelect = "select"
	AttributeText   = "text"
	AttributeColor  = "color"
	AttributeNumber = "number"
)

// AttributeDefinition describes an attribute that products and variants can carry.
type AttributeDefinition struct {
	ID         string                      `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string                      `gorm:"not null;uniqueIndex" json:"name"`
	Slug       string                      `gorm:"not null;uniqueIndex" json:"slug"`
	Type       string                      `gorm:"not null;default:'select';index" json:"type"`
	Values     datatypes.JSONSlice[string] `json:"values"`
	Filterable bool                        `gorm:"not null;index" json:"filterable"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *AttributeDefinition) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// Restricted reports whether values must come from the definition's list.
func (a AttributeDefinition) Restricted() bool {
	return (a.Type == AttributeSelect || a.Type == AttributeColor) && len(a.Values) > 0
}

func (a AttributeDefinition) Allows(value string) bool {
	if !a.Restricted() {
		return true
	}
	return slices.ContainsFunc(a.Values, func(v string) bool {
		return strings.EqualFold(v, value)
	})
}

// AttributeValue is the single stored representation of "product has
// attribute Name with value Value". Product-level attributes and every
// variant option are folded into these rows on save.
type AttributeValue struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"-"`
	ProductID string `gorm:"type:uuid;not null;uniqueIndex:idx_attr_values_product_name_value,priority:1" json:"-"`
	Name      string `gorm:"not null;uniqueIndex:idx_attr_values_product_name_value,priority:2;index" json:"name"`
	Value     string `gorm:"not null;uniqueIndex:idx_attr_values_product_name_value,priority:3;index" json:"value"`
	SortIndex int    `gorm:"not null;default:0" json:"-"`
}

func (AttributeValue) TableName() string { return "product_attribute_values" }

func (v *AttributeValue) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

// AttributeGroup is the grouped wire form: {"name": "Color", "values": ["Red", "Blue"]}.
type AttributeGroup struct {
	Name   string   `json:"name" binding:"required"`
	Values []string `json:"values"`
}

// MergeAttributes builds the canonical attribute rows for a product from its
// own attribute groups and the options of its variants. Order is preserved,
// duplicates (case-insensitive) are dropped.
func MergeAttributes(groups []AttributeGroup, variants []Variant) []AttributeValue {
	out := []AttributeValue{}
	seen := map[string]bool{}

	add := func(name, value string) {
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			return
		}
		key := strings.ToLower(name) + "\x00" + strings.ToLower(value)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, AttributeValue{Name: name, Value: value, SortIndex: len(out)})
	}

	for _, g := range groups {
		for _, v := range g.Values {
			add(g.Name, v)
		}
	}
	for _, v := range variants {
		for _, o := range v.Options {
			add(o.Name, o.Value)
		}
	}
	return out
}

// GroupAttributes turns canonical rows back into ordered groups.
func GroupAttributes(values []AttributeValue) []AttributeGroup {
	sorted := slices.Clone(values)
	slices.SortStableFunc(sorted, func(a, b AttributeValue) int { return a.SortIndex - b.SortIndex })

	out := []AttributeGroup{}
	index := map[string]int{}
	for _, v := range sorted {
		key := strings.ToLower(v.Name)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, AttributeGroup{Name: v.Name})
		}
		out[i].Values = append(out[i].Values, v.Value)
	}
	return out
}

// CheckAttributeValues verifies values against the matching definitions
// (matched by name, case-insensitive). Attributes without a definition pass.
func CheckAttributeValues(defs []AttributeDefinition, values []AttributeValue) error {
	byName := map[string]AttributeDefinition{}
	for _, d := range defs {
		byName[strings.ToLower(d.Name)] = d
	}
	for _, v := range values {
		d, ok := byName[strings.ToLower(v.Name)]
		if ok && !d.Allows(v.Value) {
			return fmt.Errorf("%w: %s=%s", ErrAttributeValue, v.Name, v.Value)
		}
	}
	return nil
}

// SaveAttributeValues replaces the canonical attribute rows of a product
// with the merge of groups and variant options, checked against the
// attribute definitions.
func SaveAttributeValues(tx *gorm.DB, productID string, groups []AttributeGroup, variants []Variant) error {
	values := MergeAttributes(groups, variants)
	var defs []AttributeDefinition
	if err := tx.Find(&defs).Error; err != nil {
		return err
	}
	if err := CheckAttributeValues(defs, values); err != nil {
		return err
	}

	if err := tx.Where("product_id = ?", productID).Delete(&AttributeValue{}).Error; err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	for i := range values {
		values[i].ProductID = productID
	}
	return tx.Create(&values).Error
}
