package seed

import (
	"errors"
	"fmt"
	"strings"

	"storefront-app/internal/domain/catalog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func slugFor(slug, name string) string {
	if slug = strings.TrimSpace(slug); slug != "" {
		return slug
	}
	return catalog.MakeSlug(name)
}

// exists reports whether a row of model matches column = value.
func exists(tx *gorm.DB, model any, column, value string) (bool, error) {
	var n int64
	err := tx.Model(model).Where(column+" = ?", value).Count(&n).Error
	return n > 0, err
}

func idBySlug(tx *gorm.DB, model any, slug string) (*string, error) {
	if slug == "" {
		return nil, nil
	}
	var ids []string
	if err := tx.Model(model).Where("slug = ?", slug).Limit(1).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("unknown slug %q", slug)
	}
	return &ids[0], nil
}

func active(b *bool) bool {
	return b == nil || *b
}

func (s *Seeder) brand(tx *gorm.DB, in Brand) (bool, error) {
	slug := slugFor(in.Slug, in.Name)
	if ok, err := exists(tx, &catalog.Brand{}, "slug", slug); err != nil || ok {
		return false, err
	}
	b := catalog.Brand{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		LogoURL:     in.LogoURL,
		Website:     in.Website,
		Active:      active(in.Active),
	}
	s.log.Debug("brand", zap.String("slug", slug))
	return true, tx.Create(&b).Error
}

func (s *Seeder) category(tx *gorm.DB, in Category) (bool, error) {
	slug := slugFor(in.Slug, in.Name)
	if ok, err := exists(tx, &catalog.Category{}, "slug", slug); err != nil || ok {
		return false, err
	}
	parentID, err := idBySlug(tx, &catalog.Category{}, in.Parent)
	if err != nil {
		return false, fmt.Errorf("parent: %w", err)
	}
	c := catalog.Category{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		ParentID:    parentID,
		ImageURL:    in.ImageURL,
		SortIndex:   in.SortIndex,
		Active:      active(in.Active),
	}
	s.log.Debug("category", zap.String("slug", slug))
	return true, tx.Create(&c).Error
}

func (s *Seeder) attribute(tx *gorm.DB, in Attribute) (bool, error) {
	if ok, err := exists(tx, &catalog.AttributeDefinition{}, "name", in.Name); err != nil || ok {
		return false, err
	}
	typ := in.Type
	if typ == "" {
		typ = catalog.AttributeSelect
	}
	switch typ {
	case catalog.AttributeSelect, catalog.AttributeText, catalog.AttributeColor, catalog.AttributeNumber:
	default:
		return false, fmt.Errorf("unknown attribute type %q", typ)
	}
	slug, err := catalog.UniqueSlug(tx, &catalog.AttributeDefinition{}, catalog.MakeSlug(in.Name), "")
	if err != nil {
		return false, err
	}
	a := catalog.AttributeDefinition{
		Name:       in.Name,
		Slug:       slug,
		Type:       typ,
		Values:     append([]string{}, in.Values...),
		Filterable: in.Filterable,
	}
	s.log.Debug("attribute", zap.String("name", in.Name))
	return true, tx.Create(&a).Error
}

func (s *Seeder) product(tx *gorm.DB, in Product) (bool, error) {
	slug := slugFor(in.Slug, in.Name)
	if ok, err := exists(tx, &catalog.Product{}, "slug", slug); err != nil || ok {
		return false, err
	}
	if in.Price < 0 || in.Stock < 0 {
		return false, errors.New("price and stock must not be negative")
	}

	categoryID, err := idBySlug(tx, &catalog.Category{}, in.Category)
	if err != nil {
		return false, fmt.Errorf("category: %w", err)
	}
	brandID, err := idBySlug(tx, &catalog.Brand{}, in.Brand)
	if err != nil {
		return false, fmt.Errorf("brand: %w", err)
	}

	status := in.Status
	switch status {
	case "":
		status = catalog.StatusActive
	case catalog.StatusActive, catalog.StatusDraft, catalog.StatusArchived:
	default:
		return false, fmt.Errorf("unknown status %q", status)
	}
	p := catalog.Product{
		Name:           in.Name,
		Slug:           slug,
		Description:    in.Description,
		SKU:            in.SKU,
		Price:          catalog.RoundMoney(in.Price),
		CompareAtPrice: in.CompareAtPrice,
		Stock:          in.Stock,
		Status:         status,
		Featured:       in.Featured,
		Images:         append([]string{}, in.Images...),
		CategoryID:     categoryID,
		BrandID:        brandID,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
		HasVariants:    len(in.Variants) > 0,
	}
	if err := tx.Omit("Variants", "AttributeValues").Create(&p).Error; err != nil {
		return false, err
	}

	variants := make([]catalog.Variant, 0, len(in.Variants))
	for i, vin := range in.Variants {
		if vin.Stock < 0 || vin.Price < 0 {
			return false, fmt.Errorf("variant %d: price and stock must not be negative", i)
		}
		v := catalog.Variant{
			ProductID: p.ID,
			SKU:       vin.SKU,
			Price:     catalog.RoundMoney(vin.Price),
			Stock:     vin.Stock,
			IsActive:  active(vin.Active),
			SortIndex: i,
			Options:   append([]catalog.Option{}, vin.Options...),
			Images:    append([]string{}, vin.Images...),
		}
		if err := tx.Create(&v).Error; err != nil {
			return false, err
		}
		variants = append(variants, v)
	}

	if err := catalog.SaveAttributeValues(tx, p.ID, in.Attributes, variants); err != nil {
		return false, err
	}
	s.log.Debug("product", zap.String("slug", slug), zap.Int("variants", len(variants)))
	return true, nil
}
