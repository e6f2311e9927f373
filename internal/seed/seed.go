// Package seed loads a catalog from a YAML file. Records whose slug (or
// attribute name) already exists are left untouched, so a file can be
// applied repeatedly.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"storefront-app/internal/domain/catalog"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type File struct {
	Brands     []Brand     `yaml:"brands"`
	Categories []Category  `yaml:"categories"`
	Attributes []Attribute `yaml:"attributes"`
	Products   []Product   `yaml:"products"`
}

type Brand struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	LogoURL     string `yaml:"logoUrl"`
	Website     string `yaml:"website"`
	Active      *bool  `yaml:"active"`
}

type Category struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Parent      string `yaml:"parent"` // parent slug
	ImageURL    string `yaml:"imageUrl"`
	SortIndex   int    `yaml:"sortIndex"`
	Active      *bool  `yaml:"active"`
}

type Attribute struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	Values     []string `yaml:"values"`
	Filterable bool     `yaml:"filterable"`
}

type Product struct {
	Name           string                   `yaml:"name"`
	Slug           string                   `yaml:"slug"`
	Description    string                   `yaml:"description"`
	SKU            string                   `yaml:"sku"`
	Price          float64                  `yaml:"price"`
	CompareAtPrice *float64                 `yaml:"compareAtPrice"`
	Stock          int                      `yaml:"stock"`
	Status         string                   `yaml:"status"`
	Featured       bool                     `yaml:"featured"`
	Images         []string                 `yaml:"images"`
	Category       string                   `yaml:"category"` // category slug
	Brand          string                   `yaml:"brand"`    // brand slug
	SEOTitle       string                   `yaml:"seoTitle"`
	SEODescription string                   `yaml:"seoDescription"`
	Attributes     []catalog.AttributeGroup `yaml:"attributes"`
	Variants       []Variant                `yaml:"variants"`
}

type Variant struct {
	SKU     string           `yaml:"sku"`
	Price   float64          `yaml:"price"`
	Stock   int              `yaml:"stock"`
	Active  *bool            `yaml:"active"`
	Options []catalog.Option `yaml:"options"`
	Images  []string         `yaml:"images"`
}

// Summary counts what a run created and skipped.
type Summary struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &file, nil
}

type Seeder struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Seeder {
	return &Seeder{db: db, log: log.Named("seed")}
}

// Apply writes the file in one transaction: brands, categories (parents
// listed before children), attribute definitions, then products.
func (s *Seeder) Apply(file *File) (Summary, error) {
	var sum Summary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, b := range file.Brands {
			created, err := s.brand(tx, b)
			if err != nil {
				return fmt.Errorf("brand %q: %w", b.Name, err)
			}
			sum.count(created)
		}
		for _, c := range file.Categories {
			created, err := s.category(tx, c)
			if err != nil {
				return fmt.Errorf("category %q: %w", c.Name, err)
			}
			sum.count(created)
		}
		for _, a := range file.Attributes {
			created, err := s.attribute(tx, a)
			if err != nil {
				return fmt.Errorf("attribute %q: %w", a.Name, err)
			}
			sum.count(created)
		}
		for _, p := range file.Products {
			created, err := s.product(tx, p)
			if err != nil {
				return fmt.Errorf("product %q: %w", p.Name, err)
			}
			sum.count(created)
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	s.log.Info("seed applied", zap.Int("created", sum.Created), zap.Int("skipped", sum.Skipped))
	return sum, nil
}

func (s *Summary) count(created bool) {
	if created {
		s.Created++
	} else {
		s.Skipped++
	}
}
