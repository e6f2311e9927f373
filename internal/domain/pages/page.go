package pages

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	KindPage     = "page"
	KindProduct  = "product"
	KindCategory = "category"

	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Page is a page-builder document: segments of grid cells holding blocks.
// The layout is stored verbatim as one JSON column.
type Page struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string `gorm:"not null" json:"title"`
	Slug           string `gorm:"not null;uniqueIndex" json:"slug"`
	Description    string `json:"description,omitempty"`
	SEOTitle       string `gorm:"column:seo_title" json:"seoTitle,omitempty"`
	SEODescription string `gorm:"column:seo_description" json:"seoDescription,omitempty"`

	Kind      string `gorm:"not null;default:'page';index" json:"kind"`
	Status    string `gorm:"not null;default:'draft';index" json:"status"`
	IsDefault bool   `gorm:"not null;default:false;index" json:"isDefault"`

	Segments datatypes.JSONSlice[Segment] `json:"segments"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Page) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Segment struct {
	ID      string     `json:"id" validate:"required"`
	Name    string     `json:"name,omitempty"`
	Columns int        `json:"columns" validate:"min=1,max=12"`
	Cells   []GridCell `json:"cells" validate:"dive"`
}

type GridCell struct {
	ID      string  `json:"id" validate:"required"`
	Column  int     `json:"column" validate:"min=0"`
	Row     int     `json:"row" validate:"min=0"`
	ColSpan int     `json:"colSpan" validate:"min=1,max=12"`
	RowSpan int     `json:"rowSpan" validate:"min=1"`
	Blocks  []Block `json:"blocks"`
}

func IsKind(k string) bool {
	return k == KindPage || k == KindProduct || k == KindCategory
}

// Blocks walks every block of the page in layout order.
func (p Page) Blocks() []Block {
	var out []Block
	for _, s := range p.Segments {
		for _, c := range s.Cells {
			out = append(out, c.Blocks...)
		}
	}
	return out
}
