package catalog

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Slug        string  `gorm:"not null;uniqueIndex" json:"slug"`
	Description string  `json:"description,omitempty"`
	ParentID    *string `gorm:"type:uuid;index" json:"parentId,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	SortIndex   int     `gorm:"not null;default:0;index" json:"sortIndex"`
	Active      bool    `gorm:"not null;index" json:"active"`

	// PageID points at a page of kind "category" used to render this category.
	PageID *string `gorm:"type:uuid" json:"pageId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// CheckParent walks the parent chain of parentID and fails if it reaches id.
func CheckParent(db *gorm.DB, id string, parentID *string) error {
	seen := map[string]bool{}
	next := parentID
	for next != nil && *next != "" {
		if *next == id {
			return ErrCategoryCycle
		}
		if seen[*next] {
			return ErrCategoryCycle
		}
		seen[*next] = true

		var parent Category
		if err := db.Select("id", "parent_id").First(&parent, "id = ?", *next).Error; err != nil {
			return err
		}
		next = parent.ParentID
	}
	return nil
}
