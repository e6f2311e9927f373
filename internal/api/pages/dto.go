package pages

import "storefront-app/internal/domain/pages"

type PageInput struct {
	Title          string          `json:"title" binding:"required,max=200"`
	Slug           string          `json:"slug" binding:"omitempty,slug"`
	Description    string          `json:"description"`
	SEOTitle       string          `json:"seoTitle" binding:"max=200"`
	SEODescription string          `json:"seoDescription" binding:"max=500"`
	Kind           string          `json:"kind" binding:"omitempty,oneof=page product category"`
	Status         string          `json:"status" binding:"omitempty,oneof=draft published"`
	IsDefault      bool            `json:"isDefault"`
	Segments       []pages.Segment `json:"segments"`
}

// PreviewRequest names the records to bind. customer and collection are
// passed through as free-form objects.
type PreviewRequest struct {
	ProductID        *string        `json:"productId"`
	CategoryID       *string        `json:"categoryId"`
	Customer         map[string]any `json:"customer"`
	Collection       map[string]any `json:"collection"`
	SkipMediaGallery bool           `json:"skipMediaGallery"`
}
