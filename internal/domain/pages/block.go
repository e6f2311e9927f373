package pages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type BlockType string

const (
	BlockHeading      BlockType = "heading"
	BlockText         BlockType = "text"
	BlockImage        BlockType = "image"
	BlockButton       BlockType = "button"
	BlockVideo        BlockType = "video"
	BlockHTML         BlockType = "html"
	BlockSpacer       BlockType = "spacer"
	BlockDivider      BlockType = "divider"
	BlockAccordion    BlockType = "accordion"
	BlockCarousel     BlockType = "carousel"
	BlockMediaGallery BlockType = "mediaGallery"
	BlockProductGrid  BlockType = "productGrid"
	BlockProductCard  BlockType = "productCard"
	BlockCategoryGrid BlockType = "categoryGrid"
	BlockHero         BlockType = "hero"
	BlockTestimonial  BlockType = "testimonial"
	BlockNewsletter   BlockType = "newsletter"
	BlockCountdown    BlockType = "countdown"
	BlockAddToCart    BlockType = "addToCart"
)

var ErrUnknownBlockType = errors.New("unknown block type")

// Content is the per-type payload of a block. Every block type has exactly
// one content type; see newContent.
type Content interface {
	BlockType() BlockType
}

func newContent(t BlockType) (Content, error) {
	switch t {
	case BlockHeading:
		return &HeadingContent{}, nil
	case BlockText:
		return &TextContent{}, nil
	case BlockImage:
		return &ImageContent{}, nil
	case BlockButton:
		return &ButtonContent{}, nil
	case BlockVideo:
		return &VideoContent{}, nil
	case BlockHTML:
		return &HTMLContent{}, nil
	case BlockSpacer:
		return &SpacerContent{}, nil
	case BlockDivider:
		return &DividerContent{}, nil
	case BlockAccordion:
		return &AccordionContent{}, nil
	case BlockCarousel:
		return &CarouselContent{}, nil
	case BlockMediaGallery:
		return &MediaGalleryContent{}, nil
	case BlockProductGrid:
		return &ProductGridContent{}, nil
	case BlockProductCard:
		return &ProductCardContent{}, nil
	case BlockCategoryGrid:
		return &CategoryGridContent{}, nil
	case BlockHero:
		return &HeroContent{}, nil
	case BlockTestimonial:
		return &TestimonialContent{}, nil
	case BlockNewsletter:
		return &NewsletterContent{}, nil
	case BlockCountdown:
		return &CountdownContent{}, nil
	case BlockAddToCart:
		return &AddToCartContent{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, t)
}

type Block struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Content Content   `json:"content"`
}

// NewBlock wraps content, taking the type from it.
func NewBlock(id string, c Content) Block {
	return Block{ID: id, Type: c.BlockType(), Content: c}
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      string          `json:"id"`
		Type    BlockType       `json:"type"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c, err := newContent(raw.Type)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw.Content)) > 0 && !bytes.Equal(bytes.TrimSpace(raw.Content), []byte("null")) {
		if err := json.Unmarshal(raw.Content, c); err != nil {
			return fmt.Errorf("block %s content: %w", raw.ID, err)
		}
	}
	b.ID = raw.ID
	b.Type = raw.Type
	b.Content = c
	return nil
}
