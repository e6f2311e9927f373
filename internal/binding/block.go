package binding

import (
	"slices"

	"storefront-app/internal/domain/pages"
)

type Options struct {
	// SkipMediaGallery leaves media gallery blocks exactly as they are, so a
	// re-resolve does not replace an already resolved gallery.
	SkipMediaGallery bool
}

// ApplyBindingsToBlock returns a copy of b with its text fields resolved.
// b itself is never modified.
func ApplyBindingsToBlock(b pages.Block, ctx Context, opts Options) pages.Block {
	if b.Type == pages.BlockMediaGallery && opts.SkipMediaGallery {
		return b
	}
	out := b
	out.Content = applyContent(b.Content, ctx)
	return out
}

func applyContent(content pages.Content, ctx Context) pages.Content {
	r := func(s string) string { return ReplaceBindings(s, ctx) }

	switch c := content.(type) {
	case *pages.HeadingContent:
		n := *c
		n.Text = r(c.Text)
		return &n
	case *pages.TextContent:
		n := *c
		n.Text = r(c.Text)
		return &n
	case *pages.ImageContent:
		n := *c
		n.ImageURL, n.ImageAlt, n.ImageLink = r(c.ImageURL), r(c.ImageAlt), r(c.ImageLink)
		return &n
	case *pages.ButtonContent:
		n := *c
		n.ButtonText, n.ButtonLink = r(c.ButtonText), r(c.ButtonLink)
		return &n
	case *pages.VideoContent:
		n := *c
		n.VideoURL = r(c.VideoURL)
		return &n
	case *pages.HTMLContent:
		n := *c
		n.HTMLContent = r(c.HTMLContent)
		return &n
	case *pages.SpacerContent:
		n := *c
		return &n
	case *pages.DividerContent:
		n := *c
		return &n
	case *pages.AccordionContent:
		n := *c
		n.Items = make([]pages.AccordionItem, len(c.Items))
		for i, it := range c.Items {
			n.Items[i] = pages.AccordionItem{Title: r(it.Title), Content: r(it.Content)}
		}
		return &n
	case *pages.CarouselContent:
		n := *c
		n.Items = make([]pages.CarouselItem, len(c.Items))
		for i, it := range c.Items {
			n.Items[i] = pages.CarouselItem{
				Title:      r(it.Title),
				Subtitle:   r(it.Subtitle),
				ButtonText: r(it.ButtonText),
				ImageURL:   r(it.ImageURL),
				Link:       r(it.Link),
			}
		}
		return &n
	case *pages.MediaGalleryContent:
		n := *c
		if c.DataBinding != nil {
			db := *c.DataBinding
			n.DataBinding = &db
		}
		if product := ctx[SourceProduct]; product != nil {
			keyword := pages.GalleryAllImages
			if c.DataBinding != nil && c.DataBinding.FieldPath != "" {
				keyword = c.DataBinding.FieldPath
			}
			n.Items = galleryItems(product, keyword)
		} else {
			n.Items = slices.Clone(c.Items)
		}
		return &n
	case *pages.ProductGridContent:
		n := *c
		n.Text = r(c.Text)
		n.ProductIDs = slices.Clone(c.ProductIDs)
		return &n
	case *pages.ProductCardContent:
		n := *c
		n.ButtonText, n.ButtonLink = r(c.ButtonText), r(c.ButtonLink)
		return &n
	case *pages.CategoryGridContent:
		n := *c
		n.Text = r(c.Text)
		n.CategoryIDs = slices.Clone(c.CategoryIDs)
		return &n
	case *pages.HeroContent:
		n := *c
		n.Text = r(c.Text)
		n.ImageURL, n.ImageAlt = r(c.ImageURL), r(c.ImageAlt)
		n.ButtonText, n.ButtonLink = r(c.ButtonText), r(c.ButtonLink)
		return &n
	case *pages.TestimonialContent:
		n := *c
		n.Text = r(c.Text)
		n.ImageURL, n.ImageAlt = r(c.ImageURL), r(c.ImageAlt)
		return &n
	case *pages.NewsletterContent:
		n := *c
		n.Text, n.ButtonText = r(c.Text), r(c.ButtonText)
		return &n
	case *pages.CountdownContent:
		n := *c
		n.Text = r(c.Text)
		return &n
	case *pages.AddToCartContent:
		n := *c
		n.ButtonText = r(c.ButtonText)
		return &n
	}
	return content
}
