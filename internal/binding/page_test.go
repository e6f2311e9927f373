package binding

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-app/internal/domain/pages"
)

func galleryProduct() Record {
	return Record{
		"name":   "Tee",
		"images": []any{"base-1.jpg", "shared.jpg"},
		"variants": []any{
			map[string]any{
				"id":       "v1",
				"isActive": true,
				"images":   []any{"red.jpg", "shared.jpg"},
				"options":  []any{map[string]any{"name": "Color", "value": "Red"}},
			},
			map[string]any{
				"id":       "v2",
				"isActive": false,
				"images":   []any{"hidden.jpg"},
			},
		},
	}
}

func galleryBlock(fieldPath string) pages.Block {
	return pages.NewBlock("g1", &pages.MediaGalleryContent{
		Items:       []pages.GalleryItem{{ID: "manual", Type: "image", URL: "manual.jpg"}},
		DataBinding: &pages.DataBinding{SourceType: "product", FieldPath: fieldPath},
	})
}

func galleryURLs(b pages.Block) []string {
	var urls []string
	for _, it := range b.Content.(*pages.MediaGalleryContent).Items {
		urls = append(urls, it.URL)
	}
	return urls
}

func TestApplyBindingsToBlock_GalleryKeywords(t *testing.T) {
	ctx := Context{SourceProduct: galleryProduct()}

	all := ApplyBindingsToBlock(galleryBlock(pages.GalleryAllImages), ctx, Options{})
	assert.Equal(t, []string{"base-1.jpg", "shared.jpg", "red.jpg"}, galleryURLs(all))

	base := ApplyBindingsToBlock(galleryBlock(pages.GalleryBaseImages), ctx, Options{})
	assert.Equal(t, []string{"base-1.jpg", "shared.jpg"}, galleryURLs(base))

	variant := ApplyBindingsToBlock(galleryBlock(pages.GalleryVariantImages), ctx, Options{})
	assert.Equal(t, []string{"red.jpg", "shared.jpg"}, galleryURLs(variant))

	unset := ApplyBindingsToBlock(galleryBlock(""), ctx, Options{})
	assert.Equal(t, galleryURLs(all), galleryURLs(unset))
}

func TestApplyBindingsToBlock_GalleryItemShape(t *testing.T) {
	ctx := Context{SourceProduct: galleryProduct()}
	out := ApplyBindingsToBlock(galleryBlock(pages.GalleryVariantImages), ctx, Options{})
	items := out.Content.(*pages.MediaGalleryContent).Items
	require.Len(t, items, 2)
	assert.Equal(t, pages.GalleryItem{
		ID:        "variant-v1-image-0",
		Type:      "image",
		URL:       "red.jpg",
		Alt:       "Tee - Red",
		Thumbnail: "red.jpg",
	}, items[0])
}

func TestApplyBindingsToBlock_GalleryWithoutProductKeepsItems(t *testing.T) {
	in := galleryBlock(pages.GalleryAllImages)
	out := ApplyBindingsToBlock(in, Context{SourceCategory: {"name": "x"}}, Options{})
	assert.Equal(t, []string{"manual.jpg"}, galleryURLs(out))
	assert.NotSame(t, in.Content, out.Content)
}

func TestApplyBindingsToBlock_SkipMediaGalleryIsIdentity(t *testing.T) {
	in := galleryBlock(pages.GalleryAllImages)
	for _, ctx := range []Context{nil, {}, {SourceProduct: galleryProduct()}} {
		out := ApplyBindingsToBlock(in, ctx, Options{SkipMediaGallery: true})
		assert.Same(t, in.Content, out.Content)
		assert.Equal(t, in, out)
	}

	text := pages.NewBlock("t", &pages.TextContent{Text: "{{product.name}}"})
	out := ApplyBindingsToBlock(text, Context{SourceProduct: {"name": "Tee"}}, Options{SkipMediaGallery: true})
	assert.Equal(t, "Tee", out.Content.(*pages.TextContent).Text)
}

func TestApplyBindingsToBlock_TextFields(t *testing.T) {
	ctx := Context{SourceProduct: {"name": "Tee", "slug": "tee", "images": []any{"tee.jpg"}, "video": "v.mp4"}}

	img := ApplyBindingsToBlock(pages.NewBlock("i", &pages.ImageContent{
		ImageURL:  "{{product.images}}",
		ImageAlt:  "{{product.name}}",
		ImageLink: "/p/{{product.slug}}",
	}), ctx, Options{})
	assert.Equal(t, &pages.ImageContent{ImageURL: "tee.jpg", ImageAlt: "Tee", ImageLink: "/p/tee"}, img.Content)

	hero := ApplyBindingsToBlock(pages.NewBlock("h", &pages.HeroContent{
		Text: "{{product.name}}", ButtonText: "Buy {{product.name}}", ButtonLink: "/cart?p={{product.slug}}",
	}), ctx, Options{})
	assert.Equal(t, &pages.HeroContent{Text: "Tee", ButtonText: "Buy Tee", ButtonLink: "/cart?p=tee"}, hero.Content)

	video := ApplyBindingsToBlock(pages.NewBlock("v", &pages.VideoContent{VideoURL: "{{product.video}}"}), ctx, Options{})
	assert.Equal(t, "v.mp4", video.Content.(*pages.VideoContent).VideoURL)

	html := ApplyBindingsToBlock(pages.NewBlock("x", &pages.HTMLContent{HTMLContent: "<b>{{product.name}}</b>"}), ctx, Options{})
	assert.Equal(t, "<b>Tee</b>", html.Content.(*pages.HTMLContent).HTMLContent)

	// Fields outside the substitution list are left alone.
	testimonial := ApplyBindingsToBlock(pages.NewBlock("q", &pages.TestimonialContent{Text: "{{product.name}}", Author: "{{product.name}}"}), ctx, Options{})
	assert.Equal(t, &pages.TestimonialContent{Text: "Tee", Author: "{{product.name}}"}, testimonial.Content)
}

func TestApplyBindingsToBlock_ItemArrays(t *testing.T) {
	ctx := Context{SourceProduct: {"name": "Tee", "slug": "tee"}}

	acc := ApplyBindingsToBlock(pages.NewBlock("a", &pages.AccordionContent{Items: []pages.AccordionItem{
		{Title: "About {{product.name}}", Content: "{{product.missing}}"},
	}}), ctx, Options{})
	assert.Equal(t, []pages.AccordionItem{{Title: "About Tee", Content: ""}}, acc.Content.(*pages.AccordionContent).Items)

	car := ApplyBindingsToBlock(pages.NewBlock("c", &pages.CarouselContent{Items: []pages.CarouselItem{
		{Title: "{{product.name}}", Subtitle: "{{customer.name}}", ButtonText: "Shop", ImageURL: "/{{product.slug}}.jpg", Link: "/p/{{product.slug}}"},
	}}), ctx, Options{})
	assert.Equal(t, []pages.CarouselItem{
		{Title: "Tee", Subtitle: "{{customer.name}}", ButtonText: "Shop", ImageURL: "/tee.jpg", Link: "/p/tee"},
	}, car.Content.(*pages.CarouselContent).Items)
}

func samplePage() pages.Page {
	return pages.Page{
		ID:             "p1",
		Title:          "{{product.name}}",
		Slug:           "product-template",
		Description:    "Buy {{product.name}} for {{product.price}}",
		SEOTitle:       "{{product.name}} | {{category.name}}",
		SEODescription: "{{product.description}}",
		Kind:           pages.KindProduct,
		Segments: []pages.Segment{{
			ID:      "s1",
			Columns: 12,
			Cells: []pages.GridCell{
				{ID: "c1", ColSpan: 6, RowSpan: 1, Blocks: []pages.Block{
					pages.NewBlock("b1", &pages.HeadingContent{Text: "{{product.name}}", Level: 1}),
					galleryBlock(pages.GalleryAllImages),
				}},
				{ID: "c2", Column: 6, ColSpan: 6, RowSpan: 1, Blocks: []pages.Block{
					pages.NewBlock("b2", &pages.TextContent{Text: "{{product.variants}}"}),
					pages.NewBlock("b3", &pages.SpacerContent{Height: 20}),
				}},
			},
		}},
	}
}

func TestApplyBindingsToPage_ResolvesTreeWithoutMutatingInput(t *testing.T) {
	in := samplePage()
	before, err := json.Marshal(in)
	require.NoError(t, err)

	ctx := Context{
		SourceProduct:  galleryProduct().merge(Record{"price": 25, "description": "Soft cotton"}),
		SourceCategory: {"name": "Shirts"},
	}
	out := ApplyBindingsToPage(in, ctx, Options{})

	after, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))

	assert.Equal(t, "Tee", out.Title)
	assert.Equal(t, "Buy Tee for $25.00", out.Description)
	assert.Equal(t, "Tee | Shirts", out.SEOTitle)
	assert.Equal(t, "Soft cotton", out.SEODescription)

	blocks := out.Blocks()
	require.Len(t, blocks, 4)
	assert.Equal(t, "Tee", blocks[0].Content.(*pages.HeadingContent).Text)
	assert.Equal(t, []string{"base-1.jpg", "shared.jpg", "red.jpg"}, galleryURLs(blocks[1]))
	assert.Equal(t, "1 variant(s) available", blocks[2].Content.(*pages.TextContent).Text)
	assert.Equal(t, &pages.SpacerContent{Height: 20}, blocks[3].Content)
}

func TestApplyBindingsToPage_Idempotent(t *testing.T) {
	ctx := Context{
		SourceProduct:  galleryProduct().merge(Record{"price": 25, "description": "Soft cotton"}),
		SourceCategory: {"name": "Shirts"},
	}
	once := ApplyBindingsToPage(samplePage(), ctx, Options{})
	twice := ApplyBindingsToPage(once, ctx, Options{})
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second pass changed the page (-once +twice):\n%s", diff)
	}
}

func TestApplyBindingsToPage_EmptyContextLeavesTokens(t *testing.T) {
	in := samplePage()
	out := ApplyBindingsToPage(in, Context{}, Options{})
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("empty context changed the page:\n%s", diff)
	}
}

func (r Record) merge(extra Record) Record {
	out := Record{}
	for k, v := range r {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
