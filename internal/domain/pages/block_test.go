package pages

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const layoutJSON = `[
  {"id": "s1", "name": "Top", "columns": 12, "cells": [
    {"id": "c1", "column": 0, "row": 0, "colSpan": 8, "rowSpan": 1, "blocks": [
      {"id": "b1", "type": "heading", "content": {"text": "{{product.name}}", "level": 1}},
      {"id": "b2", "type": "mediaGallery", "content": {"items": [], "dataBinding": {"sourceType": "product", "fieldPath": "variantImages"}}}
    ]},
    {"id": "c2", "column": 8, "row": 0, "colSpan": 4, "rowSpan": 1, "blocks": [
      {"id": "b3", "type": "accordion", "content": {"accordionItems": [{"title": "Care", "content": "Wash cold"}]}},
      {"id": "b4", "type": "divider"}
    ]}
  ]}
]`

func TestBlockJSON_DecodesTaggedContent(t *testing.T) {
	var segments []Segment
	require.NoError(t, json.Unmarshal([]byte(layoutJSON), &segments))
	require.Len(t, segments, 1)

	blocks := Page{Segments: segments}.Blocks()
	require.Len(t, blocks, 4)

	heading, ok := blocks[0].Content.(*HeadingContent)
	require.True(t, ok)
	assert.Equal(t, "{{product.name}}", heading.Text)
	assert.Equal(t, 1, heading.Level)

	gallery, ok := blocks[1].Content.(*MediaGalleryContent)
	require.True(t, ok)
	require.NotNil(t, gallery.DataBinding)
	assert.Equal(t, GalleryVariantImages, gallery.DataBinding.FieldPath)

	acc, ok := blocks[2].Content.(*AccordionContent)
	require.True(t, ok)
	assert.Equal(t, []AccordionItem{{Title: "Care", Content: "Wash cold"}}, acc.Items)

	_, ok = blocks[3].Content.(*DividerContent)
	assert.True(t, ok, "missing content still yields the typed zero value")

	assert.NoError(t, ValidateLayout(segments))
}

func TestBlockJSON_RoundTripKeepsWireShape(t *testing.T) {
	b := NewBlock("x", &ButtonContent{ButtonText: "Buy", ButtonLink: "/cart"})
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","type":"button","content":{"buttonText":"Buy","buttonLink":"/cart"}}`, string(data))

	var back Block
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b, back)
}

func TestBlockJSON_UnknownType(t *testing.T) {
	var b Block
	err := json.Unmarshal([]byte(`{"id":"x","type":"marquee","content":{}}`), &b)
	assert.True(t, errors.Is(err, ErrUnknownBlockType))
}

func TestNewContentCoversEveryType(t *testing.T) {
	types := []BlockType{
		BlockHeading, BlockText, BlockImage, BlockButton, BlockVideo, BlockHTML,
		BlockSpacer, BlockDivider, BlockAccordion, BlockCarousel, BlockMediaGallery,
		BlockProductGrid, BlockProductCard, BlockCategoryGrid, BlockHero,
		BlockTestimonial, BlockNewsletter, BlockCountdown, BlockAddToCart,
	}
	for _, bt := range types {
		c, err := newContent(bt)
		require.NoError(t, err, bt)
		assert.Equal(t, bt, c.BlockType())
	}
}

func TestValidateLayout(t *testing.T) {
	valid := func() []Segment {
		return []Segment{{ID: "s", Columns: 12, Cells: []GridCell{{
			ID: "c", ColSpan: 12, RowSpan: 1,
			Blocks: []Block{NewBlock("b", &TextContent{Text: "hi"})},
		}}}}
	}
	require.NoError(t, ValidateLayout(valid()))

	cases := map[string]func(s []Segment){
		"overflow":         func(s []Segment) { s[0].Cells[0].Column = 4 },
		"zero span":        func(s []Segment) { s[0].Cells[0].ColSpan = 0 },
		"missing block id": func(s []Segment) { s[0].Cells[0].Blocks[0].ID = "" },
		"type mismatch":    func(s []Segment) { s[0].Cells[0].Blocks[0].Type = BlockImage },
		"bad content": func(s []Segment) {
			s[0].Cells[0].Blocks[0] = NewBlock("b", &ButtonContent{})
		},
		"duplicate ids": func(s []Segment) {
			s[0].Cells[0].Blocks = append(s[0].Cells[0].Blocks, NewBlock("b", &TextContent{}))
		},
		"bad binding source": func(s []Segment) {
			s[0].Cells[0].Blocks[0] = NewBlock("b", &MediaGalleryContent{DataBinding: &DataBinding{SourceType: "order"}})
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := valid()
			mutate(s)
			assert.ErrorIs(t, ValidateLayout(s), ErrInvalidLayout)
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	segments := []Segment{{ID: "s", Columns: 1, Cells: []GridCell{{
		ID: "c", ColSpan: 1, RowSpan: 1,
		Blocks: []Block{NewBlock("h", &HTMLContent{HTMLContent: `<p onclick="x()">{{product.name}}</p><script>alert(1)</script>`})},
	}}}}
	SanitizeHTML(segments)
	assert.Equal(t, "<p>{{product.name}}</p>", segments[0].Cells[0].Blocks[0].Content.(*HTMLContent).HTMLContent)
}

func TestSanitizeHTMLKeepsTokensInAttributes(t *testing.T) {
	cases := map[string]struct {
		in      string
		want    []string
		notWant []string
	}{
		"href token": {
			in:      `<a href="/p/{{product.slug}}" onclick="x()">{{ product.name }}</a>`,
			want:    []string{`href="/p/{{product.slug}}"`, `{{ product.name }}</a>`},
			notWant: []string{"onclick", "%7B"},
		},
		"img src token": {
			in:   `<img src="{{product.images}}" alt="{{product.name}}">`,
			want: []string{`src="{{product.images}}"`, `alt="{{product.name}}"`},
		},
		"quoted token is not kept": {
			in:      `<a href="{{x&#34; onclick=&#34;y}}">z</a>`,
			notWant: []string{`" onclick`, "{{x"},
		},
		"javascript url dropped": {
			in:      `<a href="javascript:alert(1)">{{product.name}}</a>`,
			want:    []string{"{{product.name}}"},
			notWant: []string{"javascript"},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			segments := []Segment{{ID: "s", Columns: 1, Cells: []GridCell{{
				ID: "c", ColSpan: 1, RowSpan: 1,
				Blocks: []Block{NewBlock("h", &HTMLContent{HTMLContent: tc.in})},
			}}}}
			SanitizeHTML(segments)
			got := segments[0].Cells[0].Blocks[0].Content.(*HTMLContent).HTMLContent
			for _, w := range tc.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tc.notWant {
				assert.NotContains(t, got, w)
			}
		})
	}
}
