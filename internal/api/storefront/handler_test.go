package storefront

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pagesapi "storefront-app/internal/api/pages"
	"storefront-app/internal/api/validation"
	"storefront-app/internal/domain/catalog"
	"storefront-app/internal/domain/pages"
	"storefront-app/internal/render"
	"storefront-app/internal/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type listJSON struct {
	Items []struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	} `json:"items"`
	Total int `json:"total"`
}

func setup(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testdb.New(t)
	h := NewHandler(db, zap.NewNop(), render.NewLoader(db))

	r := gin.New()
	r.GET("/store/products", h.ListProducts)
	r.GET("/store/products/:slug", h.GetProduct)
	r.GET("/store/categories", h.ListCategories)
	r.GET("/store/categories/:slug", h.GetCategory)
	r.GET("/store/brands", h.ListBrands)
	r.GET("/store/pages/:slug", h.GetPage)

	shirts := catalog.Category{Name: "Shirts", Slug: "shirts", Active: true}
	require.NoError(t, db.Create(&shirts).Error)
	require.NoError(t, db.Create(&catalog.Category{Name: "Hidden", Slug: "hidden", Active: false}).Error)
	require.NoError(t, db.Create(&catalog.Brand{Name: "Acme", Slug: "acme", Active: true}).Error)

	products := []catalog.Product{
		{
			Name: "Red Tee", Slug: "red-tee", Status: catalog.StatusActive, Price: 20, CategoryID: &shirts.ID,
			AttributeValues: []catalog.AttributeValue{{Name: "Color", Value: "Red"}, {Name: "Size", Value: "M", SortIndex: 1}},
		},
		{
			Name: "Blue Tee", Slug: "blue-tee", Status: catalog.StatusActive, Price: 22, CategoryID: &shirts.ID,
			AttributeValues: []catalog.AttributeValue{{Name: "Color", Value: "Blue"}, {Name: "Size", Value: "L", SortIndex: 1}},
		},
		{
			Name: "Green Tee", Slug: "green-tee", Status: catalog.StatusDraft, CategoryID: &shirts.ID,
			AttributeValues: []catalog.AttributeValue{{Name: "Color", Value: "Green"}},
		},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
	return r, db
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func slugs(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out listJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	s := make([]string, 0, len(out.Items))
	for _, it := range out.Items {
		s = append(s, it.Slug)
	}
	return s
}

func TestListProducts(t *testing.T) {
	r, _ := setup(t)

	assert.ElementsMatch(t, []string{"red-tee", "blue-tee"}, slugs(t, get(t, r, "/store/products")))
	assert.Equal(t, []string{"red-tee", "blue-tee"}, slugs(t, get(t, r, "/store/products?sort=price")))
	assert.Equal(t, []string{"red-tee"}, slugs(t, get(t, r, "/store/products?attr.color=RED")))
	assert.ElementsMatch(t, []string{"red-tee", "blue-tee"}, slugs(t, get(t, r, "/store/products?attr.Color=red,blue")))
	assert.Equal(t, []string{"blue-tee"}, slugs(t, get(t, r, "/store/products?attr.Color=red,blue&attr.Size=L")))
	assert.Empty(t, slugs(t, get(t, r, "/store/products?attr.Color=green")))
	assert.Equal(t, []string{"blue-tee"}, slugs(t, get(t, r, "/store/products?search=blue")))
}

func TestGetProduct(t *testing.T) {
	r, db := setup(t)

	tmpl := pages.Page{
		Title: "{{product.name}} | Shop", Slug: "product-template",
		Kind: pages.KindProduct, Status: pages.StatusPublished, IsDefault: true,
		Segments: []pages.Segment{{ID: "s", Columns: 1, Cells: []pages.GridCell{{
			ID: "c", ColSpan: 1, RowSpan: 1,
			Blocks: []pages.Block{pages.NewBlock("t", &pages.TextContent{Text: "{{product.attributes}} in {{category}}"})},
		}}}},
	}
	require.NoError(t, db.Create(&tmpl).Error)

	w := get(t, r, "/store/products/red-tee")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Product struct {
			Slug string `json:"slug"`
		} `json:"product"`
		Page pages.Page `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "red-tee", out.Product.Slug)
	assert.Equal(t, "Red Tee | Shop", out.Page.Title)
	text := out.Page.Blocks()[0].Content.(*pages.TextContent).Text
	assert.Equal(t, "Color: Red | Size: M in Shirts", text)

	assert.Equal(t, http.StatusNotFound, get(t, r, "/store/products/green-tee").Code)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/store/products/nope").Code)
}

func TestCategoriesAndBrands(t *testing.T) {
	r, _ := setup(t)

	assert.Equal(t, []string{"shirts"}, slugs(t, get(t, r, "/store/categories")))
	assert.Equal(t, []string{"acme"}, slugs(t, get(t, r, "/store/brands")))

	w := get(t, r, "/store/categories/shirts?limit=1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		ProductCount int      `json:"productCount"`
		Products     listJSON `json:"products"`
		Page         any      `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 2, out.ProductCount)
	assert.Equal(t, 2, out.Products.Total)
	assert.Len(t, out.Products.Items, 1)
	assert.Nil(t, out.Page)

	assert.Equal(t, http.StatusNotFound, get(t, r, "/store/categories/hidden").Code)
}

func TestGetPage(t *testing.T) {
	r, db := setup(t)
	require.NoError(t, db.Create(&pages.Page{Title: "FAQ", Slug: "faq", Kind: pages.KindPage, Status: pages.StatusPublished}).Error)

	w := get(t, r, "/store/pages/faq")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"title":"FAQ"`)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/store/pages/missing").Code)
}

const htmlTemplate = `{
  "title": "{{product.name}}",
  "kind": "product",
  "status": "published",
  "isDefault": true,
  "segments": [{
    "id": "s1", "columns": 1,
    "cells": [{
      "id": "c1", "colSpan": 1, "rowSpan": 1,
      "blocks": [
        {"id": "h1", "type": "html", "content": {"htmlContent": "<p>{{product.name}}</p><a href=\"/p/{{product.slug}}\">more</a><img src=\"{{product.images}}\">"}}
      ]
    }]
  }]
}`

func TestProductPageHTMLIsBoundThenSanitized(t *testing.T) {
	r, db := setup(t)
	validation.Register()
	admin := pagesapi.NewHandler(db, zap.NewNop(), render.NewLoader(db))
	r.POST("/admin/pages", admin.CreatePage)

	req := httptest.NewRequest(http.MethodPost, "/admin/pages", strings.NewReader(htmlTemplate))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	evil := catalog.Product{
		Name:   `<script>alert(1)</script>Evil <b onmouseover="x()">Tee</b>`,
		Slug:   "evil-tee",
		Status: catalog.StatusActive,
		Images: []string{"/img/evil.jpg"},
	}
	require.NoError(t, db.Create(&evil).Error)

	w = get(t, r, "/store/products/evil-tee")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Page pages.Page `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	blocks := out.Page.Blocks()
	require.Len(t, blocks, 1)
	html := blocks[0].Content.(*pages.HTMLContent).HTMLContent

	assert.Contains(t, html, `href="/p/evil-tee"`)
	assert.Contains(t, html, `src="/img/evil.jpg"`)
	assert.Contains(t, html, "Evil <b>Tee</b>")
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "onmouseover")
	assert.NotContains(t, html, "{{")
	assert.NotContains(t, html, "%7B")

	w = get(t, r, "/store/products/red-tee")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Contains(t, out.Page.Blocks()[0].Content.(*pages.HTMLContent).HTMLContent, `href="/p/red-tee"`)
}

func TestGetProductHidesInactiveVariants(t *testing.T) {
	r, db := setup(t)
	p := catalog.Product{
		Name: "Cap", Slug: "cap", Status: catalog.StatusActive, HasVariants: true,
		Variants: []catalog.Variant{
			{SKU: "CAP-S", Price: 10, Stock: 3, IsActive: true},
			{SKU: "CAP-XL", Price: 12, Stock: 9, IsActive: false, SortIndex: 1},
		},
	}
	require.NoError(t, db.Create(&p).Error)

	w := get(t, r, "/store/products/cap")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Product struct {
			Variants []struct {
				SKU string `json:"sku"`
			} `json:"variants"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Product.Variants, 1)
	assert.Equal(t, "CAP-S", out.Product.Variants[0].SKU)
	assert.NotContains(t, w.Body.String(), "CAP-XL")
}
