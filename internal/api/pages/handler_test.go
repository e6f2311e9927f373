package pages

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Register()

	db := testdb.New(t)
	h := NewHandler(db, zap.NewNop(), render.NewLoader(db))

	r := gin.New()
	r.GET("/pages", h.ListPages)
	r.POST("/pages", h.CreatePage)
	r.GET("/pages/:id", h.GetPage)
	r.PUT("/pages/:id", h.UpdatePage)
	r.DELETE("/pages/:id", h.DeletePage)
	r.POST("/pages/:id/duplicate", h.DuplicatePage)
	r.POST("/pages/:id/preview", h.PreviewPage)
	return r, db
}

func send(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) pages.Page {
	t.Helper()
	var p pages.Page
	require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&p), w.Body.String())
	return p
}

const productTemplate = `{
  "title": "{{product.name}}",
  "kind": "product",
  "status": "published",
  "isDefault": true,
  "segments": [{
    "id": "s1", "columns": 12,
    "cells": [{
      "id": "c1", "column": 0, "row": 0, "colSpan": 12, "rowSpan": 1,
      "blocks": [
        {"id": "b1", "type": "heading", "content": {"text": "{{product.name}} by {{customer.name}}", "level": 1}},
        {"id": "b2", "type": "html", "content": {"htmlContent": "<p onclick=\"x()\">{{product.price}}</p><script>bad()</script>"}},
        {"id": "b3", "type": "mediaGallery", "content": {"items": [{"id": "static", "type": "image", "url": "/static.jpg"}]}}
      ]
    }]
  }]
}`

func TestCreateAndGetPage(t *testing.T) {
	r, _ := newTestRouter(t)

	w := send(t, r, http.MethodPost, "/pages", productTemplate)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decodePage(t, w)
	assert.Equal(t, "productname", p.Slug)
	assert.True(t, p.IsDefault)

	w = send(t, r, http.MethodGet, "/pages/"+p.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decodePage(t, w)
	blocks := got.Blocks()
	require.Len(t, blocks, 3)
	html, ok := blocks[1].Content.(*pages.HTMLContent)
	require.True(t, ok)
	assert.Equal(t, "<p>{{product.price}}</p>", html.HTMLContent)
}

func TestCreatePage_Rejects(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := map[string]string{
		"unknown block": `{"title": "x", "segments": [{"id": "s", "columns": 1, "cells": [{"id": "c", "colSpan": 1, "rowSpan": 1,
			"blocks": [{"id": "b", "type": "marquee", "content": {}}]}]}]}`,
		"overflowing cell": `{"title": "x", "segments": [{"id": "s", "columns": 2, "cells": [{"id": "c", "column": 1, "colSpan": 2, "rowSpan": 1}]}]}`,
		"bad kind":         `{"title": "x", "kind": "blog"}`,
		"missing title":    `{"slug": "x"}`,
		"duplicate block ids": `{"title": "x", "segments": [{"id": "s", "columns": 1, "cells": [{"id": "c", "colSpan": 1, "rowSpan": 1,
			"blocks": [{"id": "b", "type": "spacer", "content": {}}, {"id": "b", "type": "divider", "content": {}}]}]}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := send(t, r, http.MethodPost, "/pages", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestSingleDefaultPerKind(t *testing.T) {
	r, db := newTestRouter(t)

	first := decodePage(t, send(t, r, http.MethodPost, "/pages", productTemplate))
	second := decodePage(t, send(t, r, http.MethodPost, "/pages", productTemplate))
	assert.Equal(t, "productname-2", second.Slug)

	var reloaded pages.Page
	require.NoError(t, db.First(&reloaded, "id = ?", first.ID).Error)
	assert.False(t, reloaded.IsDefault)

	// plain pages are never defaults
	w := send(t, r, http.MethodPost, "/pages", `{"title": "About", "isDefault": true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.False(t, decodePage(t, w).IsDefault)

	w = send(t, r, http.MethodGet, "/pages?kind=product&isDefault=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Contains(t, w.Body.String(), second.ID)
}

func TestDuplicateAndDelete(t *testing.T) {
	r, db := newTestRouter(t)
	src := decodePage(t, send(t, r, http.MethodPost, "/pages", productTemplate))

	w := send(t, r, http.MethodPost, "/pages/"+src.ID+"/duplicate", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cp := decodePage(t, w)
	assert.NotEqual(t, src.ID, cp.ID)
	assert.Equal(t, "productname-copy", cp.Slug)
	assert.Equal(t, "{{product.name}} (Copy)", cp.Title)
	assert.Equal(t, pages.StatusDraft, cp.Status)
	assert.False(t, cp.IsDefault)
	assert.Len(t, cp.Blocks(), 3)

	prod := catalog.Product{Name: "P", Slug: "p", PageID: &cp.ID}
	require.NoError(t, db.Create(&prod).Error)

	w = send(t, r, http.MethodDelete, "/pages/"+cp.ID, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.NoError(t, db.First(&prod, "id = ?", prod.ID).Error)
	assert.Nil(t, prod.PageID)

	w = send(t, r, http.MethodPost, "/pages/"+cp.ID+"/duplicate", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewPage(t *testing.T) {
	r, db := newTestRouter(t)
	tmpl := decodePage(t, send(t, r, http.MethodPost, "/pages", productTemplate))

	prod := catalog.Product{Name: "Kettle", Slug: "kettle", Price: 30, Images: []string{"/k1.jpg"}}
	require.NoError(t, db.Create(&prod).Error)

	body, err := json.Marshal(PreviewRequest{
		ProductID: &prod.ID,
		Customer:  map[string]any{"name": "Grace"},
	})
	require.NoError(t, err)

	w := send(t, r, http.MethodPost, "/pages/"+tmpl.ID+"/preview", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decodePage(t, w)
	assert.Equal(t, "Kettle", out.Title)
	blocks := out.Blocks()
	assert.Equal(t, "Kettle by Grace", blocks[0].Content.(*pages.HeadingContent).Text)
	assert.Equal(t, "<p>$30.00</p>", blocks[1].Content.(*pages.HTMLContent).HTMLContent)
	gallery := blocks[2].Content.(*pages.MediaGalleryContent)
	require.Len(t, gallery.Items, 1)
	assert.Equal(t, "/k1.jpg", gallery.Items[0].URL)

	// skipping the gallery keeps the authored items
	body, err = json.Marshal(PreviewRequest{ProductID: &prod.ID, SkipMediaGallery: true})
	require.NoError(t, err)
	out = decodePage(t, send(t, r, http.MethodPost, "/pages/"+tmpl.ID+"/preview", string(body)))
	gallery = out.Blocks()[2].Content.(*pages.MediaGalleryContent)
	require.Len(t, gallery.Items, 1)
	assert.Equal(t, "/static.jpg", gallery.Items[0].URL)

	// nothing bound leaves tokens verbatim
	out = decodePage(t, send(t, r, http.MethodPost, "/pages/"+tmpl.ID+"/preview", ""))
	assert.Equal(t, "{{product.name}}", out.Title)

	missing := "missing"
	body, err = json.Marshal(PreviewRequest{ProductID: &missing})
	require.NoError(t, err)
	w = send(t, r, http.MethodPost, "/pages/"+tmpl.ID+"/preview", string(body))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewPage_SanitizesBoundHTML(t *testing.T) {
	r, _ := newTestRouter(t)
	page := `{"title": "Hi", "segments": [{"id": "s", "columns": 1, "cells": [{"id": "c", "colSpan": 1, "rowSpan": 1,
		"blocks": [{"id": "h", "type": "html", "content": {"htmlContent": "<a href=\"/c/{{customer.id}}\">{{customer.name}}</a>"}}]}]}]}`
	tmpl := decodePage(t, send(t, r, http.MethodPost, "/pages", page))
	stored := tmpl.Blocks()[0].Content.(*pages.HTMLContent).HTMLContent
	assert.Contains(t, stored, `href="/c/{{customer.id}}"`)

	body, err := json.Marshal(PreviewRequest{
		Customer: map[string]any{"id": "42", "name": `<img src=x onerror="alert(1)">Mallory`},
	})
	require.NoError(t, err)
	w := send(t, r, http.MethodPost, "/pages/"+tmpl.ID+"/preview", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	html := decodePage(t, w).Blocks()[0].Content.(*pages.HTMLContent).HTMLContent
	assert.Contains(t, html, `href="/c/42"`)
	assert.Contains(t, html, "Mallory</a>")
	assert.NotContains(t, html, "onerror")
}
