package listing

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"storefront-app/internal/domain/catalog"
	"storefront-app/internal/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brandFields = Fields{
	Search:      []string{"name", "slug"},
	Sort:        map[string]string{"name": "name", "createdAt": "created_at"},
	Filters:     map[string]Filter{"active": {Column: "active", Bool: true}},
	DefaultSort: "name asc",
}

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/brands?"+query, nil)
	return c
}

func TestParse_Defaults(t *testing.T) {
	p, err := Parse(contextWithQuery(""), brandFields)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Empty(t, p.Filters)
	assert.Equal(t, 0, p.Offset())
}

func TestParse_Values(t *testing.T) {
	p, err := Parse(contextWithQuery("page=3&limit=500&search=+Acme+&sort=-name&active=false&unknown=1"), brandFields)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, "Acme", p.Search)
	assert.Equal(t, "-name", p.Sort)
	assert.Equal(t, map[string]any{"active": false}, p.Filters)
	assert.Equal(t, 200, p.Offset())
}

func TestParse_Rejects(t *testing.T) {
	for _, q := range []string{"page=0", "page=x", "limit=-1", "sort=password", "active=maybe"} {
		_, err := Parse(contextWithQuery(q), brandFields)
		assert.ErrorIs(t, err, ErrBadQuery, q)
	}
}

func TestFind(t *testing.T) {
	db := testdb.New(t)
	for i := 1; i <= 5; i++ {
		require.NoError(t, db.Create(&catalog.Brand{
			Name:   fmt.Sprintf("Brand %d", i),
			Slug:   fmt.Sprintf("brand-%d", i),
			Active: i%2 == 1,
		}).Error)
	}
	require.NoError(t, db.Create(&catalog.Brand{Name: "ACME Tools", Slug: "acme-tools", Active: true}).Error)

	p, err := Parse(contextWithQuery("limit=2&sort=-name&active=true"), brandFields)
	require.NoError(t, err)
	res, err := Find[catalog.Brand](db.Model(&catalog.Brand{}), brandFields, p, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 4, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Brand 5", res.Items[0].Name)
	assert.Equal(t, "Brand 3", res.Items[1].Name)

	p, err = Parse(contextWithQuery("search=acme"), brandFields)
	require.NoError(t, err)
	res, err = Find[catalog.Brand](db.Model(&catalog.Brand{}), brandFields, p, nil)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "acme-tools", res.Items[0].Slug)

	p, err = Parse(contextWithQuery("search=nothing-like-this"), brandFields)
	require.NoError(t, err)
	res, err = Find[catalog.Brand](db.Model(&catalog.Brand{}), brandFields, p, nil)
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalPages)
}
