// Package listing implements the shared list contract of the admin and
// store APIs: page/limit pagination, search, sort and whitelisted filters.
package listing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var ErrBadQuery = errors.New("invalid list query")

// Filter maps a query parameter onto a column compared for equality.
type Filter struct {
	Column string
	Bool   bool
}

// Fields is the per-entity whitelist.
type Fields struct {
	Search      []string          // columns matched by ?search=
	Sort        map[string]string // ?sort=<key> or -<key>
	Filters     map[string]Filter // ?<key>=<value>
	DefaultSort string
}

type Params struct {
	Page    int
	Limit   int
	Search  string
	Sort    string
	Filters map[string]any
}

func (p Params) Offset() int { return (p.Page - 1) * p.Limit }

// Result is the list envelope.
type Result[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Parse reads the list parameters from the query string.
func Parse(c *gin.Context, fields Fields) (Params, error) {
	p := Params{Page: 1, Limit: DefaultLimit, Filters: map[string]any{}}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, fmt.Errorf("%w: page must be a positive integer", ErrBadQuery)
		}
		p.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, fmt.Errorf("%w: limit must be a positive integer", ErrBadQuery)
		}
		p.Limit = min(n, MaxLimit)
	}

	p.Search = strings.TrimSpace(c.Query("search"))

	if v := strings.TrimSpace(c.Query("sort")); v != "" {
		if _, ok := fields.Sort[strings.TrimPrefix(v, "-")]; !ok {
			return p, fmt.Errorf("%w: cannot sort by %q", ErrBadQuery, v)
		}
		p.Sort = v
	}

	for key, f := range fields.Filters {
		raw, ok := c.GetQuery(key)
		if !ok || raw == "" {
			continue
		}
		if f.Bool {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return p, fmt.Errorf("%w: %s must be true or false", ErrBadQuery, key)
			}
			p.Filters[key] = b
			continue
		}
		p.Filters[key] = raw
	}
	return p, nil
}

// Where applies search and filters.
func Where(q *gorm.DB, fields Fields, p Params) *gorm.DB {
	for key, v := range p.Filters {
		f, ok := fields.Filters[key]
		if !ok {
			continue
		}
		q = q.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: v})
	}
	if p.Search != "" && len(fields.Search) > 0 {
		like := "%" + strings.ToLower(p.Search) + "%"
		conds := make([]string, 0, len(fields.Search))
		args := make([]any, 0, len(fields.Search))
		for _, col := range fields.Search {
			conds = append(conds, fmt.Sprintf("LOWER(%s) LIKE ?", col))
			args = append(args, like)
		}
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	return q
}

// Order applies the requested sort, falling back to the default.
func Order(q *gorm.DB, fields Fields, p Params) *gorm.DB {
	if p.Sort == "" {
		if fields.DefaultSort != "" {
			q = q.Order(fields.DefaultSort)
		}
		return q
	}
	desc := strings.HasPrefix(p.Sort, "-")
	col := fields.Sort[strings.TrimPrefix(p.Sort, "-")]
	return q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc})
}

// Find counts and loads one page. base must be scoped to the model
// (db.Model(&T{}) or an equivalent Table call); prepare adds preloads and
// runs only for the item query.
func Find[T any](base *gorm.DB, fields Fields, p Params, prepare func(*gorm.DB) *gorm.DB) (Result[T], error) {
	res := Result[T]{Items: []T{}, Page: p.Page, Limit: p.Limit}

	q := Where(base, fields, p)
	if err := q.Session(&gorm.Session{}).Count(&res.Total).Error; err != nil {
		return res, err
	}

	q = Order(q.Session(&gorm.Session{}), fields, p).Offset(p.Offset()).Limit(p.Limit)
	if prepare != nil {
		q = prepare(q)
	}
	if err := q.Find(&res.Items).Error; err != nil {
		return res, err
	}

	if res.Total > 0 {
		res.TotalPages = int((res.Total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return res, nil
}
