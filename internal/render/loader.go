package render

import (
	"context"
	"errors"

	"storefront-app/internal/binding"
	"storefront-app/internal/domain/catalog"
	"storefront-app/internal/domain/pages"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Loader struct {
	db *gorm.DB
}

func NewLoader(db *gorm.DB) *Loader {
	return &Loader{db: db}
}

// ProductView is a product together with its bound template page. Page is
// nil when no template applies.
type ProductView struct {
	Product catalog.Product `json:"product"`
	Page    *pages.Page     `json:"page"`
}

type CategoryView struct {
	Category     catalog.Category  `json:"category"`
	Products     []catalog.Product `json:"products"`
	ProductCount int64             `json:"productCount"`
	Page         *pages.Page       `json:"page"`
}

func productGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Brand").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("sort_index ASC") }).
		Preload("AttributeValues", func(db *gorm.DB) *gorm.DB { return db.Order("sort_index ASC") })
}

// storeGraph is productGraph for public reads: inactive variants stay hidden.
func storeGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Brand").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_index ASC")
		}).
		Preload("AttributeValues", func(db *gorm.DB) *gorm.DB { return db.Order("sort_index ASC") })
}

// Bind resolves tokens in p and sanitizes the html blocks of the result.
func Bind(p pages.Page, ctx binding.Context, opts binding.Options) pages.Page {
	out := binding.ApplyBindingsToPage(p, ctx, opts)
	pages.SanitizeHTML(out.Segments)
	return out
}

// Product loads a product with everything a binding context needs.
func (l *Loader) Product(ctx context.Context, id string) (catalog.Product, error) {
	var p catalog.Product
	err := productGraph(l.db.WithContext(ctx)).First(&p, "id = ?", id).Error
	return p, err
}

// ActiveProduct loads an active product by slug with its active variants.
func (l *Loader) ActiveProduct(ctx context.Context, slug string) (catalog.Product, error) {
	var p catalog.Product
	err := storeGraph(l.db.WithContext(ctx)).
		First(&p, "slug = ? AND status = ?", slug, catalog.StatusActive).Error
	return p, err
}

// DefaultTemplate returns the published default page of the given kind, or
// nil if there is none.
func (l *Loader) DefaultTemplate(ctx context.Context, kind string) (*pages.Page, error) {
	var p pages.Page
	err := l.db.WithContext(ctx).
		Where("kind = ? AND is_default = ? AND status = ?", kind, true, pages.StatusPublished).
		Order("updated_at DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// publishedPage returns the page with the given id if it is published.
func (l *Loader) publishedPage(ctx context.Context, id *string) (*pages.Page, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	var p pages.Page
	err := l.db.WithContext(ctx).First(&p, "id = ? AND status = ?", *id, pages.StatusPublished).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PublishedPage loads a published page by slug.
func (l *Loader) PublishedPage(ctx context.Context, slug string) (pages.Page, error) {
	var p pages.Page
	err := l.db.WithContext(ctx).First(&p, "slug = ? AND status = ?", slug, pages.StatusPublished).Error
	return p, err
}

// RenderProduct loads the product and the default product template
// concurrently, prefers the product's own published page, and binds it.
func (l *Loader) RenderProduct(ctx context.Context, slug string) (ProductView, error) {
	var (
		view     ProductView
		fallback *pages.Page
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := l.ActiveProduct(gctx, slug)
		view.Product = p
		return err
	})
	g.Go(func() error {
		p, err := l.DefaultTemplate(gctx, pages.KindProduct)
		fallback = p
		return err
	})
	if err := g.Wait(); err != nil {
		return view, err
	}

	tmpl, err := l.publishedPage(ctx, view.Product.PageID)
	if err != nil {
		return view, err
	}
	if tmpl == nil {
		tmpl = fallback
	}
	if tmpl == nil {
		return view, nil
	}

	bctx, err := ProductContext(view.Product)
	if err != nil {
		return view, err
	}
	bound := Bind(*tmpl, bctx, binding.Options{})
	view.Page = &bound
	return view, nil
}

// RenderCategory loads an active category, one page of its active products,
// their count and the category template concurrently.
func (l *Loader) RenderCategory(ctx context.Context, slug string, offset, limit int) (CategoryView, error) {
	var view CategoryView
	db := l.db.WithContext(ctx)
	if err := db.First(&view.Category, "slug = ? AND active = ?", slug, true).Error; err != nil {
		return view, err
	}
	cat := view.Category

	active := func(db *gorm.DB) *gorm.DB {
		return db.Model(&catalog.Product{}).Where("category_id = ? AND status = ?", cat.ID, catalog.StatusActive)
	}

	var (
		own, fallback *pages.Page
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return active(l.db.WithContext(gctx)).Count(&view.ProductCount).Error
	})
	g.Go(func() error {
		view.Products = []catalog.Product{}
		return storeGraph(active(l.db.WithContext(gctx))).
			Order("featured DESC, name ASC").
			Offset(offset).Limit(limit).
			Find(&view.Products).Error
	})
	g.Go(func() error {
		p, err := l.publishedPage(gctx, cat.PageID)
		own = p
		return err
	})
	g.Go(func() error {
		p, err := l.DefaultTemplate(gctx, pages.KindCategory)
		fallback = p
		return err
	})
	if err := g.Wait(); err != nil {
		return view, err
	}

	tmpl := own
	if tmpl == nil {
		tmpl = fallback
	}
	if tmpl == nil {
		return view, nil
	}

	bctx, err := CategoryContext(cat, view.ProductCount)
	if err != nil {
		return view, err
	}
	bound := Bind(*tmpl, bctx, binding.Options{})
	view.Page = &bound
	return view, nil
}

// RenderPage binds a standalone published page. Tokens stay verbatim since
// nothing is bound.
func (l *Loader) RenderPage(ctx context.Context, slug string) (pages.Page, error) {
	p, err := l.PublishedPage(ctx, slug)
	if err != nil {
		return p, err
	}
	return Bind(p, binding.Context{}, binding.Options{}), nil
}
