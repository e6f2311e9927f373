// Package render loads the entities behind a storefront or preview render
// and binds them into page templates.
package render

import (
	"fmt"

	"storefront-app/internal/binding"
	"storefront-app/internal/domain/catalog"
)

// ProductContext binds a product and, when loaded, its category.
func ProductContext(p catalog.Product) (binding.Context, error) {
	rec, err := binding.RecordOf(p)
	if err != nil {
		return nil, fmt.Errorf("bind product: %w", err)
	}
	ctx := binding.Context{binding.SourceProduct: rec}
	if p.Category != nil {
		cat, err := binding.RecordOf(p.Category)
		if err != nil {
			return nil, fmt.Errorf("bind category: %w", err)
		}
		ctx[binding.SourceCategory] = cat
	}
	return ctx, nil
}

// CategoryContext binds a category together with the collection of its
// products: {"name": ..., "productCount": ...}.
func CategoryContext(cat catalog.Category, productCount int64) (binding.Context, error) {
	rec, err := binding.RecordOf(cat)
	if err != nil {
		return nil, fmt.Errorf("bind category: %w", err)
	}
	return binding.Context{
		binding.SourceCategory: rec,
		binding.SourceCollection: binding.Record{
			"name":         cat.Name,
			"productCount": productCount,
		},
	}, nil
}
