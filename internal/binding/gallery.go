package binding

import (
	"fmt"
	"strings"

	"storefront-app/internal/domain/pages"
)

// galleryItems builds gallery entries from a product record's own images
// and/or its active variants' images, depending on keyword. URLs appear once,
// at their first position.
func galleryItems(product Record, keyword string) []pages.GalleryItem {
	name := format(product["name"], "")
	items := []pages.GalleryItem{}
	seen := map[string]bool{}

	add := func(id, url, alt string) {
		if url == "" || seen[url] {
			return
		}
		seen[url] = true
		items = append(items, pages.GalleryItem{
			ID:        id,
			Type:      "image",
			URL:       url,
			Alt:       alt,
			Thumbnail: url,
		})
	}

	if keyword != pages.GalleryVariantImages {
		for i, u := range imageList(product["images"]) {
			add(fmt.Sprintf("product-image-%d", i), u, name)
		}
	}
	if keyword != pages.GalleryBaseImages {
		variants, _ := normalize(product["variants"]).([]any)
		for vi, el := range variants {
			v, ok := normalize(el).(map[string]any)
			if !ok || !isActive(v) {
				continue
			}
			vid := format(v["id"], "")
			if vid == "" {
				vid = fmt.Sprint(vi)
			}
			alt := name
			if label := variantLabel(v); label != "" {
				alt = name + " - " + label
			}
			for ii, u := range imageList(v["images"]) {
				add(fmt.Sprintf("variant-%s-image-%d", vid, ii), u, alt)
			}
		}
	}
	return items
}

func imageList(v any) []string {
	list, _ := normalize(v).([]any)
	out := make([]string, 0, len(list))
	for _, el := range list {
		if u := imageURL(el); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func variantLabel(v map[string]any) string {
	options, _ := normalize(v["options"]).([]any)
	var parts []string
	for _, el := range options {
		if o, ok := normalize(el).(map[string]any); ok {
			if val := format(o["value"], ""); val != "" {
				parts = append(parts, val)
			}
		}
	}
	return strings.Join(parts, " / ")
}
