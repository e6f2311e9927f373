package binding

import (
	"regexp"
	"strconv"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// ReplaceBindings substitutes every {{source.path}} token in text.
func ReplaceBindings(text string, ctx Context) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		inner := strings.TrimSpace(token[2 : len(token)-2])
		source, path, _ := strings.Cut(inner, ".")
		record, ok := ctx[Source(strings.TrimSpace(source))]
		if !ok {
			return token
		}
		return resolve(record, strings.TrimSpace(path))
	})
}

func resolve(record Record, path string) string {
	if record == nil {
		return ""
	}
	switch path {
	case "":
		return format(map[string]any(record), "")
	case "category", "brand", "category.name", "brand.name":
		head, _, _ := strings.Cut(path, ".")
		return nameOf(record[head])
	case "price":
		if truthy(record["hasVariants"]) {
			if s, ok := variantPriceRange(record["variants"]); ok {
				return s
			}
		}
	case "attributes", "attributeDefinitions":
		if v, ok := record[path]; ok && v != nil {
			return formatAttributes(v)
		}
		return ""
	case "variants":
		return formatVariantCount(record["variants"])
	}

	v, ok := lookup(record, path)
	if !ok || v == nil {
		return ""
	}
	return format(v, path)
}

// lookup walks a dot path through nested records; numeric segments index
// into arrays.
func lookup(record Record, path string) (any, bool) {
	var cur any = map[string]any(record)
	for _, seg := range strings.Split(path, ".") {
		switch node := normalize(cur).(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
