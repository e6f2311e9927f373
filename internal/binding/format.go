package binding

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// format renders a resolved value for insertion into text.
func format(v any, path string) string {
	switch x := normalize(v).(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case float64:
		if strings.Contains(strings.ToLower(path), "price") {
			return money(x)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		if lastSegment(path) == "images" {
			if len(x) == 0 {
				return ""
			}
			return imageURL(x[0])
		}
		parts := make([]string, 0, len(x))
		for _, el := range x {
			parts = append(parts, format(el, path))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if name, ok := x["name"]; ok && name != nil {
			return format(name, "")
		}
		data, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func nameOf(v any) string {
	switch x := normalize(v).(type) {
	case nil:
		return ""
	case map[string]any:
		return format(x["name"], "")
	default:
		return format(x, "")
	}
}

func imageURL(v any) string {
	if m, ok := normalize(v).(map[string]any); ok {
		return format(m["url"], "")
	}
	return format(v, "")
}

// variantPriceRange renders "$min - $max" over active variants, or a single
// price when all are equal.
func variantPriceRange(v any) (string, bool) {
	variants, ok := normalize(v).([]any)
	if !ok {
		return "", false
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for _, el := range variants {
		rec, ok := normalize(el).(map[string]any)
		if !ok || !isActive(rec) {
			continue
		}
		price, ok := normalize(rec["price"]).(float64)
		if !ok {
			continue
		}
		found = true
		lo = math.Min(lo, price)
		hi = math.Max(hi, price)
	}
	if !found {
		return "", false
	}
	if lo == hi {
		return money(lo), true
	}
	return money(lo) + " - " + money(hi), true
}

func formatVariantCount(v any) string {
	variants, _ := normalize(v).([]any)
	n := 0
	for _, el := range variants {
		if rec, ok := normalize(el).(map[string]any); ok && !isActive(rec) {
			continue
		}
		n++
	}
	if n == 0 {
		return "No variants"
	}
	return fmt.Sprintf("%d variant(s) available", n)
}

// formatAttributes renders "Color: Red, Blue | Size: M". It accepts the list
// form [{name, values}] and the keyed form {Color: [...]}.
func formatAttributes(v any) string {
	var parts []string
	switch x := normalize(v).(type) {
	case []any:
		for _, el := range x {
			rec, ok := normalize(el).(map[string]any)
			if !ok {
				continue
			}
			values := rec["values"]
			if values == nil {
				values = rec["value"]
			}
			parts = append(parts, attributePart(format(rec["name"], ""), values))
		}
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			values := x[k]
			if rec, ok := normalize(values).(map[string]any); ok {
				values = rec["values"]
			}
			parts = append(parts, attributePart(k, values))
		}
	default:
		return format(v, "")
	}
	return strings.Join(parts, " | ")
}

func attributePart(name string, values any) string {
	return name + ": " + format(values, "")
}

func isActive(rec map[string]any) bool {
	active, ok := rec["isActive"]
	if !ok || active == nil {
		return true
	}
	return truthy(active)
}

func truthy(v any) bool {
	switch x := normalize(v).(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	case nil:
		return false
	}
	return true
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

// normalize maps the shapes callers hand us (Record, typed slices, ints,
// json.Number) onto the handful of shapes format understands.
func normalize(v any) any {
	switch x := v.(type) {
	case nil, string, bool, float64, map[string]any, []any:
		return x
	case Record:
		return map[string]any(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return x.String()
		}
		return f
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case float32:
		return float64(x)
	case uint:
		return float64(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out
	case reflect.Int8, reflect.Int16:
		return float64(rv.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	}
	return v
}
