package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`-+`)
	validSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// MakeSlug generates a URL-safe slug from a display name.
// Example: "Red Running Shoes" -> "red-running-shoes"
func MakeSlug(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, " ", "-")
	base = strings.ReplaceAll(base, "_", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "item"
	}
	return base
}

// IsSlug reports whether s is already in canonical slug form.
func IsSlug(s string) bool {
	return validSlug.MatchString(s)
}

// UniqueSlug returns base, or base-2, base-3, ... whichever is not yet taken
// in the given model's table. excludeID lets an update keep its own slug.
func UniqueSlug(db *gorm.DB, model any, base, excludeID string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("db is nil")
	}
	base = MakeSlug(base)

	candidate := base
	for i := 2; i < 1000; i++ {
		q := db.Model(model).Where("slug = ?", candidate)
		if excludeID != "" {
			q = q.Where("id <> ?", excludeID)
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no free slug for %q", base)
}
