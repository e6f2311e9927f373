// Package validation registers the custom binding tags used by request DTOs.
package validation

import (
	"sync"

	"storefront-app/internal/domain/catalog"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// Register installs the "slug" tag on gin's validator. Safe to call more
// than once.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return catalog.IsSlug(fl.Field().String())
		})
	})
}
