package catalog

import "errors"

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNegativePrice     = errors.New("price must not be negative")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrAttributeValue    = errors.New("attribute value not allowed")
	ErrCategoryCycle     = errors.New("category cannot be its own ancestor")
)
