// internal/application/query/storefront/dto/product_dto.go
package dto

import (
	"storefront/internal/domain/pricing"
)

// ProductDetailDTO is the response shape for the product page.
// Exactly one of Price / PriceRange is set: Price for simple products and
// resolved single-price products, PriceRange while a variable product has no
// resolved variant.
type ProductDetailDTO struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
	Unit string `json:"unit,omitempty"`

	Price      *pricing.Quote      `json:"price,omitempty"`
	PriceRange *pricing.RangeQuote `json:"priceRange,omitempty"`

	Axes     []AxisDTO    `json:"axes,omitempty"`
	Variants []VariantDTO `json:"variants,omitempty"`

	Tags    []string `json:"tags,omitempty"`
	Gallery []string `json:"gallery,omitempty"` // resolved URLs

	InStock bool `json:"inStock"`
}

// AxisDTO is one variation axis in definition order.
type AxisDTO struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// VariantDTO is one purchasable combination with its own price block.
type VariantDTO struct {
	ID        string            `json:"id"`
	Options   map[string]string `json:"options"`
	Price     pricing.Quote     `json:"price"`
	Stock     int               `json:"stock"`
	Available bool              `json:"available"` // disabled or zero stock -> false
}
