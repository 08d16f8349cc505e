// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
)

var (
	ErrNotFound = errors.New("product not found")

	ErrInvalidID        = errors.New("product: invalid id")
	ErrInvalidSlug      = errors.New("product: invalid slug")
	ErrInvalidName      = errors.New("product: invalid name")
	ErrInvalidPrice     = errors.New("product: invalid price")
	ErrInvalidSalePrice = errors.New("product: invalid salePrice")
	ErrInvalidRange     = errors.New("product: invalid price range")
	ErrInvalidStock     = errors.New("product: invalid stock")
	ErrInvalidVariant   = errors.New("product: invalid variant option")
)

// Policy
var (
	MaxNameLength = 200
	MinPrice      = int64(0)
	MaxPrice      = int64(1_000_000_000) // öre
)

// VariationDefinition is one named axis (e.g. "Color") with its admissible
// values in display order. Values within one axis are unique.
type VariationDefinition struct {
	Name   string   `json:"name" firestore:"name"`
	Values []string `json:"values" firestore:"values"`
}

// OptionPair is one (axis, value) coordinate of a variant.
type OptionPair struct {
	Axis  string `json:"axis" firestore:"axis"`
	Value string `json:"value" firestore:"value"`
}

// VariantOption is one concrete purchasable combination.
//
// Prices are minor units (öre). SalePrice is optional and only honored when
// lower than Price (pricing policy, see domain/pricing).
type VariantOption struct {
	ID        string       `json:"id" firestore:"id"`
	Options   []OptionPair `json:"options" firestore:"options"`
	Price     int64        `json:"price" firestore:"price"`
	SalePrice *int64       `json:"salePrice,omitempty" firestore:"salePrice,omitempty"`
	Stock     int          `json:"stock" firestore:"stock"`
	Disabled  bool         `json:"disabled" firestore:"disabled"`
}

// Product is an immutable catalog snapshot. It is fully validated at the
// fetch boundary; the domain layer never sees a partial record.
//
//   - Variations: ordered axis definitions (empty = simple product)
//   - VariantOptions: enumerated combinations (empty = simple product)
//   - Stock: only meaningful for simple products (variants carry their own)
//   - MinPrice/MaxPrice: displayed range while no variant is resolved
type Product struct {
	ID   string `json:"id" firestore:"id"`
	Slug string `json:"slug" firestore:"slug"`
	Name string `json:"name" firestore:"name"`
	Unit string `json:"unit,omitempty" firestore:"unit,omitempty"`

	Price     int64  `json:"price" firestore:"price"`
	SalePrice *int64 `json:"salePrice,omitempty" firestore:"salePrice,omitempty"`
	MinPrice  *int64 `json:"minPrice,omitempty" firestore:"minPrice,omitempty"`
	MaxPrice  *int64 `json:"maxPrice,omitempty" firestore:"maxPrice,omitempty"`

	Variations     []VariationDefinition `json:"variations,omitempty" firestore:"variations,omitempty"`
	VariantOptions []VariantOption       `json:"variantOptions,omitempty" firestore:"variantOptions,omitempty"`

	Stock   int      `json:"stock" firestore:"stock"`
	Tags    []string `json:"tags,omitempty" firestore:"tags,omitempty"`
	Gallery []string `json:"gallery,omitempty" firestore:"gallery,omitempty"`
}

// New normalizes and validates a product snapshot. Repositories decode raw
// documents into Product and pass them through here before anything
// downstream sees them.
func New(p Product) (Product, error) {
	p.ID = strings.TrimSpace(p.ID)
	p.Slug = strings.TrimSpace(p.Slug)
	p.Name = strings.TrimSpace(p.Name)
	p.Unit = strings.TrimSpace(p.Unit)
	p.Variations = normalizeDefinitions(p.Variations)
	p.VariantOptions = normalizeVariants(p.VariantOptions)

	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (p Product) Validate() error {
	if p.ID == "" {
		return ErrInvalidID
	}
	if p.Slug == "" {
		return ErrInvalidSlug
	}
	if p.Name == "" || len(p.Name) > MaxNameLength {
		return ErrInvalidName
	}
	if p.Price < MinPrice || p.Price > MaxPrice {
		return ErrInvalidPrice
	}
	if p.SalePrice != nil && (*p.SalePrice < MinPrice || *p.SalePrice > MaxPrice) {
		return ErrInvalidSalePrice
	}
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice {
		return ErrInvalidRange
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}

	for _, v := range p.VariantOptions {
		if v.ID == "" || v.Price < MinPrice || v.Price > MaxPrice || v.Stock < 0 {
			return ErrInvalidVariant
		}
		if v.SalePrice != nil && (*v.SalePrice < MinPrice || *v.SalePrice > MaxPrice) {
			return ErrInvalidVariant
		}
		if NormalizeKey(v.Options) == "" {
			return ErrInvalidVariant
		}
		// Duplicate (axis -> value) mappings are NOT rejected here: the page
		// must still render from such a record. BuildVariantIndex poisons the
		// duplicated key (with a log line) so resolution reports no-match
		// instead of picking one arbitrarily.
	}
	return nil
}

// HasVariants reports whether the product carries variation axes.
// Products without axes follow the simple-product path everywhere.
func (p Product) HasVariants() bool {
	return len(p.Variations) > 0
}

// FindVariantByID returns the variant option with the given id.
func (p Product) FindVariantByID(id string) (*VariantOption, bool) {
	for i := range p.VariantOptions {
		if p.VariantOptions[i].ID == id {
			return &p.VariantOptions[i], true
		}
	}
	return nil, false
}

// ----------------------------
// Helpers
// ----------------------------

// normalizeDefinitions drops blank axis names and duplicate values.
// Malformed axis data is treated as "no axes", never as an error.
func normalizeDefinitions(defs []VariationDefinition) []VariationDefinition {
	if len(defs) == 0 {
		return nil
	}
	out := make([]VariationDefinition, 0, len(defs))
	for _, d := range defs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			continue
		}
		seen := make(map[string]struct{}, len(d.Values))
		vals := make([]string, 0, len(d.Values))
		for _, v := range d.Values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			vals = append(vals, v)
		}
		if len(vals) == 0 {
			continue
		}
		out = append(out, VariationDefinition{Name: name, Values: vals})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeVariants(opts []VariantOption) []VariantOption {
	if len(opts) == 0 {
		return nil
	}
	out := make([]VariantOption, 0, len(opts))
	for _, v := range opts {
		v.ID = strings.TrimSpace(v.ID)
		pairs := make([]OptionPair, 0, len(v.Options))
		for _, p := range v.Options {
			axis := strings.TrimSpace(p.Axis)
			val := strings.TrimSpace(p.Value)
			if axis == "" || val == "" {
				continue
			}
			pairs = append(pairs, OptionPair{Axis: axis, Value: val})
		}
		v.Options = pairs
		out = append(out, v)
	}
	return out
}
