// internal/domain/pricing/quote.go
package pricing

import (
	proddom "storefront/internal/domain/product"
)

// Amounts are minor units (öre). The display strings come from an injected
// Formatter so the core never depends on locale machinery.

// Quote is the authoritative price block for a single resolvable price.
//
//   - Price: formatted effective price (sale when lower than base)
//   - BasePrice: formatted base, only set when a discount exists
//   - DiscountAmount: only set when a discount exists
//   - DiscountPercent / Discount: only set when the rounded percent is
//     nonzero; percent carries the reduction sign convention (e.g. -20)
type Quote struct {
	Amount     int64  `json:"amount"`
	BaseAmount int64  `json:"baseAmount"`
	Price      string `json:"price"`
	BasePrice  string `json:"basePrice,omitempty"`

	DiscountAmount  *int64 `json:"discountAmount,omitempty"`
	DiscountPercent *int   `json:"discountPercent,omitempty"`
	Discount        string `json:"discount,omitempty"` // e.g. "-20%"
}

// RangeQuote is the price block for an unresolved variable product.
// No discount computation happens in range mode.
type RangeQuote struct {
	MinAmount int64  `json:"minAmount"`
	MaxAmount int64  `json:"maxAmount"`
	MinPrice  string `json:"minPrice"`
	MaxPrice  string `json:"maxPrice"`
}

// Compute derives the quote for (source, base).
// source is the sale price when present and lower than base, else base;
// callers that have no sale price pass source == base.
func Compute(source, base int64, f Formatter) Quote {
	if f == nil {
		f = DefaultFormatter
	}
	if base <= 0 {
		base = source
	}
	// A "sale" at or above base is not a discount.
	if source >= base {
		source = base
	}

	q := Quote{
		Amount:     source,
		BaseAmount: base,
		Price:      f.Format(source),
	}
	if source < base {
		amt := base - source
		q.BasePrice = f.Format(base)
		q.DiscountAmount = &amt
		// A reduction under half a percent rounds to 0; a "0%" badge reads
		// as no discount, so the percent fields stay unset for those.
		if pct := discountPercent(source, base); pct > 0 {
			neg := -pct
			q.DiscountPercent = &neg
			q.Discount = percentText(neg)
		}
	}
	return q
}

// ComputeFor picks the amounts for a product or its resolved variant and
// delegates to Compute. A nil variant means the base product's own prices.
func ComputeFor(p proddom.Product, v *proddom.VariantOption, f Formatter) Quote {
	base := p.Price
	sale := p.SalePrice
	if v != nil {
		base = v.Price
		sale = v.SalePrice
	}
	source := base
	if sale != nil && *sale < base {
		source = *sale
	}
	return Compute(source, base, f)
}

// ComputeRange formats the min/max display for a variable product while no
// variant is resolved. min > max is normalized by swapping.
func ComputeRange(min, max int64, f Formatter) RangeQuote {
	if f == nil {
		f = DefaultFormatter
	}
	if min > max {
		min, max = max, min
	}
	return RangeQuote{
		MinAmount: min,
		MaxAmount: max,
		MinPrice:  f.Format(min),
		MaxPrice:  f.Format(max),
	}
}

// discountPercent computes round-half-up((1 - source/base) * 100) in integer
// arithmetic. base must be > 0 and source <= base here.
func discountPercent(source, base int64) int {
	diff := base - source
	return int((200*diff + base) / (2 * base))
}
