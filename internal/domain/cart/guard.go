// internal/domain/cart/guard.go
package cart

import (
	proddom "storefront/internal/domain/product"
)

// Reason classifies a declined add. The guard is advisory: it never mutates
// the cart, it only tells the caller whether addLine may proceed and why not.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonInvalidQuantity Reason = "invalid_quantity" // UI bug, never shown to shoppers
	ReasonOutOfStock      Reason = "out_of_stock"
	ReasonStockExceeded   Reason = "stock_exceeded"
)

// AvailableStock derives the stock ceiling for a resolved line.
// A disabled variant always counts as zero stock regardless of its numeric
// stock field; a nil variant means the simple-product path.
func AvailableStock(p proddom.Product, variant *proddom.VariantOption) int {
	if variant == nil {
		return p.Stock
	}
	if variant.Disabled {
		return 0
	}
	return variant.Stock
}

// CanAdd evaluates whether requestedQty may be added for identity given the
// current cart contents and the stock ceiling.
//
// Rules, in order:
//   - requestedQty <= 0 -> invalid_quantity
//   - availableStock == 0 -> out_of_stock, regardless of cart content
//   - existing + requested > availableStock -> stock_exceeded
//     (the boundary existing + requested == availableStock is allowed)
//
// c may be nil (treated as an empty cart).
func CanAdd(c *Cart, id LineIdentity, requestedQty, availableStock int) (bool, Reason) {
	if requestedQty <= 0 {
		return false, ReasonInvalidQuantity
	}
	if availableStock <= 0 {
		return false, ReasonOutOfStock
	}
	if c.QtyOf(id)+requestedQty > availableStock {
		return false, ReasonStockExceeded
	}
	return true, ReasonNone
}

// RemainingFor returns how many more units of identity the shopper may add
// (the "only N left" label and the quantity stepper ceiling share this).
// Never negative.
func RemainingFor(c *Cart, id LineIdentity, availableStock int) int {
	if availableStock <= 0 {
		return 0
	}
	rest := availableStock - c.QtyOf(id)
	if rest < 0 {
		return 0
	}
	return rest
}
