// internal/domain/selection/resolver.go
package selection

import (
	proddom "storefront/internal/domain/product"
)

// Status is the outcome class of matching a selection against a product.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusNoMatch    Status = "no-match"
	StatusMatched    Status = "matched"
)

// Match is the derived result of resolving (product, selection).
// It is recomputed on every selection change, never stored.
//
// Variant is nil for the simple-product path (matched with no variant) and
// for every non-matched status.
type Match struct {
	Status  Status
	Variant *proddom.VariantOption
}

// Matched reports whether the add-to-cart action may proceed to the guard.
func (m Match) Matched() bool { return m.Status == StatusMatched }

// Resolver resolves selections against one product. The attribute and
// variant indices are built once per product load (single-pass O(n)), every
// Resolve afterwards is an O(1) key lookup.
type Resolver struct {
	ix proddom.AttributeIndex
	vi proddom.VariantIndex
}

// NewResolver builds the per-product indices.
func NewResolver(p proddom.Product) *Resolver {
	return &Resolver{
		ix: proddom.BuildIndex(p),
		vi: proddom.BuildVariantIndex(p),
	}
}

// Index exposes the attribute index (for Selection.Set validation and DTOs).
func (r *Resolver) Index() proddom.AttributeIndex { return r.ix }

// Resolve matches the selection. Pure and idempotent: the same
// (product, selection) always yields the same result.
//
//  1. Empty index: always matched with no variant (simple product).
//  2. Incomplete unless every defined axis is chosen.
//  3. Complete selections resolve by canonical key lookup. A key that hits a
//     duplicate mapping (uniqueness invariant violated in source data) is
//     poisoned inside the variant index and resolves to no-match.
func (r *Resolver) Resolve(s *Selection) Match {
	if r == nil || r.ix.Empty() {
		return Match{Status: StatusMatched}
	}
	if !Complete(r.ix, s) {
		return Match{Status: StatusIncomplete}
	}

	key := proddom.SelectionKey(r.ix, s.Snapshot())
	v, ok := r.vi.Lookup(key)
	if !ok {
		return Match{Status: StatusNoMatch}
	}
	return Match{Status: StatusMatched, Variant: &v}
}

// Resolve is the one-shot convenience form; prefer NewResolver when the same
// product is resolved repeatedly.
func Resolve(p proddom.Product, s *Selection) Match {
	return NewResolver(p).Resolve(s)
}
