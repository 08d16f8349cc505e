// internal/domain/product/index.go
package product

import (
	"log"
	"sort"
	"strings"
)

// AttributeIndex maps axis name -> admissible values (definition order).
// Built once per product load; read-only afterwards.
type AttributeIndex struct {
	axes   []string
	values map[string][]string
}

// BuildIndex builds the attribute lookup for a product.
// A product without variation definitions yields an empty index and every
// downstream step treats it as a simple (non-variant) product.
func BuildIndex(p Product) AttributeIndex {
	defs := p.Variations
	if len(defs) == 0 {
		return AttributeIndex{}
	}

	ix := AttributeIndex{
		axes:   make([]string, 0, len(defs)),
		values: make(map[string][]string, len(defs)),
	}
	for _, d := range defs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			continue
		}
		if _, dup := ix.values[name]; dup {
			// last definition wins would be ambiguous; keep the first
			continue
		}
		vals := append([]string(nil), d.Values...)
		ix.axes = append(ix.axes, name)
		ix.values[name] = vals
	}
	return ix
}

// Empty reports whether the product has no variation axes.
func (ix AttributeIndex) Empty() bool { return len(ix.axes) == 0 }

// AxisCount returns the number of defined axes.
func (ix AttributeIndex) AxisCount() int { return len(ix.axes) }

// Axes returns axis names in definition order.
func (ix AttributeIndex) Axes() []string {
	return append([]string(nil), ix.axes...)
}

// Values returns the admissible values for an axis (definition order).
func (ix AttributeIndex) Values(axis string) []string {
	return append([]string(nil), ix.values[axis]...)
}

// HasAxis reports whether axis is a defined axis name.
func (ix AttributeIndex) HasAxis(axis string) bool {
	_, ok := ix.values[axis]
	return ok
}

// HasValue reports whether value is admissible for axis.
func (ix AttributeIndex) HasValue(axis, value string) bool {
	for _, v := range ix.values[axis] {
		if v == value {
			return true
		}
	}
	return false
}

// ============================================================
// Variant key index
// ============================================================

// NormalizeKey folds (axis, value) pairs into a canonical string key.
// Pairs are trimmed and sorted so that ordering can never affect equality.
// Empty pairs yield "" (callers treat that as "no key").
func NormalizeKey(pairs []OptionPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		axis := strings.TrimSpace(p.Axis)
		val := strings.TrimSpace(p.Value)
		if axis == "" || val == "" {
			continue
		}
		parts = append(parts, axis+"="+val)
	}
	if len(parts) == 0 {
		return ""
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}

// SelectionKey builds the canonical key for a complete selection over the
// given axes. Extra keys in sel are ignored; a missing axis yields "".
func SelectionKey(ix AttributeIndex, sel map[string]string) string {
	if ix.Empty() {
		return ""
	}
	pairs := make([]OptionPair, 0, len(ix.axes))
	for _, axis := range ix.axes {
		val, ok := sel[axis]
		if !ok || strings.TrimSpace(val) == "" {
			return ""
		}
		pairs = append(pairs, OptionPair{Axis: axis, Value: val})
	}
	return NormalizeKey(pairs)
}

// VariantIndex maps canonical option keys to variant options.
// Duplicate keys violate the uniqueness invariant; the key is poisoned so
// lookups against it report no match instead of picking one arbitrarily.
type VariantIndex struct {
	byKey    map[string]VariantOption
	poisoned map[string]struct{}
}

// BuildVariantIndex builds the O(1) lookup from a product's variant options.
func BuildVariantIndex(p Product) VariantIndex {
	vi := VariantIndex{
		byKey:    make(map[string]VariantOption, len(p.VariantOptions)),
		poisoned: nil,
	}
	for _, v := range p.VariantOptions {
		key := NormalizeKey(v.Options)
		if key == "" {
			continue
		}
		if _, dup := vi.byKey[key]; dup {
			if vi.poisoned == nil {
				vi.poisoned = make(map[string]struct{}, 1)
			}
			if _, logged := vi.poisoned[key]; !logged {
				log.Printf("[product.index] WARN: duplicate variant mapping product=%s key=%q (treating as unmatched)", p.ID, key)
			}
			vi.poisoned[key] = struct{}{}
			continue
		}
		vi.byKey[key] = v
	}
	return vi
}

// Lookup returns the variant for a canonical key.
// Poisoned keys (duplicate mappings in the source data) never match.
func (vi VariantIndex) Lookup(key string) (VariantOption, bool) {
	if key == "" {
		return VariantOption{}, false
	}
	if _, bad := vi.poisoned[key]; bad {
		return VariantOption{}, false
	}
	v, ok := vi.byKey[key]
	return v, ok
}

// Len returns the number of resolvable variants.
func (vi VariantIndex) Len() int { return len(vi.byKey) }
