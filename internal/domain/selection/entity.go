// internal/domain/selection/entity.go
package selection

import (
	"errors"
	"strings"

	proddom "storefront/internal/domain/product"
)

var (
	ErrUnknownAxis  = errors.New("selection: unknown axis")
	ErrUnknownValue = errors.New("selection: unknown value for axis")
	ErrEmptyValue   = errors.New("selection: empty value")
)

// Selection is the shopper's in-progress choice of one value per axis.
// It lives only for the duration of a product page view and is never
// persisted. A value, once set, may be overwritten or cleared.
type Selection struct {
	chosen map[string]string
}

// New returns an empty selection.
func New() *Selection {
	return &Selection{chosen: map[string]string{}}
}

// FromMap builds a selection from raw axis -> value input (e.g. a request
// body). Entries are trimmed; blank axes or values are dropped. No axis
// validation happens here — Resolve ignores undefined axes and treats
// unknown values as contributing to no-match.
func FromMap(m map[string]string) *Selection {
	s := New()
	for axis, val := range m {
		axis = strings.TrimSpace(axis)
		val = strings.TrimSpace(val)
		if axis == "" || val == "" {
			continue
		}
		s.chosen[axis] = val
	}
	return s
}

// Set validates axis and value against the product's attribute index and
// records the choice. UIs that validate at input time use this; raw inputs
// that skip validation still resolve safely (to no-match) via FromMap.
func (s *Selection) Set(ix proddom.AttributeIndex, axis, value string) error {
	axis = strings.TrimSpace(axis)
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyValue
	}
	if !ix.HasAxis(axis) {
		return ErrUnknownAxis
	}
	if !ix.HasValue(axis, value) {
		return ErrUnknownValue
	}
	if s.chosen == nil {
		s.chosen = map[string]string{}
	}
	s.chosen[axis] = value
	return nil
}

// Clear removes the choice for axis (no-op when absent).
func (s *Selection) Clear(axis string) {
	delete(s.chosen, strings.TrimSpace(axis))
}

// Get returns the chosen value for axis.
func (s *Selection) Get(axis string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.chosen[axis]
	return v, ok
}

// Len returns the number of chosen axes.
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.chosen)
}

// Snapshot returns a copy of the current choices.
func (s *Selection) Snapshot() map[string]string {
	if s == nil || len(s.chosen) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(s.chosen))
	for k, v := range s.chosen {
		out[k] = v
	}
	return out
}

// Complete reports whether every defined axis has a chosen value.
// Extra unrelated keys in the selection are ignored; only defined axes count.
func Complete(ix proddom.AttributeIndex, s *Selection) bool {
	if ix.Empty() {
		return true
	}
	if s == nil {
		return false
	}
	for _, axis := range ix.Axes() {
		v, ok := s.chosen[axis]
		if !ok || strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
