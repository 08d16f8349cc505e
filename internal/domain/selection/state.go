// internal/domain/selection/state.go
package selection

// State is the per-product selection session state.
//
//	NoSelection -> PartialSelection -> CompleteSelection{Matched|Unmatched}
//
// The state is derived from (index, selection) on demand, so contradictory
// combinations ("matched" and "incomplete" at once) cannot be represented.
// Transitions happen only on user edits; there is no timeout.
type State string

const (
	StateNoSelection       State = "no-selection"
	StatePartialSelection  State = "partial-selection"
	StateCompleteMatched   State = "complete-matched"
	StateCompleteUnmatched State = "complete-unmatched"
)

// StateOf derives the session state for a selection against a resolver.
// Products without axes are always complete-matched (simple-product path).
func StateOf(r *Resolver, s *Selection) State {
	if r == nil || r.Index().Empty() {
		return StateCompleteMatched
	}
	// Only defined axes count toward the session state; unrelated keys in
	// the selection are ignored, same as in the completeness check.
	chosen := 0
	for _, axis := range r.Index().Axes() {
		if _, ok := s.Get(axis); ok {
			chosen++
		}
	}
	if chosen == 0 {
		return StateNoSelection
	}
	m := r.Resolve(s)
	switch m.Status {
	case StatusMatched:
		return StateCompleteMatched
	case StatusNoMatch:
		return StateCompleteUnmatched
	default:
		return StatePartialSelection
	}
}

// AllowsAdd reports whether the state permits the add-to-cart action to
// proceed to the cart guard. Only a matched complete selection (or the
// no-axis shortcut) qualifies.
func (st State) AllowsAdd() bool {
	return st == StateCompleteMatched
}
