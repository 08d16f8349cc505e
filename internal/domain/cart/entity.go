// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"sort"
	"strings"
	"time"

	proddom "storefront/internal/domain/product"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")
	ErrNotFound    = errors.New("cart not found")
)

// DefaultCartTTL is the inactivity window after which the cart becomes
// eligible for auto deletion (Firestore TTL should be configured on
// expiresAt).
const DefaultCartTTL = 7 * 24 * time.Hour

// LineIdentity is the deterministic cart line key for a (product, variant)
// pair. Simple products use the bare product id; variant lines append the
// canonical variant key.
type LineIdentity string

// IdentityOf composes the line identity. variant may be nil (simple product
// or the no-axis matched shortcut).
func IdentityOf(productID string, variant *proddom.VariantOption) LineIdentity {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ""
	}
	if variant == nil {
		return LineIdentity(pid)
	}
	key := proddom.NormalizeKey(variant.Options)
	if key == "" {
		return LineIdentity(pid)
	}
	return LineIdentity(pid + "__" + key)
}

// Line is one cart line.
// UnitPrice is the minor-unit price snapshot taken when the line was first
// added; merging more quantity onto an existing line keeps the original
// snapshot.
type Line struct {
	Identity  LineIdentity `json:"identity" firestore:"identity"`
	ProductID string       `json:"productId" firestore:"productId"`
	VariantID string       `json:"variantId,omitempty" firestore:"variantId,omitempty"`
	Qty       int          `json:"qty" firestore:"qty"`
	UnitPrice int64        `json:"unitPrice" firestore:"unitPrice"`
}

// Cart is one cart document.
//   - docId = shopperId (Firestore)
//   - Lines: ordered line items, unique by Identity
//   - ExpiresAt: refreshed on each mutation (Firestore TTL basis)
type Cart struct {
	// ID is the Firestore docId (= shopperId).
	ID string `json:"id" firestore:"id"`

	Lines []Line `json:"lines" firestore:"lines"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
}

// NewCart creates a new cart doc. id is the Firestore docId (shopperId).
// lines can be nil (treated as empty).
func NewCart(id string, lines []Line, now time.Time) (*Cart, error) {
	c := &Cart{
		ID:        strings.TrimSpace(id),
		Lines:     cloneLines(lines),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(DefaultCartTTL),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Add merges qty onto the line for identity, creating the line when absent.
// qty must be >= 1. The caller runs the guard first; Add itself only keeps
// structural invariants.
func (c *Cart) Add(line Line, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	line.Identity = LineIdentity(strings.TrimSpace(string(line.Identity)))
	line.ProductID = strings.TrimSpace(line.ProductID)
	line.VariantID = strings.TrimSpace(line.VariantID)
	if line.Identity == "" || line.ProductID == "" || line.Qty <= 0 || line.UnitPrice < 0 {
		return ErrInvalidCart
	}

	if idx := findLineIndex(c.Lines, line.Identity); idx >= 0 {
		// keep the original unit price snapshot
		c.Lines[idx].Qty += line.Qty
	} else {
		c.Lines = append(c.Lines, line)
	}

	c.touch(now)
	return c.validate()
}

// SetQty sets the quantity for identity. qty <= 0 removes the line.
func (c *Cart) SetQty(id LineIdentity, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	id = LineIdentity(strings.TrimSpace(string(id)))
	if id == "" {
		return ErrInvalidCart
	}

	idx := findLineIndex(c.Lines, id)
	if qty <= 0 {
		if idx >= 0 {
			c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
		}
		c.touch(now)
		return c.validate()
	}
	if idx < 0 {
		return ErrInvalidCart
	}
	c.Lines[idx].Qty = qty

	c.touch(now)
	return c.validate()
}

// Remove removes the line for identity (no-op when absent).
func (c *Cart) Remove(id LineIdentity, now time.Time) error {
	return c.SetQty(id, 0, now)
}

// Clear empties the cart.
func (c *Cart) Clear(now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	c.Lines = []Line{}
	c.touch(now)
	return c.validate()
}

// QtyOf returns the quantity already in the cart for identity (0 if absent).
func (c *Cart) QtyOf(id LineIdentity) int {
	if c == nil {
		return 0
	}
	if idx := findLineIndex(c.Lines, id); idx >= 0 {
		return c.Lines[idx].Qty
	}
	return 0
}

// Total sums qty * unit price snapshot over all lines (öre).
func (c *Cart) Total() int64 {
	if c == nil {
		return 0
	}
	var sum int64
	for _, l := range c.Lines {
		sum += int64(l.Qty) * l.UnitPrice
	}
	return sum
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(DefaultCartTTL)
}

func (c *Cart) validate() error {
	if c == nil {
		return ErrInvalidCart
	}
	if strings.TrimSpace(c.ID) == "" {
		return ErrInvalidCart
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() || c.ExpiresAt.IsZero() {
		return ErrInvalidCart
	}
	if c.UpdatedAt.Before(c.CreatedAt) {
		return ErrInvalidCart
	}
	if c.ExpiresAt.Before(c.UpdatedAt) {
		return ErrInvalidCart
	}

	if len(c.Lines) == 0 {
		return nil
	}

	c.Lines = normalizeAndMerge(c.Lines)

	for _, l := range c.Lines {
		if strings.TrimSpace(string(l.Identity)) == "" ||
			strings.TrimSpace(l.ProductID) == "" ||
			l.Qty <= 0 || l.UnitPrice < 0 {
			return ErrInvalidCart
		}
	}
	return nil
}

// ----------------------------
// Helpers
// ----------------------------

func findLineIndex(lines []Line, id LineIdentity) int {
	for i := range lines {
		if lines[i].Identity == id {
			return i
		}
	}
	return -1
}

// normalizeAndMerge drops invalid lines, merges duplicates by identity
// (first snapshot wins for the unit price) and restores a stable order.
func normalizeAndMerge(src []Line) []Line {
	m := map[LineIdentity]Line{}
	for _, l := range src {
		l.Identity = LineIdentity(strings.TrimSpace(string(l.Identity)))
		l.ProductID = strings.TrimSpace(l.ProductID)
		l.VariantID = strings.TrimSpace(l.VariantID)
		if l.Identity == "" || l.ProductID == "" || l.Qty <= 0 || l.UnitPrice < 0 {
			continue
		}
		if exist, ok := m[l.Identity]; ok {
			exist.Qty += l.Qty
			m[l.Identity] = exist
		} else {
			m[l.Identity] = l
		}
	}

	keys := make([]LineIdentity, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]Line, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func cloneLines(src []Line) []Line {
	if len(src) == 0 {
		return []Line{}
	}
	cp := make([]Line, 0, len(src))
	cp = append(cp, src...)
	return normalizeAndMerge(cp)
}
