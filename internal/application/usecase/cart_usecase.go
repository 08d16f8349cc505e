// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/pricing"
	proddom "storefront/internal/domain/product"
	seldom "storefront/internal/domain/selection"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
	ErrCartNotFound        = errors.New("cart_usecase: not found")

	// selection / matching outcomes surfaced to the handler layer
	ErrSelectionIncomplete = errors.New("cart_usecase: selection incomplete")
	ErrVariantNotFound     = errors.New("cart_usecase: no matching variant")

	// guard refusals
	ErrInvalidQuantity = errors.New("cart_usecase: invalid quantity")
	ErrOutOfStock      = errors.New("cart_usecase: out of stock")
	ErrStockExceeded   = errors.New("cart_usecase: stock exceeded")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// CartUsecase coordinates resolve -> guard -> add against the cart store.
// The guard itself never mutates anything; only this usecase applies the add
// through the repository after an allowed verdict.
type CartUsecase struct {
	carts    cartdom.Repository
	products proddom.Repository
	fmtr     pricing.Formatter
	clock    Clock

	// one in-flight mutation per shopper; the guard re-reads cart state
	// synchronously and has no debouncing of its own. Entries are
	// refcounted and evicted once the last holder unlocks, so the map
	// never outgrows the number of in-flight mutations.
	mu    sync.Mutex
	locks map[string]*shopperLock
}

type shopperLock struct {
	mu   sync.Mutex
	refs int
}

func NewCartUsecase(carts cartdom.Repository, products proddom.Repository, fmtr pricing.Formatter) *CartUsecase {
	if fmtr == nil {
		fmtr = pricing.DefaultFormatter
	}
	return &CartUsecase{
		carts:    carts,
		products: products,
		fmtr:     fmtr,
		clock:    systemClock{},
		locks:    map[string]*shopperLock{},
	}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(carts cartdom.Repository, products proddom.Repository, fmtr pricing.Formatter, clock Clock) *CartUsecase {
	uc := NewCartUsecase(carts, products, fmtr)
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// Get returns the cart for shopperID, or ErrCartNotFound.
func (uc *CartUsecase) Get(ctx context.Context, shopperID string) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(shopperID)
	if sid == "" {
		return nil, ErrCartInvalidArgument
	}
	c, err := uc.carts.GetByShopperID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}
	return c, nil
}

// GetOrCreate returns an existing cart; if absent, creates an empty one and
// persists it.
func (uc *CartUsecase) GetOrCreate(ctx context.Context, shopperID string) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(shopperID)
	if sid == "" {
		return nil, ErrCartInvalidArgument
	}
	c, err := uc.carts.GetByShopperID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	now := uc.clock.Now()
	newCart, err := cartdom.NewCart(sid, nil, now)
	if err != nil {
		return nil, err
	}
	if err := uc.carts.Upsert(ctx, newCart); err != nil {
		return nil, err
	}
	return newCart, nil
}

// AddItem resolves the shopper's attribute selection against the product,
// runs the guard against current cart contents and stock, snapshots the
// effective unit price and persists the new line.
func (uc *CartUsecase) AddItem(ctx context.Context, shopperID, productID string, attributes map[string]string, qty int) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(shopperID)
	pid := strings.TrimSpace(productID)
	if sid == "" || pid == "" {
		return nil, ErrCartInvalidArgument
	}

	unlock := uc.lockShopper(sid)
	defer unlock()

	p, err := uc.products.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	resolver := seldom.NewResolver(p)
	match := resolver.Resolve(seldom.FromMap(attributes))
	switch match.Status {
	case seldom.StatusIncomplete:
		return nil, ErrSelectionIncomplete
	case seldom.StatusNoMatch:
		return nil, ErrVariantNotFound
	}

	c, err := uc.GetOrCreate(ctx, sid)
	if err != nil {
		return nil, err
	}

	id := cartdom.IdentityOf(p.ID, match.Variant)
	stock := cartdom.AvailableStock(p, match.Variant)
	if ok, reason := cartdom.CanAdd(c, id, qty, stock); !ok {
		return nil, guardErr(reason)
	}

	quote := pricing.ComputeFor(p, match.Variant, uc.fmtr)
	line := cartdom.Line{
		Identity:  id,
		ProductID: p.ID,
		Qty:       qty,
		UnitPrice: quote.Amount,
	}
	if match.Variant != nil {
		line.VariantID = match.Variant.ID
	}

	if err := c.Add(line, uc.clock.Now()); err != nil {
		return nil, err
	}
	if err := uc.carts.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetItemQty sets the quantity for an existing line (qty <= 0 removes it).
// Increases run against the same stock ceiling as AddItem.
func (uc *CartUsecase) SetItemQty(ctx context.Context, shopperID string, id cartdom.LineIdentity, qty int) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(shopperID)
	lid := cartdom.LineIdentity(strings.TrimSpace(string(id)))
	if sid == "" || lid == "" {
		return nil, ErrCartInvalidArgument
	}

	unlock := uc.lockShopper(sid)
	defer unlock()

	c, err := uc.Get(ctx, sid)
	if err != nil {
		return nil, err
	}

	if qty > 0 {
		stock, err := uc.stockForLine(ctx, c, lid)
		if err != nil {
			return nil, err
		}
		if stock <= 0 {
			return nil, ErrOutOfStock
		}
		if qty > stock {
			return nil, ErrStockExceeded
		}
	}

	if err := c.SetQty(lid, qty, uc.clock.Now()); err != nil {
		return nil, ErrCartInvalidArgument
	}
	if err := uc.carts.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem removes a line.
func (uc *CartUsecase) RemoveItem(ctx context.Context, shopperID string, id cartdom.LineIdentity) (*cartdom.Cart, error) {
	return uc.SetItemQty(ctx, shopperID, id, 0)
}

// Clear deletes the shopper's cart document.
func (uc *CartUsecase) Clear(ctx context.Context, shopperID string) error {
	sid := strings.TrimSpace(shopperID)
	if sid == "" {
		return ErrCartInvalidArgument
	}
	unlock := uc.lockShopper(sid)
	defer unlock()
	return uc.carts.DeleteByShopperID(ctx, sid)
}

// Remaining reports how many more units of the resolved line the shopper may
// still add (stepper ceiling / "only N left" label).
func (uc *CartUsecase) Remaining(ctx context.Context, shopperID, productID string, attributes map[string]string) (int, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return 0, ErrCartInvalidArgument
	}

	p, err := uc.products.GetByID(ctx, pid)
	if err != nil {
		return 0, err
	}
	match := seldom.Resolve(p, seldom.FromMap(attributes))
	if !match.Matched() {
		return 0, nil
	}

	var c *cartdom.Cart
	if sid := strings.TrimSpace(shopperID); sid != "" {
		// nil cart (no doc yet) is fine: counts as empty
		c, err = uc.carts.GetByShopperID(ctx, sid)
		if err != nil {
			return 0, err
		}
	}

	id := cartdom.IdentityOf(p.ID, match.Variant)
	stock := cartdom.AvailableStock(p, match.Variant)
	return cartdom.RemainingFor(c, id, stock), nil
}

// ----------------------------
// Helpers
// ----------------------------

// stockForLine re-derives the stock ceiling for an existing cart line.
// Unknown lines (product gone from catalog) degrade to zero stock.
func (uc *CartUsecase) stockForLine(ctx context.Context, c *cartdom.Cart, id cartdom.LineIdentity) (int, error) {
	var line *cartdom.Line
	for i := range c.Lines {
		if c.Lines[i].Identity == id {
			line = &c.Lines[i]
			break
		}
	}
	if line == nil {
		return 0, ErrCartInvalidArgument
	}

	p, err := uc.products.GetByID(ctx, line.ProductID)
	if err != nil {
		if errors.Is(err, proddom.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if line.VariantID == "" {
		return cartdom.AvailableStock(p, nil), nil
	}
	v, ok := p.FindVariantByID(line.VariantID)
	if !ok {
		return 0, nil
	}
	return cartdom.AvailableStock(p, v), nil
}

func (uc *CartUsecase) lockShopper(sid string) func() {
	uc.mu.Lock()
	l, ok := uc.locks[sid]
	if !ok {
		l = &shopperLock{}
		uc.locks[sid] = l
	}
	l.refs++
	uc.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		uc.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(uc.locks, sid)
		}
		uc.mu.Unlock()
	}
}

func guardErr(reason cartdom.Reason) error {
	switch reason {
	case cartdom.ReasonInvalidQuantity:
		return ErrInvalidQuantity
	case cartdom.ReasonOutOfStock:
		return ErrOutOfStock
	case cartdom.ReasonStockExceeded:
		return ErrStockExceeded
	default:
		return ErrCartInvalidArgument
	}
}
