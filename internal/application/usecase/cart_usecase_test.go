package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "storefront/internal/domain/cart"
	proddom "storefront/internal/domain/product"
)

// ----------------------------
// In-memory fakes
// ----------------------------

type memCartRepo struct {
	mu        sync.Mutex
	byShopper map[string]*cartdom.Cart
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{byShopper: map[string]*cartdom.Cart{}}
}

func (r *memCartRepo) GetByShopperID(_ context.Context, shopperID string) (*cartdom.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byShopper[shopperID]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Lines = append([]cartdom.Line(nil), c.Lines...)
	return &cp, nil
}

func (r *memCartRepo) Upsert(_ context.Context, c *cartdom.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.Lines = append([]cartdom.Line(nil), c.Lines...)
	r.byShopper[c.ID] = &cp
	return nil
}

func (r *memCartRepo) DeleteByShopperID(_ context.Context, shopperID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byShopper, shopperID)
	return nil
}

type memProductRepo struct {
	byID map[string]proddom.Product
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (proddom.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return proddom.Product{}, proddom.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) GetBySlug(_ context.Context, slug string) (proddom.Product, error) {
	for _, p := range r.byID {
		if p.Slug == slug {
			return p, nil
		}
	}
	return proddom.Product{}, proddom.ErrNotFound
}

func (r *memProductRepo) ListTagged(_ context.Context, _ string, _ int) ([]proddom.Product, error) {
	return nil, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// ----------------------------
// Fixtures
// ----------------------------

func shirt(t *testing.T) proddom.Product {
	t.Helper()
	sale := int64(9000)
	p, err := proddom.New(proddom.Product{
		ID:    "prod_shirt",
		Slug:  "shirt",
		Name:  "Shirt",
		Price: 10000,
		Variations: []proddom.VariationDefinition{
			{Name: "Color", Values: []string{"Red", "Blue"}},
			{Name: "Size", Values: []string{"S", "M"}},
		},
		VariantOptions: []proddom.VariantOption{
			{ID: "v_red_s", Options: []proddom.OptionPair{{Axis: "Color", Value: "Red"}, {Axis: "Size", Value: "S"}}, Price: 10000, Stock: 4},
			{ID: "v_red_m", Options: []proddom.OptionPair{{Axis: "Color", Value: "Red"}, {Axis: "Size", Value: "M"}}, Price: 11000, Stock: 9, Disabled: true},
			{ID: "v_blue_s", Options: []proddom.OptionPair{{Axis: "Color", Value: "Blue"}, {Axis: "Size", Value: "S"}}, Price: 10000, SalePrice: &sale, Stock: 2},
		},
	})
	require.NoError(t, err)
	return p
}

func newUC(t *testing.T) (*CartUsecase, *memCartRepo) {
	t.Helper()
	carts := newMemCartRepo()
	products := &memProductRepo{byID: map[string]proddom.Product{}}
	p := shirt(t)
	products.byID[p.ID] = p
	simple, err := proddom.New(proddom.Product{ID: "prod_mug", Slug: "mug", Name: "Mug", Price: 4500, Stock: 10})
	require.NoError(t, err)
	products.byID[simple.ID] = simple

	clock := fixedClock{t: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)}
	return NewCartUsecaseWithClock(carts, products, nil, clock), carts
}

// ----------------------------
// Tests
// ----------------------------

func TestAddItem_MatchedVariant(t *testing.T) {
	uc, carts := newUC(t)
	ctx := context.Background()

	c, err := uc.AddItem(ctx, "shopper_1", "prod_shirt", map[string]string{"Color": "Red", "Size": "S"}, 2)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)

	line := c.Lines[0]
	assert.Equal(t, cartdom.LineIdentity("prod_shirt__Color=Red&Size=S"), line.Identity)
	assert.Equal(t, "v_red_s", line.VariantID)
	assert.Equal(t, 2, line.Qty)
	assert.Equal(t, int64(10000), line.UnitPrice)

	// persisted
	stored, err := carts.GetByShopperID(ctx, "shopper_1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 2, stored.QtyOf(line.Identity))
}

func TestAddItem_SalePriceSnapshot(t *testing.T) {
	uc, _ := newUC(t)

	c, err := uc.AddItem(context.Background(), "shopper_1", "prod_shirt", map[string]string{"Color": "Blue", "Size": "S"}, 1)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(9000), c.Lines[0].UnitPrice, "snapshot uses the effective (sale) price")
}

func TestAddItem_SimpleProduct(t *testing.T) {
	uc, _ := newUC(t)

	c, err := uc.AddItem(context.Background(), "shopper_1", "prod_mug", nil, 3)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, cartdom.LineIdentity("prod_mug"), c.Lines[0].Identity)
	assert.Empty(t, c.Lines[0].VariantID)
	assert.Equal(t, int64(4500), c.Lines[0].UnitPrice)
}

func TestAddItem_SelectionOutcomes(t *testing.T) {
	uc, _ := newUC(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "shopper_1", "prod_shirt", map[string]string{"Color": "Red"}, 1)
	assert.ErrorIs(t, err, ErrSelectionIncomplete)

	_, err = uc.AddItem(ctx, "shopper_1", "prod_shirt", map[string]string{"Color": "Green", "Size": "S"}, 1)
	assert.ErrorIs(t, err, ErrVariantNotFound)

	_, err = uc.AddItem(ctx, "shopper_1", "missing", map[string]string{}, 1)
	assert.ErrorIs(t, err, proddom.ErrNotFound)
}

func TestAddItem_DuplicateMappingIsVariantNotFound(t *testing.T) {
	// a catalog doc with two variants on the same coordinates still loads;
	// adding the tainted coordinate reports no-match, not a server error
	dup, err := proddom.New(proddom.Product{
		ID: "prod_dup", Slug: "dup", Name: "Dup", Price: 1000,
		Variations: []proddom.VariationDefinition{{Name: "Size", Values: []string{"S"}}},
		VariantOptions: []proddom.VariantOption{
			{ID: "a", Options: []proddom.OptionPair{{Axis: "Size", Value: "S"}}, Price: 1000, Stock: 1},
			{ID: "b", Options: []proddom.OptionPair{{Axis: "Size", Value: "S"}}, Price: 900, Stock: 1},
		},
	})
	require.NoError(t, err)

	carts := newMemCartRepo()
	products := &memProductRepo{byID: map[string]proddom.Product{dup.ID: dup}}
	uc := NewCartUsecase(carts, products, nil)

	_, err = uc.AddItem(context.Background(), "shopper_1", "prod_dup", map[string]string{"Size": "S"}, 1)
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestAddItem_GuardOutcomes(t *testing.T) {
	uc, _ := newUC(t)
	ctx := context.Background()
	redS := map[string]string{"Color": "Red", "Size": "S"}

	_, err := uc.AddItem(ctx, "shopper_1", "prod_shirt", redS, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// disabled variant counts as zero stock
	_, err = uc.AddItem(ctx, "shopper_1", "prod_shirt", map[string]string{"Color": "Red", "Size": "M"}, 1)
	assert.ErrorIs(t, err, ErrOutOfStock)

	// ceiling: 4 in stock, 3 in cart, 2 more requested
	_, err = uc.AddItem(ctx, "shopper_1", "prod_shirt", redS, 3)
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "shopper_1", "prod_shirt", redS, 2)
	assert.ErrorIs(t, err, ErrStockExceeded)

	// boundary: exactly up to stock is allowed
	c, err := uc.AddItem(ctx, "shopper_1", "prod_shirt", redS, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, c.QtyOf("prod_shirt__Color=Red&Size=S"))
}

func TestSetItemQty(t *testing.T) {
	uc, _ := newUC(t)
	ctx := context.Background()
	redS := map[string]string{"Color": "Red", "Size": "S"}
	id := cartdom.LineIdentity("prod_shirt__Color=Red&Size=S")

	_, err := uc.AddItem(ctx, "shopper_1", "prod_shirt", redS, 1)
	require.NoError(t, err)

	c, err := uc.SetItemQty(ctx, "shopper_1", id, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, c.QtyOf(id))

	_, err = uc.SetItemQty(ctx, "shopper_1", id, 5)
	assert.ErrorIs(t, err, ErrStockExceeded, "stock ceiling applies to quantity edits")

	c, err = uc.SetItemQty(ctx, "shopper_1", id, 0)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestRemaining(t *testing.T) {
	uc, _ := newUC(t)
	ctx := context.Background()
	redS := map[string]string{"Color": "Red", "Size": "S"}

	n, err := uc.Remaining(ctx, "shopper_1", "prod_shirt", redS)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = uc.AddItem(ctx, "shopper_1", "prod_shirt", redS, 3)
	require.NoError(t, err)

	n, err = uc.Remaining(ctx, "shopper_1", "prod_shirt", redS)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// unmatched selections have nothing addable
	n, err = uc.Remaining(ctx, "shopper_1", "prod_shirt", map[string]string{"Color": "Red"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLockShopper_EvictsIdleEntries(t *testing.T) {
	uc, _ := newUC(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sid := fmt.Sprintf("shopper_%d", n)
			for j := 0; j < 3; j++ {
				_, err := uc.AddItem(ctx, sid, "prod_mug", nil, 1)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	// the lock table only holds in-flight mutations; after they drain it
	// must not retain one entry per shopper ever seen
	uc.mu.Lock()
	defer uc.mu.Unlock()
	assert.Empty(t, uc.locks)
}

func TestLockShopper_SerializesSameShopper(t *testing.T) {
	uc, _ := newUC(t)

	unlockA := uc.lockShopper("s1")
	got := make(chan struct{})
	go func() {
		unlockB := uc.lockShopper("s1")
		close(got)
		unlockB()
	}()

	select {
	case <-got:
		t.Fatal("second holder acquired the lock while the first still held it")
	case <-time.After(20 * time.Millisecond):
	}

	unlockA()
	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("second holder never acquired the lock")
	}
}

func TestClear(t *testing.T) {
	uc, carts := newUC(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "shopper_1", "prod_mug", nil, 1)
	require.NoError(t, err)
	require.NoError(t, uc.Clear(ctx, "shopper_1"))

	stored, err := carts.GetByShopperID(ctx, "shopper_1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}
