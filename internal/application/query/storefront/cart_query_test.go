package storefront

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "storefront/internal/domain/cart"
)

type fakeCartRepo struct {
	byShopper map[string]*cartdom.Cart
}

func (r *fakeCartRepo) GetByShopperID(_ context.Context, shopperID string) (*cartdom.Cart, error) {
	return r.byShopper[shopperID], nil
}

func (r *fakeCartRepo) Upsert(_ context.Context, c *cartdom.Cart) error {
	r.byShopper[c.ID] = c
	return nil
}

func (r *fakeCartRepo) DeleteByShopperID(_ context.Context, shopperID string) error {
	delete(r.byShopper, shopperID)
	return nil
}

func cartWith(t *testing.T, shopperID string, lines ...cartdom.Line) *cartdom.Cart {
	t.Helper()
	c, err := cartdom.NewCart(shopperID, lines, time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return c
}

func TestCartQuery_MissingCartYieldsEmptyDTO(t *testing.T) {
	q := NewCartQuery(&fakeCartRepo{byShopper: map[string]*cartdom.Cart{}}, repoWith(t), nil)

	d, err := q.GetByShopperID(context.Background(), "shopper_1")
	require.NoError(t, err)

	assert.Equal(t, "shopper_1", d.ShopperID)
	assert.Empty(t, d.Lines)
	assert.Equal(t, int64(0), d.TotalAmount)
	assert.Nil(t, d.CreatedAt)
}

func TestCartQuery_JoinsCatalogData(t *testing.T) {
	products := repoWith(t, variableShirt())
	carts := &fakeCartRepo{byShopper: map[string]*cartdom.Cart{}}
	carts.byShopper["shopper_1"] = cartWith(t, "shopper_1", cartdom.Line{
		Identity:  "prod_shirt__Color=Red&Size=S",
		ProductID: "prod_shirt",
		VariantID: "v_red_s",
		Qty:       3,
		UnitPrice: 10000,
	})

	q := NewCartQuery(carts, products, nil)
	d, err := q.GetByShopperID(context.Background(), "shopper_1")
	require.NoError(t, err)

	require.Len(t, d.Lines, 1)
	line := d.Lines[0]
	assert.Equal(t, "Shirt", line.ProductName)
	assert.Equal(t, map[string]string{"Color": "Red", "Size": "S"}, line.Options)
	assert.Equal(t, int64(30000), line.SubtotalMinor)
	assert.Equal(t, int64(30000), d.TotalAmount)

	// 4 in stock, 3 in cart
	assert.Equal(t, 1, line.Remaining)
}

func TestCartQuery_ProductGoneRendersFromSnapshot(t *testing.T) {
	carts := &fakeCartRepo{byShopper: map[string]*cartdom.Cart{}}
	carts.byShopper["shopper_1"] = cartWith(t, "shopper_1", cartdom.Line{
		Identity:  "prod_gone",
		ProductID: "prod_gone",
		Qty:       2,
		UnitPrice: 5000,
	})

	q := NewCartQuery(carts, repoWith(t), nil)
	d, err := q.GetByShopperID(context.Background(), "shopper_1")
	require.NoError(t, err)

	require.Len(t, d.Lines, 1)
	line := d.Lines[0]
	assert.Empty(t, line.ProductName)
	assert.Equal(t, int64(10000), line.SubtotalMinor)
	assert.Equal(t, 0, line.Remaining)
}

func TestCartQuery_VariantGoneIsConservative(t *testing.T) {
	products := repoWith(t, variableShirt())
	carts := &fakeCartRepo{byShopper: map[string]*cartdom.Cart{}}
	carts.byShopper["shopper_1"] = cartWith(t, "shopper_1", cartdom.Line{
		Identity:  "prod_shirt__Color=Red&Size=XL",
		ProductID: "prod_shirt",
		VariantID: "v_removed",
		Qty:       1,
		UnitPrice: 10000,
	})

	q := NewCartQuery(carts, products, nil)
	d, err := q.GetByShopperID(context.Background(), "shopper_1")
	require.NoError(t, err)

	require.Len(t, d.Lines, 1)
	// product still resolves, the vanished variant blocks further adds
	assert.Equal(t, "Shirt", d.Lines[0].ProductName)
	assert.Equal(t, 0, d.Lines[0].Remaining)
}
