package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	proddom "storefront/internal/domain/product"
)

func TestCompute_NoDiscount(t *testing.T) {
	q := Compute(10000, 10000, SEKFormatter{})

	assert.Equal(t, "100,00 kr", q.Price)
	assert.Empty(t, q.BasePrice)
	assert.Nil(t, q.DiscountAmount)
	assert.Nil(t, q.DiscountPercent)
	assert.Empty(t, q.Discount)
}

func TestCompute_TwentyPercentOff(t *testing.T) {
	q := Compute(8000, 10000, SEKFormatter{})

	assert.Equal(t, "80,00 kr", q.Price)
	assert.Equal(t, "100,00 kr", q.BasePrice)
	require.NotNil(t, q.DiscountAmount)
	assert.Equal(t, int64(2000), *q.DiscountAmount)
	require.NotNil(t, q.DiscountPercent)
	assert.Equal(t, -20, *q.DiscountPercent)
	assert.Equal(t, "-20%", q.Discount)
}

func TestCompute_PercentRoundsHalfUp(t *testing.T) {
	cases := []struct {
		name         string
		source, base int64
		want         int
	}{
		{"exact third rounds up", 6667, 10000, -33},     // 33.33 -> 33
		{"one third off", 6666, 10000, -33},             // 33.34 -> 33
		{"half rounds up", 8750, 10000, -13},            // 12.5 -> 13
		{"tiny discount", 9999, 10000, 0},               // 0.01 -> 0
		{"just below half", 9951, 10000, 0},             // 0.49 -> 0
		{"just above half", 9950, 10000, -1},            // 0.50 -> 1
		{"two thirds off", 3333, 9999, -67},             // 66.67 -> 67
		{"full discount", 0, 10000, -100},               //
		{"uneven base", 7300, 10950, -33},               // 33.33 -> 33
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Compute(tc.source, tc.base, nil)
			if tc.want == 0 {
				// rounds to 0: no percent badge at all
				assert.Nil(t, q.DiscountPercent)
				assert.Empty(t, q.Discount)
				return
			}
			require.NotNil(t, q.DiscountPercent)
			assert.Equal(t, tc.want, *q.DiscountPercent)
		})
	}
}

func TestCompute_SubHalfPercentKeepsAmountDropsBadge(t *testing.T) {
	// 49 öre off 100 kr is a real saving but rounds to 0%; the struck-through
	// base price and the amount survive, the "0%" badge does not
	q := Compute(9951, 10000, SEKFormatter{})

	assert.Equal(t, "99,51 kr", q.Price)
	assert.Equal(t, "100,00 kr", q.BasePrice)
	require.NotNil(t, q.DiscountAmount)
	assert.Equal(t, int64(49), *q.DiscountAmount)
	assert.Nil(t, q.DiscountPercent)
	assert.Empty(t, q.Discount)
}

func TestCompute_SaleAboveBaseIgnored(t *testing.T) {
	q := Compute(12000, 10000, SEKFormatter{})

	assert.Equal(t, int64(10000), q.Amount)
	assert.Equal(t, "100,00 kr", q.Price)
	assert.Nil(t, q.DiscountPercent)
}

func TestComputeFor(t *testing.T) {
	sale := int64(9000)
	p := proddom.Product{
		ID: "p", Slug: "p", Name: "P",
		Price:     10000,
		SalePrice: &sale,
	}

	t.Run("base product with sale", func(t *testing.T) {
		q := ComputeFor(p, nil, nil)
		assert.Equal(t, int64(9000), q.Amount)
		require.NotNil(t, q.DiscountPercent)
		assert.Equal(t, -10, *q.DiscountPercent)
	})

	t.Run("resolved variant uses its own prices", func(t *testing.T) {
		vSale := int64(5500)
		v := proddom.VariantOption{ID: "v", Price: 11000, SalePrice: &vSale}
		q := ComputeFor(p, &v, nil)
		assert.Equal(t, int64(5500), q.Amount)
		assert.Equal(t, int64(11000), q.BaseAmount)
		require.NotNil(t, q.DiscountPercent)
		assert.Equal(t, -50, *q.DiscountPercent)
	})

	t.Run("variant without sale", func(t *testing.T) {
		v := proddom.VariantOption{ID: "v", Price: 11000}
		q := ComputeFor(p, &v, nil)
		assert.Equal(t, int64(11000), q.Amount)
		assert.Nil(t, q.DiscountPercent)
	})
}

func TestComputeRange(t *testing.T) {
	r := ComputeRange(10000, 12500, SEKFormatter{})
	assert.Equal(t, "100,00 kr", r.MinPrice)
	assert.Equal(t, "125,00 kr", r.MaxPrice)

	// inverted input is normalized
	r = ComputeRange(12500, 10000, nil)
	assert.Equal(t, int64(10000), r.MinAmount)
	assert.Equal(t, int64(12500), r.MaxAmount)
}

func TestSEKFormatter(t *testing.T) {
	f := SEKFormatter{}
	assert.Equal(t, "0,00 kr", f.Format(0))
	assert.Equal(t, "0,05 kr", f.Format(5))
	assert.Equal(t, "12,34 kr", f.Format(1234))
	assert.Equal(t, "1 234,50 kr", f.Format(123450))
	assert.Equal(t, "1 234 567,89 kr", f.Format(123456789))
	assert.Equal(t, "-12,34 kr", f.Format(-1234))
}

func TestRoundToMinor(t *testing.T) {
	assert.Equal(t, int64(10000), RoundToMinor(100.0))
	assert.Equal(t, int64(10001), RoundToMinor(100.005))
	assert.Equal(t, int64(10000), RoundToMinor(100.004))
	assert.Equal(t, int64(-10001), RoundToMinor(-100.005))
}
