package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	proddom "storefront/internal/domain/product"
)

func shirt(t *testing.T) proddom.Product {
	t.Helper()
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
			{ID: "v_red_m", Options: []proddom.OptionPair{{Axis: "Color", Value: "Red"}, {Axis: "Size", Value: "M"}}, Price: 11000, Stock: 0, Disabled: true},
			{ID: "v_blue_s", Options: []proddom.OptionPair{{Axis: "Color", Value: "Blue"}, {Axis: "Size", Value: "S"}}, Price: 10000, Stock: 2},
		},
	})
	require.NoError(t, err)
	return p
}

func simple(t *testing.T) proddom.Product {
	t.Helper()
	p, err := proddom.New(proddom.Product{ID: "prod_mug", Slug: "mug", Name: "Mug", Price: 4500, Stock: 10})
	require.NoError(t, err)
	return p
}

func TestResolve_SimpleProductAlwaysMatched(t *testing.T) {
	r := NewResolver(simple(t))

	for _, sel := range []*Selection{
		New(),
		FromMap(map[string]string{"Color": "Red"}),
		FromMap(map[string]string{"anything": "goes"}),
	} {
		m := r.Resolve(sel)
		assert.Equal(t, StatusMatched, m.Status)
		assert.Nil(t, m.Variant)
	}
}

func TestResolve_Incomplete(t *testing.T) {
	r := NewResolver(shirt(t))

	m := r.Resolve(FromMap(map[string]string{"Color": "Red"}))
	assert.Equal(t, StatusIncomplete, m.Status)
	assert.Nil(t, m.Variant)

	// extra unrelated keys do not count toward completeness
	m = r.Resolve(FromMap(map[string]string{"Color": "Red", "Gift": "yes"}))
	assert.Equal(t, StatusIncomplete, m.Status)
}

func TestResolve_Matched(t *testing.T) {
	r := NewResolver(shirt(t))

	m := r.Resolve(FromMap(map[string]string{"Color": "Red", "Size": "M"}))
	require.Equal(t, StatusMatched, m.Status)
	require.NotNil(t, m.Variant)
	assert.Equal(t, "v_red_m", m.Variant.ID)
	assert.True(t, m.Variant.Disabled)
}

func TestResolve_NoMatch_UnrecognizedValue(t *testing.T) {
	r := NewResolver(shirt(t))

	// Green is not a defined value; selection is still "complete" per the
	// axis-name coverage check and resolves to no-match, not a crash.
	m := r.Resolve(FromMap(map[string]string{"Color": "Green", "Size": "S"}))
	assert.Equal(t, StatusNoMatch, m.Status)
	assert.Nil(t, m.Variant)
}

func TestResolve_NoMatch_MissingCombination(t *testing.T) {
	r := NewResolver(shirt(t))

	// Blue/M is a valid coordinate but no variant option enumerates it
	m := r.Resolve(FromMap(map[string]string{"Color": "Blue", "Size": "M"}))
	assert.Equal(t, StatusNoMatch, m.Status)
}

func TestResolve_Idempotent(t *testing.T) {
	r := NewResolver(shirt(t))
	sel := FromMap(map[string]string{"Color": "Red", "Size": "S"})

	first := r.Resolve(sel)
	second := r.Resolve(sel)
	assert.Equal(t, first.Status, second.Status)
	require.NotNil(t, first.Variant)
	require.NotNil(t, second.Variant)
	assert.Equal(t, first.Variant.ID, second.Variant.ID)
	// no hidden state mutation
	assert.Equal(t, map[string]string{"Color": "Red", "Size": "S"}, sel.Snapshot())
}

func TestResolve_InvariantViolationIsNoMatch(t *testing.T) {
	// two variants on the same coordinates: the record passes the fetch
	// boundary (the page must still render) and the duplicated coordinate
	// resolves to no-match instead of picking one arbitrarily
	p, err := proddom.New(proddom.Product{
		ID: "bad", Slug: "bad", Name: "Bad", Price: 1000,
		Variations: []proddom.VariationDefinition{{Name: "Size", Values: []string{"S", "M"}}},
		VariantOptions: []proddom.VariantOption{
			{ID: "a", Options: []proddom.OptionPair{{Axis: "Size", Value: "S"}}, Price: 1000, Stock: 1},
			{ID: "b", Options: []proddom.OptionPair{{Axis: "Size", Value: "S"}}, Price: 900, Stock: 1},
			{ID: "m", Options: []proddom.OptionPair{{Axis: "Size", Value: "M"}}, Price: 1000, Stock: 1},
		},
	})
	require.NoError(t, err, "a duplicated mapping must not error the fetch boundary")

	m := Resolve(p, FromMap(map[string]string{"Size": "S"}))
	assert.Equal(t, StatusNoMatch, m.Status)
	assert.Nil(t, m.Variant)

	// untainted coordinates keep matching
	m = Resolve(p, FromMap(map[string]string{"Size": "M"}))
	require.Equal(t, StatusMatched, m.Status)
	assert.Equal(t, "m", m.Variant.ID)
}

func TestSelection_SetValidation(t *testing.T) {
	r := NewResolver(shirt(t))
	s := New()

	require.NoError(t, s.Set(r.Index(), "Color", "Red"))
	assert.ErrorIs(t, s.Set(r.Index(), "Color", "Green"), ErrUnknownValue)
	assert.ErrorIs(t, s.Set(r.Index(), "Material", "Wool"), ErrUnknownAxis)
	assert.ErrorIs(t, s.Set(r.Index(), "Color", "  "), ErrEmptyValue)

	// overwrite then clear
	require.NoError(t, s.Set(r.Index(), "Color", "Blue"))
	v, ok := s.Get("Color")
	require.True(t, ok)
	assert.Equal(t, "Blue", v)
	s.Clear("Color")
	_, ok = s.Get("Color")
	assert.False(t, ok)
}

func TestStateOf(t *testing.T) {
	r := NewResolver(shirt(t))

	assert.Equal(t, StateNoSelection, StateOf(r, New()))
	assert.Equal(t, StatePartialSelection, StateOf(r, FromMap(map[string]string{"Color": "Red"})))
	assert.Equal(t, StateCompleteMatched, StateOf(r, FromMap(map[string]string{"Color": "Red", "Size": "S"})))
	assert.Equal(t, StateCompleteUnmatched, StateOf(r, FromMap(map[string]string{"Color": "Green", "Size": "S"})))

	assert.True(t, StateCompleteMatched.AllowsAdd())
	assert.False(t, StateCompleteUnmatched.AllowsAdd())
	assert.False(t, StatePartialSelection.AllowsAdd())

	// simple products shortcut straight to complete-matched
	assert.Equal(t, StateCompleteMatched, StateOf(NewResolver(simple(t)), New()))
}
