package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses() {
		got, ok := ParseOrderStatus(string(s))
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}

	for _, bad := range []string{"", "Delivered", "refunded", "in transit"} {
		_, ok := ParseOrderStatus(bad)
		assert.False(t, ok, bad)
	}
}

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, OrderPending.CanTransitionTo(OrderProcessing))
	assert.True(t, OrderShipped.CanTransitionTo(OrderDelivered))
	assert.False(t, OrderDelivered.CanTransitionTo(OrderPending))
	assert.False(t, OrderCancelled.CanTransitionTo(OrderShipped))
}

func TestShippingAddressColumn(t *testing.T) {
	in := ShippingAddress{Line1: "1 Fern Rd", City: "Leeds", Postcode: "LS1 4AP", Country: "GB"}
	v, err := in.Value()
	require.NoError(t, err)

	var out ShippingAddress
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)

	var empty ShippingAddress
	require.NoError(t, empty.Scan(nil))
	assert.Equal(t, ShippingAddress{}, empty)
}

func TestLineTotal(t *testing.T) {
	item := OrderItem{UnitPrice: decimal.RequireFromString("4.25"), Quantity: 3}
	assert.True(t, decimal.RequireFromString("12.75").Equal(item.LineTotal()))
}

func TestBuildCategoryTree(t *testing.T) {
	root := int64(1)
	missing := int64(99)
	flat := []Category{
		{ID: 1, Name: "Teas"},
		{ID: 2, Name: "Green", ParentID: &root},
		{ID: 3, Name: "Oils"},
		{ID: 4, Name: "Orphan", ParentID: &missing},
	}

	tree := BuildCategoryTree(flat)
	require.Len(t, tree, 3)
	assert.Equal(t, "Teas", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Green", tree[0].Children[0].Name)
	assert.Equal(t, "Orphan", tree[2].Name)
}
