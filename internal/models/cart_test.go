package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartViewTotals(t *testing.T) {
	para := &Product{
		ID:           NewID(),
		SKU:          "PARA-500",
		Name:         "Paracetamol 500mg",
		SellingPrice: decimal.RequireFromString("10.50"),
		IsAvailable:  true,
	}
	amox := &Product{
		ID:           NewID(),
		SKU:          "AMOX-250",
		Name:         "Amoxicillin 250mg",
		SellingPrice: decimal.RequireFromString("45.00"),
		IsAvailable:  true,
	}

	cart := NewCart("user-1")
	cart.Items = []*CartItem{
		{ID: NewID(), CartID: cart.ID, ProductID: &para.ID, Quantity: 3, Product: para},
		{ID: NewID(), CartID: cart.ID, ProductID: &amox.ID, Quantity: 1, Product: amox},
	}

	view := NewCartView(cart)

	require.Len(t, view.Items, 2)
	assert.Equal(t, 4, view.TotalItems)
	assert.Equal(t, "31.50", view.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "45.00", view.Items[1].Subtotal.StringFixed(2))
	assert.Equal(t, "76.50", view.TotalPrice.StringFixed(2))
}

func TestNewCartViewPricesAtCurrentSellingPrice(t *testing.T) {
	// Cart lines carry no price snapshot; a price change reprices the cart
	product := &Product{
		ID:           NewID(),
		SKU:          "PARA-500",
		SellingPrice: decimal.RequireFromString("12.00"),
	}

	cart := NewCart("user-1")
	cart.Items = []*CartItem{
		{ID: NewID(), CartID: cart.ID, ProductID: &product.ID, Quantity: 2, Product: product},
	}

	assert.Equal(t, "24.00", NewCartView(cart).TotalPrice.StringFixed(2))

	product.SellingPrice = decimal.RequireFromString("9.50")
	assert.Equal(t, "19.00", NewCartView(cart).TotalPrice.StringFixed(2))
}

func TestNewCartViewRemovedProductPricesAtZero(t *testing.T) {
	cart := NewCart("user-1")
	cart.Items = []*CartItem{
		{ID: NewID(), CartID: cart.ID, ProductID: nil, Quantity: 5, Product: nil},
	}

	view := NewCartView(cart)

	require.Len(t, view.Items, 1)
	assert.Nil(t, view.Items[0].Product)
	assert.True(t, view.Items[0].Subtotal.IsZero())
	assert.True(t, view.TotalPrice.IsZero())
	assert.Equal(t, 5, view.TotalItems)
}

func TestNewCartViewEmptyCart(t *testing.T) {
	view := NewCartView(NewCart("user-1"))

	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.TotalItems)
	assert.True(t, view.TotalPrice.IsZero())
}
