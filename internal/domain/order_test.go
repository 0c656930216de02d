package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderTransitions(t *testing.T) {
	open := Order{Status: OrderStatusOpen}
	assert.True(t, open.CanValidate())
	assert.True(t, open.CanCancel())
	assert.True(t, open.Mutable())

	validated := Order{Status: OrderStatusValidated}
	assert.False(t, validated.CanValidate())
	assert.True(t, validated.CanCancel())
	assert.False(t, validated.Mutable())

	cancelled := Order{Status: OrderStatusCancelled}
	assert.False(t, cancelled.CanValidate())
	assert.False(t, cancelled.CanCancel())
	assert.False(t, cancelled.Mutable())
}

func TestComputeTotal(t *testing.T) {
	lines := []OrderLine{
		{Quantity: 2, UnitPrice: decimal.NewFromInt(500), Subtotal: decimal.NewFromInt(1000)},
		{Quantity: 1, UnitPrice: decimal.NewFromInt(1000), Subtotal: decimal.NewFromInt(1000)},
	}

	assert.True(t, ComputeTotal(lines).Equal(decimal.NewFromInt(2000)))
	assert.True(t, ComputeTotal(nil).Equal(decimal.Zero))
}

func TestProductIsLowStock(t *testing.T) {
	threshold := 5

	assert.True(t, Product{Stock: 5, LowStockThreshold: &threshold}.IsLowStock())
	assert.True(t, Product{Stock: -2, LowStockThreshold: &threshold}.IsLowStock())
	assert.False(t, Product{Stock: 6, LowStockThreshold: &threshold}.IsLowStock())
	assert.False(t, Product{Stock: 0}.IsLowStock())
}
