package model_test

import (
	"testing"

	"rpos/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	s, ok := model.ParseOrderStatus("COOKING")
	assert.True(t, ok)
	assert.Equal(t, model.OrderStatusCooking, s)

	_, ok = model.ParseOrderStatus("SHIPPED")
	assert.False(t, ok)

	// 小文字は受け付けない
	_, ok = model.ParseOrderStatus("pending")
	assert.False(t, ok)
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from model.OrderStatus
		to   model.OrderStatus
		ok   bool
	}{
		{model.OrderStatusPending, model.OrderStatusCooking, true},
		{model.OrderStatusCooking, model.OrderStatusServed, true},
		{model.OrderStatusServed, model.OrderStatusCompleted, true},

		// 飛び越しは不可
		{model.OrderStatusPending, model.OrderStatusServed, false},
		{model.OrderStatusPending, model.OrderStatusCompleted, false},
		{model.OrderStatusCooking, model.OrderStatusCompleted, false},

		// 逆行は不可
		{model.OrderStatusServed, model.OrderStatusCooking, false},
		{model.OrderStatusCooking, model.OrderStatusPending, false},

		// CANCELLEDは非終端から常に可
		{model.OrderStatusPending, model.OrderStatusCancelled, true},
		{model.OrderStatusCooking, model.OrderStatusCancelled, true},
		{model.OrderStatusServed, model.OrderStatusCancelled, true},

		// 終端からはどこへも行けない
		{model.OrderStatusCompleted, model.OrderStatusPending, false},
		{model.OrderStatusCompleted, model.OrderStatusCancelled, false},
		{model.OrderStatusCancelled, model.OrderStatusPending, false},
		{model.OrderStatusCancelled, model.OrderStatusCooking, false},
	}

	for _, c := range cases {
		got := c.from.CanTransitionTo(c.to)
		assert.Equal(t, c.ok, got, "%s -> %s", c.from, c.to)
	}
}

func TestOrderItemLineTotal(t *testing.T) {
	item := model.OrderItem{
		Price:    decimal.RequireFromString("59.50"),
		Quantity: 3,
	}
	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("178.50")))
}
