package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"PENDING", StatusPending},
		{"RECEIVED", StatusPending},
		{"PREPARING", StatusCooking},
		{"COOKING", StatusCooking},
		{"READY", StatusReady},
		{"DELIVERED", StatusDelivered},
		{"CANCELLED", StatusCancelled},
		{"pending", StatusPending},
		{"cooking", StatusCooking},
		{"ready", StatusReady},
		{"", StatusPending},
		{"  READY  ", StatusReady},
		{"burnt", Status("burnt")},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeStatus(tc.raw))
		})
	}
}

func TestStatus_Predicates(t *testing.T) {
	t.Run("being prepared", func(t *testing.T) {
		assert.False(t, StatusPending.BeingPrepared())
		assert.True(t, StatusCooking.BeingPrepared())
		assert.True(t, StatusReady.BeingPrepared())
		assert.True(t, StatusDelivered.BeingPrepared())
		assert.False(t, StatusCancelled.BeingPrepared())
	})

	t.Run("ready for pickup", func(t *testing.T) {
		assert.False(t, StatusCooking.ReadyForPickup())
		assert.True(t, StatusReady.ReadyForPickup())
		assert.True(t, StatusDelivered.ReadyForPickup())
	})

	t.Run("only pending orders can cancel", func(t *testing.T) {
		assert.True(t, StatusPending.CanCancel())
		assert.False(t, StatusCooking.CanCancel())
		assert.False(t, StatusReady.CanCancel())
		assert.False(t, StatusCancelled.CanCancel())
	})
}

func TestStatus_KitchenLabel(t *testing.T) {
	assert.Equal(t, "New order", StatusPending.KitchenLabel())
	assert.Equal(t, "Cooking", StatusCooking.KitchenLabel())
	assert.Equal(t, "Ready", StatusReady.KitchenLabel())
	assert.Equal(t, "delivered", StatusDelivered.KitchenLabel())
}
