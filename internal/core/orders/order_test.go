package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_KnownIDs(t *testing.T) {
	s := Snapshot{ID: "abc", Number: "ORD-1"}
	known := s.KnownIDs()

	assert.Len(t, known, 2)
	assert.Contains(t, known, "abc")
	assert.Contains(t, known, "ORD-1")

	assert.Empty(t, Snapshot{}.KnownIDs())
}

func TestSnapshot_DisplayNumber(t *testing.T) {
	assert.Equal(t, "ORD-1", Snapshot{ID: "abc", Number: "ORD-1"}.DisplayNumber())
	assert.Equal(t, "abc", Snapshot{ID: "abc"}.DisplayNumber())
}

func TestSnapshot_ItemsTotal(t *testing.T) {
	s := Snapshot{Items: []Item{
		{Name: "Tacos", Quantity: 2, Price: 3.5},
		{Name: "Horchata", Quantity: 1, Price: 2},
		{Name: "Salsa", Quantity: 3}, // unpriced
	}}
	assert.InDelta(t, 9.0, s.ItemsTotal(), 0.001)
}

func TestSnapshot_ReferenceTime(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	received := created.Add(1 * time.Minute)
	preparing := created.Add(5 * time.Minute)
	ready := created.Add(15 * time.Minute)

	t.Run("prefers ready", func(t *testing.T) {
		s := Snapshot{CreatedAt: created, ReceivedAt: received, PreparingAt: preparing, ReadyAt: ready}
		assert.Equal(t, ready, s.ReferenceTime())
	})

	t.Run("then preparing", func(t *testing.T) {
		s := Snapshot{CreatedAt: created, ReceivedAt: received, PreparingAt: preparing}
		assert.Equal(t, preparing, s.ReferenceTime())
	})

	t.Run("then received", func(t *testing.T) {
		s := Snapshot{CreatedAt: created, ReceivedAt: received}
		assert.Equal(t, received, s.ReferenceTime())
	})

	t.Run("falls back to created", func(t *testing.T) {
		assert.Equal(t, created, Snapshot{CreatedAt: created}.ReferenceTime())
	})
}
