package orderstatus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/comanda/internal/core/notify"
	"github.com/colonyops/comanda/internal/core/orders"
	"github.com/colonyops/comanda/pkg/tuitest"
)

func newTestView(t *testing.T) View {
	t.Helper()
	v := New(nil, notify.New("unused"), "abc123")
	m, _ := v.Update(tuitest.WindowSize(100, 30))
	return m.(View)
}

func loadView(t *testing.T, v View, snap orders.Snapshot) View {
	t.Helper()
	seq := v.ctrl.BeginFetch()
	m, _ := v.Update(orderLoadedMsg{seq: seq, order: snap})
	return m.(View)
}

func trackedOrder() orders.Snapshot {
	return orders.Snapshot{
		ID:           "abc123",
		Number:       "ORD-42",
		CustomerName: "Ana",
		Status:       orders.StatusPending,
		Items:        []orders.Item{{Name: "Tacos", Quantity: 2, Price: 3.5}},
	}
}

func TestOrderView_Render(t *testing.T) {
	t.Run("pending order with timeline and items", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())

		out := tuitest.StripANSI(v.View())
		assert.Contains(t, out, "ORD-42")
		assert.Contains(t, out, "pending")
		assert.Contains(t, out, "● received")
		assert.Contains(t, out, "○ preparing")
		assert.Contains(t, out, "○ ready")
		assert.Contains(t, out, "2× Tacos")
		assert.Contains(t, out, "c cancel order")
	})

	t.Run("cooking order advances the timeline", func(t *testing.T) {
		snap := trackedOrder()
		snap.Status = orders.StatusCooking
		v := loadView(t, newTestView(t), snap)

		out := tuitest.StripANSI(v.View())
		assert.Contains(t, out, "● preparing")
		assert.Contains(t, out, "○ ready")
		assert.NotContains(t, out, "c cancel order")
	})

	t.Run("cancelled order short-circuits the timeline", func(t *testing.T) {
		snap := trackedOrder()
		snap.Status = orders.StatusCancelled
		v := loadView(t, newTestView(t), snap)

		out := tuitest.StripANSI(v.View())
		assert.Contains(t, out, "cancelled")
		assert.NotContains(t, out, "● received")
	})

	t.Run("fetch error keeps stale data under a banner", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())
		seq := v.ctrl.BeginFetch()
		m, _ := v.Update(orderLoadedMsg{seq: seq, err: errors.New("gateway unreachable")})
		v = m.(View)

		out := tuitest.StripANSI(v.View())
		assert.Contains(t, out, "gateway unreachable")
		assert.Contains(t, out, "ORD-42")
	})
}

func TestOrderView_CancelKeys(t *testing.T) {
	t.Run("c opens the confirmation dialog", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())

		m, _ := v.Update(tuitest.KeyPress("c"))
		v = m.(View)

		assert.True(t, v.ctrl.CancelDialogOpen())
		assert.Contains(t, tuitest.StripANSI(v.View()), "Cancel this order?")
	})

	t.Run("y confirms and issues the cancel call", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())
		m, _ := v.Update(tuitest.KeyPress("c"))
		v = m.(View)

		m, cmd := v.Update(tuitest.KeyPress("y"))
		v = m.(View)

		require.NotNil(t, cmd)
		assert.True(t, v.ctrl.Cancelling())
	})

	t.Run("n keeps the order", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())
		m, _ := v.Update(tuitest.KeyPress("c"))
		v = m.(View)

		m, _ = v.Update(tuitest.KeyPress("n"))
		v = m.(View)

		assert.False(t, v.ctrl.CancelDialogOpen())
	})

	t.Run("rejection shows inline in the dialog", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())
		m, _ := v.Update(tuitest.KeyPress("c"))
		v = m.(View)
		m, _ = v.Update(tuitest.KeyPress("y"))
		v = m.(View)

		m, _ = v.Update(cancelResultMsg{err: errors.New("No se puede cancelar: estado no es pending")})
		v = m.(View)

		out := tuitest.StripANSI(v.View())
		assert.Contains(t, out, "No se puede cancelar")
		assert.True(t, v.ctrl.CancelDialogOpen())
	})

	t.Run("quit is ignored while the dialog is open", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())
		m, _ := v.Update(tuitest.KeyPress("c"))
		v = m.(View)

		_, cmd := v.Update(tuitest.KeyPress("q"))
		assert.Nil(t, cmd)
	})
}

func TestOrderView_StreamEvents(t *testing.T) {
	t.Run("preparing event opens the modal and refetches", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())

		m, cmd := v.Update(streamEventMsg{event: orders.Event{Type: orders.EventOrderPreparing, OrderID: "abc123"}})
		v = m.(View)

		require.NotNil(t, cmd)
		assert.True(t, v.ctrl.PreparingModalOpen())
		assert.Contains(t, tuitest.StripANSI(v.View()), "being prepared")
	})

	t.Run("ready modal offers the review flow", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())
		m, _ := v.Update(streamEventMsg{event: orders.Event{Type: orders.EventOrderReady, OrderID: "abc123"}})
		v = m.(View)

		assert.Contains(t, tuitest.StripANSI(v.View()), "leave a review")

		m, _ = v.Update(tuitest.KeyPress("v"))
		v = m.(View)

		assert.NotNil(t, v.review)
		assert.Contains(t, tuitest.StripANSI(v.View()), "How was your order?")
	})

	t.Run("events for other orders change nothing", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())

		m, _ := v.Update(streamEventMsg{event: orders.Event{Type: orders.EventOrderReady, OrderID: "other"}})
		v = m.(View)

		assert.False(t, v.ctrl.ReadyModalOpen())
	})
}

func TestOrderView_ReviewFlow(t *testing.T) {
	t.Run("esc closes the form", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())
		m, _ := v.Update(streamEventMsg{event: orders.Event{Type: orders.EventOrderReady, OrderID: "abc123"}})
		v = m.(View)
		m, _ = v.Update(tuitest.KeyPress("v"))
		v = m.(View)
		require.NotNil(t, v.review)

		m, _ = v.Update(tuitest.KeyEsc())
		v = m.(View)

		assert.Nil(t, v.review)
	})

	t.Run("successful submit closes the form", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())
		m, _ := v.Update(streamEventMsg{event: orders.Event{Type: orders.EventOrderReady, OrderID: "abc123"}})
		v = m.(View)
		m, _ = v.Update(tuitest.KeyPress("v"))
		v = m.(View)

		m, _ = v.Update(reviewResultMsg{})
		v = m.(View)

		assert.Nil(t, v.review)
	})

	t.Run("failed submit keeps the form open", func(t *testing.T) {
		v := loadView(t, newTestView(t), trackedOrder())
		m, _ := v.Update(streamEventMsg{event: orders.Event{Type: orders.EventOrderReady, OrderID: "abc123"}})
		v = m.(View)
		m, _ = v.Update(tuitest.KeyPress("v"))
		v = m.(View)

		m, _ = v.Update(reviewResultMsg{err: errors.New("rechazado")})
		v = m.(View)

		require.NotNil(t, v.review)
		assert.Contains(t, tuitest.StripANSI(v.View()), "rechazado")
	})
}
