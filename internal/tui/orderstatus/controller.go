// Package orderstatus implements the customer-facing order tracking view:
// a fetched snapshot merged with pushed lifecycle events, acknowledgement
// modals, and the cancellation workflow.
package orderstatus

import (
	"github.com/colonyops/comanda/internal/core/orders"
)

// CancelState is the cancellation workflow's position.
type CancelState int

// Cancellation states. Confirm is re-entered on failure so the user can
// retry with the error shown inline.
const (
	CancelIdle CancelState = iota
	CancelConfirm
	CancelInFlight
)

// Controller manages order-status data and the cancellation state machine.
// It contains pure data logic with no Bubble Tea dependencies; the view owns
// all I/O and feeds results back in.
type Controller struct {
	order   *orders.Snapshot
	loading bool
	loadErr string

	preparingModal bool
	readyModal     bool

	cancel    CancelState
	cancelErr string

	fetchSeq   int
	appliedSeq int
}

// NewController creates an order-status controller.
func NewController() *Controller {
	return &Controller{}
}

// BeginFetch marks a refresh in flight and returns its sequence token.
// Responses carrying a token older than the last applied one are discarded,
// so the most recently started fetch wins.
func (c *Controller) BeginFetch() int {
	c.loading = true
	c.fetchSeq++
	return c.fetchSeq
}

// ApplyFetch records a fetch result. On failure the previous snapshot stays
// visible; only the error banner changes.
func (c *Controller) ApplyFetch(seq int, snapshot orders.Snapshot, err error) {
	if seq <= c.appliedSeq {
		return
	}
	c.appliedSeq = seq
	c.loading = false

	if err != nil {
		c.loadErr = err.Error()
		return
	}
	c.order = &snapshot
	c.loadErr = ""
}

// Order returns the current snapshot, or nil before the first successful
// fetch.
func (c *Controller) Order() *orders.Snapshot {
	return c.order
}

// Loading reports whether a fetch is in flight.
func (c *Controller) Loading() bool {
	return c.loading
}

// LoadError returns the current fetch error message, empty when healthy.
func (c *Controller) LoadError() string {
	return c.loadErr
}

// ApplyEvent folds a pushed notification into the view state and reports
// whether the order should be refetched. Events for other orders and
// unrecognized types are no-ops.
func (c *Controller) ApplyEvent(e orders.Event) (refetch bool) {
	if c.order == nil || !e.Matches(c.order.KnownIDs()) {
		return false
	}

	switch e.Type {
	case orders.EventOrderPreparing:
		c.preparingModal = true
		return true
	case orders.EventOrderReady:
		c.readyModal = true
		return true
	case orders.EventOrderCancelled:
		// A cancellation supersedes any pending acknowledgement.
		c.preparingModal = false
		c.readyModal = false
		return true
	default:
		return false
	}
}

// PreparingModalOpen reports whether the preparing acknowledgement is shown.
func (c *Controller) PreparingModalOpen() bool {
	return c.preparingModal
}

// ReadyModalOpen reports whether the ready acknowledgement is shown.
func (c *Controller) ReadyModalOpen() bool {
	return c.readyModal
}

// AcknowledgePreparing dismisses the preparing modal.
func (c *Controller) AcknowledgePreparing() {
	c.preparingModal = false
}

// PickUp dismisses the ready modal without opening the review flow.
func (c *Controller) PickUp() {
	c.readyModal = false
}

// StartReview dismisses the ready modal; the view opens the review form.
func (c *Controller) StartReview() {
	c.readyModal = false
}

// OpenCancel opens the confirmation dialog. Only permitted while the order
// is still pending and no dialog is already active.
func (c *Controller) OpenCancel() bool {
	if c.order == nil || !c.order.Status.CanCancel() || c.cancel != CancelIdle {
		return false
	}
	c.cancel = CancelConfirm
	c.cancelErr = ""
	return true
}

// ConfirmCancel moves the dialog into the in-flight state and reports
// whether the cancel call should be issued. A no-op while already cancelling.
func (c *Controller) ConfirmCancel() bool {
	if c.cancel != CancelConfirm {
		return false
	}
	c.cancel = CancelInFlight
	return true
}

// KeepOrder closes the dialog and clears any error. Disabled while the
// cancel call is in flight.
func (c *Controller) KeepOrder() bool {
	if c.cancel != CancelConfirm {
		return false
	}
	c.cancel = CancelIdle
	c.cancelErr = ""
	return true
}

// ApplyCancelResult records the cancel call's outcome. Success replaces the
// snapshot and closes the dialog; failure re-opens the confirmation with the
// error inline so the user can retry.
func (c *Controller) ApplyCancelResult(snapshot orders.Snapshot, err error) {
	if c.cancel != CancelInFlight {
		return
	}
	if err != nil {
		c.cancel = CancelConfirm
		c.cancelErr = err.Error()
		return
	}
	c.order = &snapshot
	c.cancel = CancelIdle
	c.cancelErr = ""
}

// CancelDialogOpen reports whether the confirmation dialog is visible.
func (c *Controller) CancelDialogOpen() bool {
	return c.cancel != CancelIdle
}

// Cancelling reports whether the cancel call is in flight.
func (c *Controller) Cancelling() bool {
	return c.cancel == CancelInFlight
}

// CancelError returns the inline dialog error, empty when none.
func (c *Controller) CancelError() string {
	return c.cancelErr
}
