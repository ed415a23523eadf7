// Package kitchen implements the kitchen board view: the live order queue
// with status filters, guarded status transitions, and new-order
// announcements from the notification stream.
package kitchen

import (
	"fmt"
	"strings"

	"github.com/colonyops/comanda/internal/core/orders"
)

// Filter selects which slice of the queue the board shows. Values are the
// kitchen service's own query vocabulary; the zero value means all orders.
type Filter string

// Kitchen queue filters.
const (
	FilterAll       Filter = ""
	FilterReceived  Filter = "RECEIVED"
	FilterPreparing Filter = "PREPARING"
	FilterReady     Filter = "READY"
)

// filterCycle is the order the board steps through on the filter key.
var filterCycle = []Filter{FilterAll, FilterReceived, FilterPreparing, FilterReady}

// Label is the human name shown in the board header.
func (f Filter) Label() string {
	switch f {
	case FilterReceived:
		return "new"
	case FilterPreparing:
		return "preparing"
	case FilterReady:
		return "ready"
	default:
		return "all"
	}
}

// ParseFilter maps a user-supplied filter name to a queue filter.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL":
		return FilterAll, nil
	case "RECEIVED", "NEW", "PENDING":
		return FilterReceived, nil
	case "PREPARING", "COOKING":
		return FilterPreparing, nil
	case "READY":
		return FilterReady, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q (expected all, received, preparing, or ready)", s)
	}
}

// Controller manages kitchen board data. Pure data logic, no Bubble Tea
// dependencies; the view owns all I/O.
type Controller struct {
	orders  []orders.Snapshot
	loading bool
	loadErr string
	filter  Filter
	cursor  int

	// processing holds order identifiers with a status transition in
	// flight, preventing duplicate concurrent transitions per order.
	processing map[string]struct{}

	newOrderModal  bool
	newOrderNumber string

	fetchSeq   int
	appliedSeq int
}

// NewController creates a kitchen board controller.
func NewController() *Controller {
	return &Controller{
		processing: make(map[string]struct{}),
	}
}

// BeginFetch marks a list refresh in flight and returns its sequence token.
func (c *Controller) BeginFetch() int {
	c.loading = true
	c.fetchSeq++
	return c.fetchSeq
}

// ApplyFetch records a list result. Stale sequences are discarded so the
// most recently started fetch wins; failures keep the previous list visible.
func (c *Controller) ApplyFetch(seq int, list []orders.Snapshot, err error) {
	if seq <= c.appliedSeq {
		return
	}
	c.appliedSeq = seq
	c.loading = false

	if err != nil {
		c.loadErr = err.Error()
		return
	}
	c.orders = list
	c.loadErr = ""
	if c.cursor >= len(c.orders) {
		c.cursor = max(len(c.orders)-1, 0)
	}
}

// Orders returns the current queue.
func (c *Controller) Orders() []orders.Snapshot {
	return c.orders
}

// Loading reports whether a list fetch is in flight.
func (c *Controller) Loading() bool {
	return c.loading
}

// LoadError returns the current fetch error message, empty when healthy.
func (c *Controller) LoadError() string {
	return c.loadErr
}

// Filter returns the active queue filter.
func (c *Controller) Filter() Filter {
	return c.filter
}

// CycleFilter advances to the next filter and returns it. The caller
// refetches with the new value.
func (c *Controller) CycleFilter() Filter {
	for i, f := range filterCycle {
		if f == c.filter {
			c.filter = filterCycle[(i+1)%len(filterCycle)]
			return c.filter
		}
	}
	c.filter = FilterAll
	return c.filter
}

// MoveUp moves the cursor up one order.
func (c *Controller) MoveUp() {
	if c.cursor > 0 {
		c.cursor--
	}
}

// MoveDown moves the cursor down one order.
func (c *Controller) MoveDown() {
	if c.cursor < len(c.orders)-1 {
		c.cursor++
	}
}

// Cursor returns the selected row index.
func (c *Controller) Cursor() int {
	return c.cursor
}

// Selected returns the order under the cursor, or nil when the queue is
// empty.
func (c *Controller) Selected() *orders.Snapshot {
	if len(c.orders) == 0 || c.cursor >= len(c.orders) {
		return nil
	}
	return &c.orders[c.cursor]
}

// ApplyEvent folds a pushed notification into the board state. New-order
// announcements open the acknowledgement modal; everything else is a no-op.
func (c *Controller) ApplyEvent(e orders.Event) {
	if !e.Announces() {
		return
	}
	c.newOrderNumber = e.DisplayNumber()
	c.newOrderModal = true
}

// NewOrderModalOpen reports whether the new-order acknowledgement is shown.
func (c *Controller) NewOrderModalOpen() bool {
	return c.newOrderModal
}

// NewOrderNumber returns the announced order's display identifier.
func (c *Controller) NewOrderNumber() string {
	return c.newOrderNumber
}

// AcknowledgeNewOrder dismisses the modal; the caller refetches the queue.
func (c *Controller) AcknowledgeNewOrder() {
	c.newOrderModal = false
}

// BeginTransition reserves an order for a status-transition call. It reports
// false when a transition for that id is already in flight.
func (c *Controller) BeginTransition(id string) bool {
	if _, busy := c.processing[id]; busy {
		return false
	}
	c.processing[id] = struct{}{}
	return true
}

// EndTransition releases the reservation. Called on success and failure
// alike.
func (c *Controller) EndTransition(id string) {
	delete(c.processing, id)
}

// Processing reports whether a transition for the id is in flight.
func (c *Controller) Processing(id string) bool {
	_, busy := c.processing[id]
	return busy
}
