package orders

import "strings"

// Status is the canonical lowercase order state used uniformly inside the
// client, independent of the gateway's vocabulary.
type Status string

// Canonical status values.
const (
	StatusPending   Status = "pending"
	StatusCooking   Status = "cooking"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// NormalizeStatus maps the gateway's uppercase vocabulary (and the kitchen
// service's RECEIVED) onto the canonical set. Already-canonical lowercase
// values pass through unchanged; an unrecognized non-empty value is returned
// as-is so it stays visible rather than being masked.
func NormalizeStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING", "RECEIVED":
		return StatusPending
	case "PREPARING", "COOKING":
		return StatusCooking
	case "READY":
		return StatusReady
	case "DELIVERED":
		return StatusDelivered
	case "CANCELLED":
		return StatusCancelled
	case "":
		return StatusPending
	}
	return Status(raw)
}

// BeingPrepared reports whether the kitchen has started on the order.
func (s Status) BeingPrepared() bool {
	return s == StatusCooking || s == StatusReady || s == StatusDelivered
}

// ReadyForPickup reports whether the order can be collected.
func (s Status) ReadyForPickup() bool {
	return s == StatusReady || s == StatusDelivered
}

// Cancelled reports whether the order was cancelled.
func (s Status) Cancelled() bool {
	return s == StatusCancelled
}

// CanCancel reports whether a cancellation may still be requested.
func (s Status) CanCancel() bool {
	return s == StatusPending
}

// KitchenLabel is the short badge text shown on the kitchen board.
func (s Status) KitchenLabel() string {
	switch s {
	case StatusPending:
		return "New order"
	case StatusCooking:
		return "Cooking"
	case StatusReady:
		return "Ready"
	default:
		return string(s)
	}
}
