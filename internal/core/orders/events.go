package orders

import "encoding/json"

// Event types pushed on the notification stream. Unrecognized types are
// routine no-ops for every consumer, never errors.
const (
	EventOrderReceived  = "order.received"
	EventOrderCreated   = "order.created"
	EventOrderPreparing = "order.preparing"
	EventOrderReady     = "order.ready"
	EventOrderCancelled = "order.cancelled"
)

// Event is a single message pushed by the notification stream. Payloads may
// carry arbitrary extra fields; only the type and the identity pair matter.
type Event struct {
	Type        string `json:"eventType"`
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber,omitempty"`
}

// ParseEvent decodes a raw stream payload. Callers drop the payload on error.
func ParseEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Announces reports whether the event announces a newly placed order.
func (e Event) Announces() bool {
	return e.Type == EventOrderReceived || e.Type == EventOrderCreated
}

// Matches reports whether the event refers to one of the given identity
// forms. The event's id field may hold either the persistent id or the order
// number, so both fields are checked against the full set.
func (e Event) Matches(known map[string]struct{}) bool {
	for _, id := range [...]string{e.OrderID, e.OrderNumber} {
		if id == "" {
			continue
		}
		if _, ok := known[id]; ok {
			return true
		}
	}
	return false
}

// DisplayNumber returns the identifier to show a human, preferring the order
// number over the opaque id.
func (e Event) DisplayNumber() string {
	switch {
	case e.OrderNumber != "":
		return e.OrderNumber
	case e.OrderID != "":
		return e.OrderID
	default:
		return "N/A"
	}
}
