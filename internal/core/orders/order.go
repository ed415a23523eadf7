// Package orders holds the client-side order domain: normalized snapshots,
// the canonical status vocabulary, and the notification events pushed by the
// platform's stream.
package orders

import "time"

// Item is a single line of an order.
type Item struct {
	Name     string
	Quantity int
	Price    float64
}

// Snapshot is the normalized view of an order as consumed by the UI. It is
// replaced wholesale on every refetch, never patched in place.
type Snapshot struct {
	ID            string
	Number        string
	CustomerName  string
	CustomerEmail string
	Status        Status
	Items         []Item
	Notes         string
	Total         float64
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Kitchen timing fields; zero when the gateway did not send them.
	ReceivedAt  time.Time
	PreparingAt time.Time
	ReadyAt     time.Time
}

// KnownIDs returns every identity form the order is known under. Events may
// reference an order by its internal id or its human-readable number, in
// either of the event's two identity fields.
func (s Snapshot) KnownIDs() map[string]struct{} {
	known := make(map[string]struct{}, 2)
	if s.ID != "" {
		known[s.ID] = struct{}{}
	}
	if s.Number != "" {
		known[s.Number] = struct{}{}
	}
	return known
}

// DisplayNumber returns the identifier to show a human, preferring the order
// number over the internal id.
func (s Snapshot) DisplayNumber() string {
	if s.Number != "" {
		return s.Number
	}
	return s.ID
}

// TransitionID is the identifier used for kitchen status-transition calls.
func (s Snapshot) TransitionID() string {
	if s.Number != "" {
		return s.Number
	}
	return s.ID
}

// ItemsTotal sums the priced items. Items without a price contribute nothing.
func (s Snapshot) ItemsTotal() float64 {
	var total float64
	for _, it := range s.Items {
		if it.Price > 0 {
			total += it.Price * float64(it.Quantity)
		}
	}
	return total
}

// ReferenceTime is the timestamp a kitchen card ages against: the most recent
// of ready/preparing/received.
func (s Snapshot) ReferenceTime() time.Time {
	switch {
	case !s.ReadyAt.IsZero():
		return s.ReadyAt
	case !s.PreparingAt.IsZero():
		return s.PreparingAt
	case !s.ReceivedAt.IsZero():
		return s.ReceivedAt
	default:
		return s.CreatedAt
	}
}
