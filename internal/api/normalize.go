package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/comanda/internal/core/orders"
)

// flexID tolerates identifiers arriving as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	s := strings.TrimSpace(string(b))
	if s == "null" {
		s = ""
	}
	*f = flexID(s)
	return nil
}

// wireOrder is the union of order shapes the gateway emits. Different
// services name the id and customer fields differently.
type wireOrder struct {
	MongoID       flexID     `json:"_id"`
	ID            flexID     `json:"id"`
	OrderID       flexID     `json:"orderId"`
	OrderNumber   flexID     `json:"orderNumber"`
	Customer      string     `json:"customer"`
	CustomerName  string     `json:"customerName"`
	CustomerEmail string     `json:"customerEmail"`
	Status        string     `json:"status"`
	Items         []wireItem `json:"items"`
	Notes         string     `json:"notes"`
	Total         float64    `json:"total"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
	ReceivedAt    string     `json:"receivedAt"`
	PreparingAt   string     `json:"preparingAt"`
	ReadyAt       string     `json:"readyAt"`
}

type wireItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func (w wireOrder) snapshot() orders.Snapshot {
	items := make([]orders.Item, len(w.Items))
	for i, it := range w.Items {
		items[i] = orders.Item{Name: it.Name, Quantity: it.Quantity, Price: it.Price}
	}

	return orders.Snapshot{
		ID:            firstNonEmpty(string(w.MongoID), string(w.ID), string(w.OrderID)),
		Number:        string(w.OrderNumber),
		CustomerName:  firstNonEmpty(w.CustomerName, w.Customer),
		CustomerEmail: w.CustomerEmail,
		Status:        orders.NormalizeStatus(w.Status),
		Items:         items,
		Notes:         w.Notes,
		Total:         w.Total,
		CreatedAt:     parseTime(w.CreatedAt),
		UpdatedAt:     parseTime(w.UpdatedAt),
		ReceivedAt:    parseTime(w.ReceivedAt),
		PreparingAt:   parseTime(w.PreparingAt),
		ReadyAt:       parseTime(w.ReadyAt),
	}
}

// decodeOrder normalizes a single-order response. The gateway wraps orders
// in several envelopes depending on the endpoint:
//
//	{success, message, data: {order: {...}}}
//	{success, data: {...order...}}
//	{order: {...}}
//	{...order...}
func decodeOrder(body []byte) (orders.Snapshot, error) {
	raw := json.RawMessage(body)

	var env struct {
		Data  json.RawMessage `json:"data"`
		Order json.RawMessage `json:"order"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		switch {
		case len(env.Data) > 0:
			var inner struct {
				Order json.RawMessage `json:"order"`
			}
			if json.Unmarshal(env.Data, &inner) == nil && len(inner.Order) > 0 {
				raw = inner.Order
			} else if isObject(env.Data) {
				raw = env.Data
			}
		case len(env.Order) > 0:
			raw = env.Order
		}
	}

	var w wireOrder
	if err := json.Unmarshal(raw, &w); err != nil {
		return orders.Snapshot{}, fmt.Errorf("decode order: %w", err)
	}
	return w.snapshot(), nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "{")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range [...]string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
