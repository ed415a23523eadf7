// Package api is the typed client for the ordering platform's REST gateway.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/colonyops/comanda/internal/core/orders"
)

// DefaultBaseURL is the gateway address used when configuration is silent.
const DefaultBaseURL = "http://localhost:3000"

const requestTimeout = 15 * time.Second

// Client talks to the gateway. All methods take a context and return
// normalized domain values.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the gateway at baseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// OrderDraft is the payload for placing a new order.
type OrderDraft struct {
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	Items         []orders.Item `json:"items"`
	Notes         string        `json:"notes,omitempty"`
}

// MarshalJSON emits the gateway's item shape (lowercase keys, price omitted
// when unset).
func (d OrderDraft) MarshalJSON() ([]byte, error) {
	type wireItem struct {
		Name     string  `json:"name"`
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price,omitempty"`
	}
	items := make([]wireItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = wireItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price}
	}
	payload := map[string]any{
		"customerName":  d.CustomerName,
		"customerEmail": d.CustomerEmail,
		"items":         items,
	}
	if d.Notes != "" {
		payload["notes"] = d.Notes
	}
	return json.Marshal(payload)
}

// ReviewDraft is the payload for submitting a review of a completed order.
type ReviewDraft struct {
	OrderID       string `json:"orderId"`
	CustomerName  string `json:"customerName"`
	OverallRating int    `json:"overallRating"`
	FoodRating    int    `json:"foodRating"`
	Comment       string `json:"comment,omitempty"`
}

// Review is a published customer review.
type Review struct {
	OrderID       string    `json:"orderId"`
	CustomerName  string    `json:"customerName"`
	OverallRating int       `json:"overallRating"`
	FoodRating    int       `json:"foodRating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ReviewPage is one page of public reviews.
type ReviewPage struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	HasMore bool     `json:"hasMore"`
}

// Order fetches a single order by id or number.
func (c *Client) Order(ctx context.Context, id string) (orders.Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil)
	if err != nil {
		return orders.Snapshot{}, err
	}
	return decodeOrder(body)
}

// CreateOrder places a new order and returns its normalized snapshot.
func (c *Client) CreateOrder(ctx context.Context, draft OrderDraft) (orders.Snapshot, error) {
	body, err := c.do(ctx, http.MethodPost, "/orders", draft)
	if err != nil {
		return orders.Snapshot{}, err
	}
	return decodeOrder(body)
}

// CancelOrder requests cancellation and returns the resulting snapshot.
func (c *Client) CancelOrder(ctx context.Context, id string) (orders.Snapshot, error) {
	body, err := c.do(ctx, http.MethodPost, "/orders/"+url.PathEscape(id)+"/cancel", nil)
	if err != nil {
		return orders.Snapshot{}, err
	}
	return decodeOrder(body)
}

// KitchenOrders fetches the kitchen queue, optionally filtered by the kitchen
// vocabulary (RECEIVED, PREPARING, READY). The response nesting varies by
// which backend service answered; see unwrapKitchenList.
func (c *Client) KitchenOrders(ctx context.Context, filter string) ([]orders.Snapshot, error) {
	path := "/kitchen/orders"
	if filter != "" {
		path += "?status=" + url.QueryEscape(filter)
	}
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	list := unwrapKitchenList(body)
	snapshots := make([]orders.Snapshot, 0, len(list))
	for _, raw := range list {
		var w wireOrder
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("decode kitchen order: %w", err)
		}
		snapshots = append(snapshots, w.snapshot())
	}
	return snapshots, nil
}

// StartPreparing transitions an order from received to preparing.
func (c *Client) StartPreparing(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, "/kitchen/orders/"+url.PathEscape(id)+"/start-preparing", nil)
	return err
}

// MarkReady transitions an order from preparing to ready.
func (c *Client) MarkReady(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, "/kitchen/orders/"+url.PathEscape(id)+"/ready", nil)
	return err
}

// CreateReview submits a review for a completed order.
func (c *Client) CreateReview(ctx context.Context, draft ReviewDraft) error {
	_, err := c.do(ctx, http.MethodPost, "/reviews", draft)
	return err
}

// PublicReviews fetches one page of approved reviews.
func (c *Client) PublicReviews(ctx context.Context, page, limit int) (ReviewPage, error) {
	path := "/reviews?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return ReviewPage{}, err
	}

	raw := json.RawMessage(body)
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && isObject(env.Data) {
		raw = env.Data
	}

	var rp ReviewPage
	if err := json.Unmarshal(raw, &rp); err != nil {
		return ReviewPage{}, fmt.Errorf("decode reviews: %w", err)
	}
	return rp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway unreachable at %s: %w", c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp.StatusCode, body)
	}
	return body, nil
}

// responseError prefers the backend's message field over a bare status line.
func responseError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return fmt.Errorf("%s", payload.Message)
	}
	return fmt.Errorf("request failed: status %d %s", status, http.StatusText(status))
}
