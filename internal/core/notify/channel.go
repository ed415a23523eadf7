// Package notify maintains the client side of the platform's SSE
// notification stream: one long-lived connection per channel, automatic
// reconnection with bounded exponential backoff, and dispatch of parsed
// events to a single replaceable handler.
package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/comanda/internal/core/orders"
)

const (
	maxReconnectAttempts = 5
	reconnectBaseDelay   = 1 * time.Second
	reconnectMaxDelay    = 10 * time.Second

	// Stream payloads are small JSON objects; 1MB is a generous line cap.
	maxLineSize = 1024 * 1024
)

// Handler receives parsed notification events.
type Handler func(orders.Event)

// DialFunc opens the event stream and returns its body. Injected in tests;
// the default dials the configured URL over HTTP.
type DialFunc func(ctx context.Context) (io.ReadCloser, error)

// Channel owns one live server-push connection. The handler and filter can be
// swapped at any time without reconnecting; the latest values are read at
// dispatch time.
type Channel struct {
	dial DialFunc
	log  zerolog.Logger

	mu      sync.Mutex
	handler Handler
	filter  map[string]struct{}

	attempts int
	started  bool
	cancel   context.CancelFunc
	body     io.Closer
	done     chan struct{}
}

// Option configures a Channel.
type Option func(*Channel)

// WithDialer replaces the stream transport.
func WithDialer(dial DialFunc) Option {
	return func(c *Channel) { c.dial = dial }
}

// WithLogger sets the channel's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Channel) { c.log = log }
}

// New creates a channel for the stream at url. The connection is not opened
// until Connect is called.
func New(url string, opts ...Option) *Channel {
	c := &Channel{
		dial: httpDialer(url),
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func httpDialer(url string) DialFunc {
	// No client timeout: the stream stays open indefinitely. Teardown goes
	// through the request context instead.
	client := &http.Client{}
	return func(ctx context.Context) (io.ReadCloser, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create stream request: %w", err)
		}
		req.Header.Set("Accept", "text/event-stream")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("open notification stream: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("open notification stream: status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}
}

// SetHandler replaces the handler invoked for subsequent events. Safe to call
// while connected; the connection is untouched.
func (c *Channel) SetHandler(h Handler) {
	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()
}

// SetFilter replaces the order-id filter. An empty list means unfiltered:
// every event reaches the handler.
func (c *Channel) SetFilter(orderIDs []string) {
	var filter map[string]struct{}
	if len(orderIDs) > 0 {
		filter = make(map[string]struct{}, len(orderIDs))
		for _, id := range orderIDs {
			filter[id] = struct{}{}
		}
	}
	c.mu.Lock()
	c.filter = filter
	c.mu.Unlock()
}

// Connect starts the stream reader. Calling it again on a started channel is
// a no-op; reconnection after transport errors is handled internally.
func (c *Channel) Connect() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.started = true
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go c.run(ctx, done)
}

// Disconnect closes the live connection and cancels any pending reconnect
// timer. It is idempotent and, on return, guarantees no further handler
// invocations.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	cancel := c.cancel
	body := c.body
	done := c.done
	c.cancel = nil
	c.body = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if body != nil {
		_ = body.Close()
	}
	if done != nil {
		<-done
	}
}

func (c *Channel) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		body, err := c.dial(ctx)
		if err == nil {
			c.log.Debug().Msg("notification stream connected")
			c.setAttempts(0)
			c.trackBody(body)
			err = c.consume(body)
			c.trackBody(nil)
		}
		if ctx.Err() != nil {
			return
		}

		delay, ok := c.nextRetryDelay()
		if !ok {
			c.log.Warn().Err(err).Msg("notification stream: giving up after max reconnect attempts")
			return
		}
		c.log.Debug().Err(err).Dur("delay", delay).Msg("notification stream interrupted, reconnecting")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// consume reads framed payloads until the stream ends. It understands both
// SSE "data:" framing and bare newline-delimited JSON.
func (c *Channel) consume(body io.ReadCloser) error {
	defer func() { _ = body.Close() }()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if data.Len() > 0 {
				c.dispatch(data.String())
				data.Reset()
			}
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case strings.HasPrefix(line, ":"):
			// SSE comment / keep-alive.
		case data.Len() == 0:
			// Newline-framed payload. SSE metadata fields (event:, id:,
			// retry:) land here too and are dropped as malformed JSON.
			c.dispatch(line)
		}
	}
	if data.Len() > 0 {
		c.dispatch(data.String())
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read notification stream: %w", err)
	}
	return io.EOF
}

// dispatch parses a payload and hands it to the current handler, applying the
// current filter. Malformed payloads are dropped without surfacing an error.
func (c *Channel) dispatch(payload string) {
	ev, err := orders.ParseEvent([]byte(payload))
	if err != nil {
		c.log.Debug().Msg("dropping malformed notification payload")
		return
	}

	c.mu.Lock()
	handler := c.handler
	filter := c.filter
	c.mu.Unlock()

	if handler == nil {
		return
	}
	if len(filter) > 0 {
		if _, ok := filter[ev.OrderID]; !ok {
			return
		}
	}
	handler(ev)
}

// nextRetryDelay returns the backoff delay before the next reconnect attempt,
// or false once the attempt budget is exhausted.
func (c *Channel) nextRetryDelay() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attempts >= maxReconnectAttempts {
		return 0, false
	}
	delay := reconnectBaseDelay << c.attempts
	if delay > reconnectMaxDelay {
		delay = reconnectMaxDelay
	}
	c.attempts++
	return delay, true
}

func (c *Channel) setAttempts(n int) {
	c.mu.Lock()
	c.attempts = n
	c.mu.Unlock()
}

// trackBody records the live connection so Disconnect can close it and
// unblock a blocked read. The dial context covers the window between a
// concurrent Disconnect and this call.
func (c *Channel) trackBody(body io.Closer) {
	c.mu.Lock()
	c.body = body
	c.mu.Unlock()
}
