package notify

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/comanda/internal/core/orders"
)

// collector gathers handler invocations for assertions.
type collector struct {
	mu     sync.Mutex
	events []orders.Event
}

func (c *collector) handle(e orders.Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

func (c *collector) all() []orders.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]orders.Event(nil), c.events...)
}

func stream(payloads ...string) io.ReadCloser {
	var b strings.Builder
	for _, p := range payloads {
		b.WriteString(p)
		b.WriteString("\n")
	}
	return io.NopCloser(strings.NewReader(b.String()))
}

func TestChannel_Consume(t *testing.T) {
	t.Run("sse framed payloads", func(t *testing.T) {
		c := New("unused")
		col := &collector{}
		c.SetHandler(col.handle)

		err := c.consume(stream(
			`data: {"eventType":"order.ready","orderId":"a1"}`,
			``,
			`data: {"eventType":"order.preparing","orderId":"a2"}`,
			``,
		))
		assert.Equal(t, io.EOF, err)

		events := col.all()
		require.Len(t, events, 2)
		assert.Equal(t, "a1", events[0].OrderID)
		assert.Equal(t, "a2", events[1].OrderID)
	})

	t.Run("bare newline framed json", func(t *testing.T) {
		c := New("unused")
		col := &collector{}
		c.SetHandler(col.handle)

		_ = c.consume(stream(`{"eventType":"order.ready","orderId":"a1"}`))

		events := col.all()
		require.Len(t, events, 1)
		assert.Equal(t, orders.EventOrderReady, events[0].Type)
	})

	t.Run("comments and keep-alives are skipped", func(t *testing.T) {
		c := New("unused")
		col := &collector{}
		c.SetHandler(col.handle)

		_ = c.consume(stream(
			`: keep-alive`,
			`data: {"eventType":"order.ready","orderId":"a1"}`,
			``,
		))

		assert.Len(t, col.all(), 1)
	})

	t.Run("malformed payloads are dropped silently", func(t *testing.T) {
		c := New("unused")
		col := &collector{}
		c.SetHandler(col.handle)

		_ = c.consume(stream(
			`data: {"eventType":`,
			``,
			`garbage line`,
			`data: {"eventType":"order.ready","orderId":"ok"}`,
			``,
		))

		events := col.all()
		require.Len(t, events, 1)
		assert.Equal(t, "ok", events[0].OrderID)
	})

	t.Run("multi-line data frames are joined", func(t *testing.T) {
		c := New("unused")
		col := &collector{}
		c.SetHandler(col.handle)

		_ = c.consume(stream(
			`data: {"eventType":"order.ready",`,
			`data: "orderId":"a1"}`,
			``,
		))

		events := col.all()
		require.Len(t, events, 1)
		assert.Equal(t, "a1", events[0].OrderID)
	})
}

func TestChannel_Filter(t *testing.T) {
	payloads := []string{
		`{"eventType":"order.ready","orderId":"mine"}`,
		`{"eventType":"order.ready","orderId":"other"}`,
	}

	t.Run("empty filter passes everything", func(t *testing.T) {
		c := New("unused")
		col := &collector{}
		c.SetHandler(col.handle)

		_ = c.consume(stream(payloads...))

		assert.Len(t, col.all(), 2)
	})

	t.Run("filter narrows to listed order ids", func(t *testing.T) {
		c := New("unused")
		col := &collector{}
		c.SetHandler(col.handle)
		c.SetFilter([]string{"mine"})

		_ = c.consume(stream(payloads...))

		events := col.all()
		require.Len(t, events, 1)
		assert.Equal(t, "mine", events[0].OrderID)
	})

	t.Run("clearing the filter restores everything", func(t *testing.T) {
		c := New("unused")
		col := &collector{}
		c.SetHandler(col.handle)
		c.SetFilter([]string{"mine"})
		c.SetFilter(nil)

		_ = c.consume(stream(payloads...))

		assert.Len(t, col.all(), 2)
	})
}

func TestChannel_SetHandler(t *testing.T) {
	t.Run("latest handler wins", func(t *testing.T) {
		c := New("unused")
		first := &collector{}
		second := &collector{}

		c.SetHandler(first.handle)
		c.dispatch(`{"eventType":"order.ready","orderId":"a1"}`)

		c.SetHandler(second.handle)
		c.dispatch(`{"eventType":"order.ready","orderId":"a2"}`)

		require.Len(t, first.all(), 1)
		require.Len(t, second.all(), 1)
		assert.Equal(t, "a2", second.all()[0].OrderID)
	})

	t.Run("nil handler drops events", func(t *testing.T) {
		c := New("unused")
		c.dispatch(`{"eventType":"order.ready","orderId":"a1"}`)
		// No panic is the assertion.
	})
}

func TestChannel_RetryDelay(t *testing.T) {
	t.Run("bounded exponential backoff", func(t *testing.T) {
		c := New("unused")

		want := []time.Duration{
			1 * time.Second,
			2 * time.Second,
			4 * time.Second,
			8 * time.Second,
			10 * time.Second,
		}
		for i, expected := range want {
			delay, ok := c.nextRetryDelay()
			require.True(t, ok, "attempt %d should be allowed", i)
			assert.Equal(t, expected, delay, "attempt %d", i)
		}

		_, ok := c.nextRetryDelay()
		assert.False(t, ok, "budget should be exhausted after five attempts")
	})

	t.Run("successful connection resets the counter", func(t *testing.T) {
		c := New("unused")
		for range 4 {
			_, _ = c.nextRetryDelay()
		}

		c.setAttempts(0)

		delay, ok := c.nextRetryDelay()
		require.True(t, ok)
		assert.Equal(t, 1*time.Second, delay)
	})
}

func TestChannel_ConnectDisconnect(t *testing.T) {
	t.Run("disconnect stops delivery and is idempotent", func(t *testing.T) {
		pr, pw := io.Pipe()
		c := New("unused", WithDialer(func(ctx context.Context) (io.ReadCloser, error) {
			return pr, nil
		}))

		received := make(chan orders.Event, 8)
		c.SetHandler(func(e orders.Event) { received <- e })

		c.Connect()

		_, err := pw.Write([]byte(`{"eventType":"order.ready","orderId":"a1"}` + "\n"))
		require.NoError(t, err)

		select {
		case e := <-received:
			assert.Equal(t, "a1", e.OrderID)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
		}

		c.Disconnect()
		c.Disconnect() // second call is a no-op

		_, _ = pw.Write([]byte(`{"eventType":"order.ready","orderId":"a2"}` + "\n"))
		select {
		case e := <-received:
			t.Fatalf("unexpected event after disconnect: %+v", e)
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("connect twice is a no-op", func(t *testing.T) {
		dials := make(chan struct{}, 4)
		pr, _ := io.Pipe()
		c := New("unused", WithDialer(func(ctx context.Context) (io.ReadCloser, error) {
			dials <- struct{}{}
			return pr, nil
		}))

		c.Connect()
		c.Connect()

		select {
		case <-dials:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for dial")
		}
		select {
		case <-dials:
			t.Fatal("second Connect should not dial again")
		case <-time.After(100 * time.Millisecond):
		}

		c.Disconnect()
	})

	t.Run("gives up after exhausting reconnect attempts", func(t *testing.T) {
		c := New("unused")
		for range maxReconnectAttempts {
			_, ok := c.nextRetryDelay()
			require.True(t, ok)
		}

		var dialed bool
		c.dial = func(ctx context.Context) (io.ReadCloser, error) {
			dialed = true
			return nil, io.ErrUnexpectedEOF
		}

		done := make(chan struct{})
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go c.run(ctx, done)

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("run should return once the budget is spent")
		}
		assert.True(t, dialed)
	})
}
