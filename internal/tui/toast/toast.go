// Package toast manages transient non-blocking notifications shown at the
// bottom of a view.
package toast

import (
	"strings"
	"time"

	"github.com/colonyops/comanda/internal/core/styles"
)

// Tick cadence and lifetime for toasts.
const (
	DefaultTTL   = 5 * time.Second
	TickInterval = 100 * time.Millisecond

	maxToasts = 5
)

// Level classifies a toast.
type Level int

// Toast levels.
const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Notice is a single toast message.
type Notice struct {
	Level   Level
	Message string
}

type toast struct {
	notice    Notice
	remaining time.Duration
}

// Controller manages the lifecycle of active toasts: push, eviction, TTL
// countdown, and dismissal.
type Controller struct {
	toasts  []toast
	ticking bool
}

// NewController creates an empty toast controller.
func NewController() *Controller {
	return &Controller{}
}

// Push adds a notice. When the stack exceeds the max, the oldest is evicted.
func (c *Controller) Push(n Notice) {
	c.toasts = append(c.toasts, toast{notice: n, remaining: DefaultTTL})
	if len(c.toasts) > maxToasts {
		c.toasts = c.toasts[len(c.toasts)-maxToasts:]
	}
}

// Error pushes an error-level toast.
func (c *Controller) Error(message string) {
	c.Push(Notice{Level: LevelError, Message: message})
}

// Tick decrements the remaining TTL on all toasts and drops expired ones.
func (c *Controller) Tick(d time.Duration) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// Dismiss removes the newest toast.
func (c *Controller) Dismiss() {
	if len(c.toasts) > 0 {
		c.toasts = c.toasts[:len(c.toasts)-1]
	}
}

// HasToasts reports whether any toast is active.
func (c *Controller) HasToasts() bool {
	return len(c.toasts) > 0
}

// Ticking reports whether the countdown timer is running.
func (c *Controller) Ticking() bool {
	return c.ticking
}

// SetTicking records the countdown timer state.
func (c *Controller) SetTicking(v bool) {
	c.ticking = v
}

// View renders the active toasts, newest last.
func (c *Controller) View() string {
	if len(c.toasts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range c.toasts {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch t.notice.Level {
		case LevelError:
			b.WriteString(styles.TextError.Render("✗ " + t.notice.Message))
		case LevelWarning:
			b.WriteString(styles.TextWarning.Render("! " + t.notice.Message))
		default:
			b.WriteString(styles.TextSecondary.Render("· " + t.notice.Message))
		}
	}
	return b.String()
}
