package orderstatus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/comanda/internal/api"
	"github.com/colonyops/comanda/internal/core/notify"
	"github.com/colonyops/comanda/internal/core/orders"
	"github.com/colonyops/comanda/internal/core/styles"
	"github.com/colonyops/comanda/internal/tui/components"
)

const fetchTimeout = 10 * time.Second

type orderLoadedMsg struct {
	seq   int
	order orders.Snapshot
	err   error
}

type cancelResultMsg struct {
	order orders.Snapshot
	err   error
}

type streamEventMsg struct {
	event orders.Event
}

type reviewResultMsg struct {
	err error
}

// View is the Bubble Tea model for tracking a single order.
type View struct {
	ctrl     *Controller
	client   *api.Client
	channel  *notify.Channel
	events   chan orders.Event
	orderRef string

	spinner spinner.Model
	review  *ReviewForm
	width   int
	height  int
	closed  bool
}

// New creates the order tracking view. The channel is connected on Init and
// torn down when the view quits.
func New(client *api.Client, channel *notify.Channel, orderRef string) View {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.TextPrimary

	return View{
		ctrl:     NewController(),
		client:   client,
		channel:  channel,
		events:   make(chan orders.Event, 32),
		orderRef: orderRef,
		spinner:  sp,
	}
}

// Init connects the notification channel and starts the first fetch.
func (v View) Init() tea.Cmd {
	events := v.events
	// The channel invokes the handler from its own goroutine; forward into
	// the update loop without ever blocking the stream reader.
	v.channel.SetHandler(func(e orders.Event) {
		select {
		case events <- e:
		default:
			log.Debug().Str("event", e.Type).Msg("order view: dropping event, buffer full")
		}
	})
	v.channel.Connect()

	return tea.Batch(
		v.fetchOrder(v.ctrl.BeginFetch()),
		waitForEvent(events),
		v.spinner.Tick,
	)
}

// Update handles messages for the order tracking view.
func (v View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case spinner.TickMsg:
		if !v.ctrl.Loading() && !v.ctrl.Cancelling() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case orderLoadedMsg:
		v.ctrl.ApplyFetch(msg.seq, msg.order, msg.err)
		return v, nil

	case cancelResultMsg:
		v.ctrl.ApplyCancelResult(msg.order, msg.err)
		return v, nil

	case streamEventMsg:
		var cmd tea.Cmd
		if v.ctrl.ApplyEvent(msg.event) {
			cmd = v.fetchOrder(v.ctrl.BeginFetch())
		}
		return v, tea.Batch(cmd, waitForEvent(v.events))

	case reviewResultMsg:
		if v.review != nil {
			v.review.ApplyResult(msg.err)
			if msg.err == nil {
				v.review = nil
			}
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v View) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The review form captures all input while open.
	if v.review != nil {
		if msg.String() == "esc" && !v.review.Submitting() {
			v.review = nil
			return v, nil
		}
		form, submit, cmd := v.review.Update(msg)
		v.review = form
		if submit {
			return v, tea.Batch(cmd, v.submitReview(v.review.Draft()))
		}
		return v, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if v.ctrl.CancelDialogOpen() {
			return v, nil
		}
		return v.teardown()

	case "y", "enter":
		switch {
		case v.ctrl.CancelDialogOpen():
			if v.ctrl.ConfirmCancel() {
				return v, v.cancelOrder()
			}
		case v.ctrl.PreparingModalOpen():
			v.ctrl.AcknowledgePreparing()
		case v.ctrl.ReadyModalOpen():
			v.ctrl.PickUp()
		}
		return v, nil

	case "n", "esc":
		switch {
		case v.ctrl.CancelDialogOpen():
			v.ctrl.KeepOrder()
		case v.ctrl.PreparingModalOpen():
			v.ctrl.AcknowledgePreparing()
		case v.ctrl.ReadyModalOpen():
			v.ctrl.PickUp()
		}
		return v, nil

	case "v":
		if v.ctrl.ReadyModalOpen() {
			v.ctrl.StartReview()
			v.review = v.reviewForm()
		}
		return v, nil

	case "c":
		v.ctrl.OpenCancel()
		return v, nil

	case "r":
		if !v.anyModalOpen() {
			return v, tea.Batch(v.fetchOrder(v.ctrl.BeginFetch()), v.spinner.Tick)
		}
		return v, nil
	}

	return v, nil
}

func (v View) anyModalOpen() bool {
	return v.ctrl.CancelDialogOpen() || v.ctrl.PreparingModalOpen() || v.ctrl.ReadyModalOpen()
}

func (v View) teardown() (tea.Model, tea.Cmd) {
	if !v.closed {
		v.closed = true
		v.channel.Disconnect()
		// Safe: Disconnect guarantees the handler will not run again.
		close(v.events)
	}
	return v, tea.Quit
}

func (v View) reviewForm() *ReviewForm {
	order := v.ctrl.Order()
	if order == nil {
		return nil
	}
	return NewReviewForm(order.ID, order.CustomerName)
}

func (v View) fetchOrder(seq int) tea.Cmd {
	client, ref := v.client, v.orderRef
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		order, err := client.Order(ctx, ref)
		return orderLoadedMsg{seq: seq, order: order, err: err}
	}
}

func (v View) cancelOrder() tea.Cmd {
	client, ref := v.client, v.orderRef
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		order, err := client.CancelOrder(ctx, ref)
		return cancelResultMsg{order: order, err: err}
	}
}

func (v View) submitReview(draft api.ReviewDraft) tea.Cmd {
	client := v.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		return reviewResultMsg{err: client.CreateReview(ctx, draft)}
	}
}

func waitForEvent(events <-chan orders.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return streamEventMsg{event: e}
	}
}

// View renders the order tracking screen.
func (v View) View() string {
	if v.closed {
		return ""
	}

	order := v.ctrl.Order()

	var b strings.Builder
	b.WriteString(styles.Title.Render("Order status"))
	b.WriteString("\n\n")

	switch {
	case order == nil && v.ctrl.Loading():
		b.WriteString(v.spinner.View())
		b.WriteString(styles.TextMuted.Render(" loading order…"))
	case order == nil && v.ctrl.LoadError() != "":
		b.WriteString(styles.ErrorBanner.Render(v.ctrl.LoadError()))
	case order == nil:
		b.WriteString(styles.TextMuted.Render("Order not found"))
	default:
		b.WriteString(v.renderOrder(*order))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.Help.Render(v.helpLine()))

	content := b.String()
	if modal := v.modalView(); modal != "" {
		return components.Overlay(max(v.width, 1), max(v.height, 1), modal)
	}
	return content
}

func (v View) renderOrder(order orders.Snapshot) string {
	var b strings.Builder

	b.WriteString(styles.TextForeground.Render(fmt.Sprintf("Order %s", order.DisplayNumber())))
	b.WriteString("  ")
	b.WriteString(styles.StatusBadge(order.Status))
	b.WriteString("\n")
	if order.CustomerName != "" {
		b.WriteString(styles.TextMuted.Render(order.CustomerName))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.ctrl.LoadError() != "" {
		// Stale data stays visible under the banner.
		b.WriteString(styles.ErrorBanner.Render(v.ctrl.LoadError()))
		b.WriteString("\n\n")
	}

	if order.Status.Cancelled() {
		b.WriteString(styles.TextError.Render("This order has been cancelled."))
		b.WriteString("\n")
	} else {
		b.WriteString(renderTimeline(order.Status))
		b.WriteString("\n")
	}

	if len(order.Items) > 0 {
		b.WriteString("\n")
		for _, it := range order.Items {
			line := fmt.Sprintf("%d× %s", it.Quantity, it.Name)
			if it.Price > 0 {
				line += styles.TextMuted.Render(fmt.Sprintf("  $%.2f", it.Price*float64(it.Quantity)))
			}
			b.WriteString("  " + line + "\n")
		}
		if total := orderTotal(order); total > 0 {
			b.WriteString(styles.TextForeground.Render(fmt.Sprintf("  Total $%.2f", total)))
			b.WriteString("\n")
		}
	}

	if order.Notes != "" {
		b.WriteString("\n")
		b.WriteString(styles.TextMuted.Render("Notes: " + order.Notes))
		b.WriteString("\n")
	}

	return b.String()
}

func orderTotal(order orders.Snapshot) float64 {
	if order.Total > 0 {
		return order.Total
	}
	return order.ItemsTotal()
}

// renderTimeline draws the received → preparing → ready steps derived from
// the canonical status.
func renderTimeline(status orders.Status) string {
	steps := []struct {
		label string
		done  bool
	}{
		{"received", true},
		{"preparing", status.BeingPrepared()},
		{"ready", status.ReadyForPickup()},
	}

	parts := make([]string, len(steps))
	for i, step := range steps {
		if step.done {
			parts[i] = styles.TextSuccess.Render("● " + step.label)
		} else {
			parts[i] = styles.TextMuted.Render("○ " + step.label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, styles.TextMuted.Render(" ── ")))
}

func (v View) helpLine() string {
	order := v.ctrl.Order()
	if order != nil && order.Status.CanCancel() {
		return "c cancel order • r refresh • q quit"
	}
	return "r refresh • q quit"
}

func (v View) modalView() string {
	switch {
	case v.review != nil:
		return v.review.View()
	case v.ctrl.CancelDialogOpen():
		return components.ConfirmModal(
			"Cancel this order?",
			"The kitchen will be told not to prepare it.",
			v.ctrl.CancelError(),
			v.ctrl.Cancelling(),
		)
	case v.ctrl.PreparingModalOpen():
		return components.NoticeModal(
			"Your order is being prepared",
			"The kitchen has started on your order.",
			"[enter] ok",
		)
	case v.ctrl.ReadyModalOpen():
		return components.NoticeModal(
			"Your order is ready!",
			"Pick it up at the counter.",
			"[enter] picked up  [v] leave a review",
		)
	default:
		return ""
	}
}
