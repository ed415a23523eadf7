package kitchen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/comanda/internal/api"
	"github.com/colonyops/comanda/internal/core/notify"
	"github.com/colonyops/comanda/internal/core/orders"
	"github.com/colonyops/comanda/internal/core/styles"
	"github.com/colonyops/comanda/internal/tui/components"
	"github.com/colonyops/comanda/internal/tui/toast"
)

const fetchTimeout = 10 * time.Second

type listLoadedMsg struct {
	seq  int
	list []orders.Snapshot
	err  error
}

type transitionDoneMsg struct {
	id  string
	err error
}

type streamEventMsg struct {
	event orders.Event
}

type pollTickMsg struct{}

type toastTickMsg struct{}

// View is the Bubble Tea model for the kitchen board.
type View struct {
	ctrl    *Controller
	client  *api.Client
	channel *notify.Channel
	events  chan orders.Event
	toasts  *toast.Controller

	refreshEvery time.Duration
	spinner      spinner.Model
	width        int
	height       int
	closed       bool
}

// New creates the kitchen board view. The channel is connected on Init and
// torn down when the view quits.
func New(client *api.Client, channel *notify.Channel, filter Filter, refreshEvery time.Duration) View {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.TextPrimary

	ctrl := NewController()
	ctrl.filter = filter

	return View{
		ctrl:         ctrl,
		client:       client,
		channel:      channel,
		events:       make(chan orders.Event, 32),
		toasts:       toast.NewController(),
		refreshEvery: refreshEvery,
		spinner:      sp,
	}
}

// Init connects the notification channel and starts the first list fetch.
func (v View) Init() tea.Cmd {
	events := v.events
	v.channel.SetHandler(func(e orders.Event) {
		select {
		case events <- e:
		default:
			log.Debug().Str("event", e.Type).Msg("kitchen board: dropping event, buffer full")
		}
	})
	v.channel.Connect()

	return tea.Batch(
		v.fetchList(v.ctrl.BeginFetch()),
		waitForEvent(events),
		v.schedulePoll(),
		v.spinner.Tick,
	)
}

// Update handles messages for the kitchen board.
func (v View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case spinner.TickMsg:
		if !v.ctrl.Loading() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case listLoadedMsg:
		v.ctrl.ApplyFetch(msg.seq, msg.list, msg.err)
		return v, nil

	case transitionDoneMsg:
		v.ctrl.EndTransition(msg.id)
		if msg.err != nil {
			v.toasts.Error(msg.err.Error())
			return v, v.ensureToastTick()
		}
		return v, v.fetchList(v.ctrl.BeginFetch())

	case streamEventMsg:
		v.ctrl.ApplyEvent(msg.event)
		return v, waitForEvent(v.events)

	case pollTickMsg:
		return v, tea.Batch(v.fetchList(v.ctrl.BeginFetch()), v.schedulePoll())

	case toastTickMsg:
		v.toasts.Tick(toast.TickInterval)
		if v.toasts.HasToasts() {
			return v, scheduleToastTick()
		}
		v.toasts.SetTicking(false)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v View) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.ctrl.NewOrderModalOpen() {
		switch msg.String() {
		case "enter", "esc", "y":
			v.ctrl.AcknowledgeNewOrder()
			return v, tea.Batch(v.fetchList(v.ctrl.BeginFetch()), v.spinner.Tick)
		}
		return v, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return v.teardown()

	case "up", "k":
		v.ctrl.MoveUp()
		return v, nil

	case "down", "j":
		v.ctrl.MoveDown()
		return v, nil

	case "f":
		v.ctrl.CycleFilter()
		return v, tea.Batch(v.fetchList(v.ctrl.BeginFetch()), v.spinner.Tick)

	case "r":
		return v, tea.Batch(v.fetchList(v.ctrl.BeginFetch()), v.spinner.Tick)

	case "s":
		return v.transition(startPreparing)

	case "m":
		return v.transition(markReady)
	}

	return v, nil
}

type transitionKind int

const (
	startPreparing transitionKind = iota
	markReady
)

// transition issues a guarded status change for the selected order. Already
// in-flight ids are no-ops.
func (v View) transition(kind transitionKind) (tea.Model, tea.Cmd) {
	order := v.ctrl.Selected()
	if order == nil {
		return v, nil
	}

	switch kind {
	case startPreparing:
		if order.Status != orders.StatusPending {
			return v, nil
		}
	case markReady:
		if order.Status != orders.StatusCooking {
			return v, nil
		}
	}

	id := order.TransitionID()
	if !v.ctrl.BeginTransition(id) {
		return v, nil
	}

	client := v.client
	return v, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var err error
		if kind == startPreparing {
			err = client.StartPreparing(ctx, id)
		} else {
			err = client.MarkReady(ctx, id)
		}
		return transitionDoneMsg{id: id, err: err}
	}
}

func (v View) teardown() (tea.Model, tea.Cmd) {
	if !v.closed {
		v.closed = true
		v.channel.Disconnect()
		close(v.events)
	}
	return v, tea.Quit
}

func (v View) fetchList(seq int) tea.Cmd {
	client, filter := v.client, string(v.ctrl.Filter())
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		list, err := client.KitchenOrders(ctx, filter)
		return listLoadedMsg{seq: seq, list: list, err: err}
	}
}

func (v View) schedulePoll() tea.Cmd {
	return tea.Tick(v.refreshEvery, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (v View) ensureToastTick() tea.Cmd {
	if v.toasts.Ticking() {
		return nil
	}
	v.toasts.SetTicking(true)
	return scheduleToastTick()
}

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toast.TickInterval, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
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

// View renders the kitchen board.
func (v View) View() string {
	if v.closed {
		return ""
	}

	if v.ctrl.NewOrderModalOpen() {
		modal := components.NoticeModal(
			"New order received",
			fmt.Sprintf("Order %s just came in.", v.ctrl.NewOrderNumber()),
			"[enter] view orders",
		)
		return components.Overlay(max(v.width, 1), max(v.height, 1), modal)
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Kitchen board"))
	b.WriteString("  ")
	b.WriteString(styles.TextMuted.Render("filter: " + v.ctrl.Filter().Label()))
	if v.ctrl.Loading() {
		b.WriteString("  " + v.spinner.View())
	}
	b.WriteString("\n\n")

	if v.ctrl.LoadError() != "" {
		b.WriteString(styles.ErrorBanner.Render(v.ctrl.LoadError()))
		b.WriteString("\n\n")
	}

	list := v.ctrl.Orders()
	if len(list) == 0 && !v.ctrl.Loading() {
		b.WriteString(styles.TextMuted.Render("No orders found"))
		b.WriteString("\n")
	}

	for i, order := range list {
		b.WriteString(v.renderRow(order, i == v.ctrl.Cursor()))
		b.WriteString("\n")
	}

	if v.toasts.HasToasts() {
		b.WriteString("\n")
		b.WriteString(v.toasts.View())
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render("↑/↓ navigate • s start preparing • m mark ready • f filter • r refresh • q quit"))

	return b.String()
}

func (v View) renderRow(order orders.Snapshot, selected bool) string {
	var b strings.Builder

	if selected {
		b.WriteString(styles.TextPrimary.Render("┃ "))
	} else {
		b.WriteString("  ")
	}

	b.WriteString(styles.TextForeground.Render(fmt.Sprintf("%-12s", order.DisplayNumber())))
	b.WriteString(" ")
	b.WriteString(styles.KitchenBadge(order.Status))
	b.WriteString(" ")

	items := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, fmt.Sprintf("%d× %s", it.Quantity, it.Name))
	}
	summary := strings.Join(items, ", ")
	if len(summary) > 48 {
		summary = summary[:47] + "…"
	}
	b.WriteString(styles.TextForeground.Render(summary))

	if ref := order.ReferenceTime(); !ref.IsZero() {
		b.WriteString(styles.TextMuted.Render("  " + formatAge(ref)))
	}
	if v.ctrl.Processing(order.TransitionID()) {
		b.WriteString(styles.TextWarning.Render("  updating…"))
	}

	return b.String()
}

// formatAge renders the elapsed time since t the way the board's order cards
// show it.
func formatAge(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%d sec ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
