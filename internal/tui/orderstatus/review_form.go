package orderstatus

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/comanda/internal/api"
	"github.com/colonyops/comanda/internal/core/styles"
)

const (
	maxRating     = 5
	commentLimit  = 500
	defaultRating = 5
)

type reviewField int

const (
	fieldOverall reviewField = iota
	fieldFood
	fieldComment
	fieldSubmit
)

// ReviewForm collects a review for a completed order: two 1-5 ratings and an
// optional comment.
type ReviewForm struct {
	orderID      string
	customerName string

	overall int
	food    int
	comment textinput.Model

	field      reviewField
	submitting bool
	errMsg     string
}

// NewReviewForm creates a review form pre-filled for the given order.
func NewReviewForm(orderID, customerName string) *ReviewForm {
	comment := textinput.New()
	comment.Placeholder = "optional comment"
	comment.CharLimit = commentLimit
	comment.Width = 44

	return &ReviewForm{
		orderID:      orderID,
		customerName: customerName,
		overall:      defaultRating,
		food:         defaultRating,
		comment:      comment,
	}
}

// Submitting reports whether the review call is in flight.
func (f *ReviewForm) Submitting() bool {
	return f.submitting
}

// Draft returns the review payload for the current form values.
func (f *ReviewForm) Draft() api.ReviewDraft {
	return api.ReviewDraft{
		OrderID:       f.orderID,
		CustomerName:  f.customerName,
		OverallRating: f.overall,
		FoodRating:    f.food,
		Comment:       strings.TrimSpace(f.comment.Value()),
	}
}

// ApplyResult records the submit outcome. On failure the form stays open
// with the error inline.
func (f *ReviewForm) ApplyResult(err error) {
	f.submitting = false
	if err != nil {
		f.errMsg = err.Error()
	}
}

// Update handles input. The submit flag is true when the user confirmed on
// the submit row; the caller issues the API call.
func (f *ReviewForm) Update(msg tea.KeyMsg) (*ReviewForm, bool, tea.Cmd) {
	if f.submitting {
		return f, false, nil
	}

	switch msg.String() {
	case "tab", "down":
		f.setField((f.field + 1) % (fieldSubmit + 1))
		return f, false, nil
	case "shift+tab", "up":
		f.setField((f.field + fieldSubmit) % (fieldSubmit + 1))
		return f, false, nil
	case "left":
		f.adjustRating(-1)
		return f, false, nil
	case "right":
		f.adjustRating(1)
		return f, false, nil
	case "enter":
		if f.field == fieldSubmit {
			f.submitting = true
			f.errMsg = ""
			return f, true, nil
		}
		f.setField(f.field + 1)
		return f, false, nil
	}

	if f.field == fieldComment {
		var cmd tea.Cmd
		f.comment, cmd = f.comment.Update(msg)
		return f, false, cmd
	}
	return f, false, nil
}

func (f *ReviewForm) setField(field reviewField) {
	f.field = field
	if field == fieldComment {
		f.comment.Focus()
	} else {
		f.comment.Blur()
	}
}

func (f *ReviewForm) adjustRating(delta int) {
	clamp := func(n int) int {
		if n < 1 {
			return 1
		}
		if n > maxRating {
			return maxRating
		}
		return n
	}
	switch f.field {
	case fieldOverall:
		f.overall = clamp(f.overall + delta)
	case fieldFood:
		f.food = clamp(f.food + delta)
	}
}

// View renders the review form modal.
func (f *ReviewForm) View() string {
	lines := []string{
		styles.ModalTitle.Render("How was your order?"),
		"",
		f.ratingRow("Overall", f.overall, f.field == fieldOverall),
		f.ratingRow("Food   ", f.food, f.field == fieldFood),
		"",
		f.commentRow(),
		"",
		f.submitRow(),
	}

	if f.errMsg != "" {
		lines = append(lines, "", styles.TextError.Render(f.errMsg))
	}
	lines = append(lines, "", styles.Help.Render("[tab] next  [←/→] rate  [esc] close"))

	return styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (f *ReviewForm) ratingRow(label string, rating int, focused bool) string {
	stars := strings.Repeat("★", rating) + strings.Repeat("☆", maxRating-rating)
	row := label + "  " + stars
	if focused {
		return styles.TextPrimary.Render("> " + row)
	}
	return styles.TextForeground.Render("  " + row)
}

func (f *ReviewForm) commentRow() string {
	prefix := "  "
	if f.field == fieldComment {
		prefix = styles.TextPrimary.Render("> ")
	}
	return prefix + f.comment.View()
}

func (f *ReviewForm) submitRow() string {
	label := "[ submit review ]"
	if f.submitting {
		label = "[ submitting… ]"
	}
	if f.field == fieldSubmit {
		return styles.TextPrimary.Render("> " + label)
	}
	return styles.TextMuted.Render("  " + label)
}
