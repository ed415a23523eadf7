package orderstatus

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestReviewForm_Ratings(t *testing.T) {
	t.Run("defaults to five stars", func(t *testing.T) {
		f := NewReviewForm("abc", "Ana")
		draft := f.Draft()

		assert.Equal(t, 5, draft.OverallRating)
		assert.Equal(t, 5, draft.FoodRating)
		assert.Equal(t, "abc", draft.OrderID)
		assert.Equal(t, "Ana", draft.CustomerName)
	})

	t.Run("left and right adjust the focused rating within bounds", func(t *testing.T) {
		f := NewReviewForm("abc", "Ana")

		for range 10 {
			f, _, _ = f.Update(key("left"))
		}
		assert.Equal(t, 1, f.Draft().OverallRating)

		f, _, _ = f.Update(key("right"))
		assert.Equal(t, 2, f.Draft().OverallRating)

		// Food rating is untouched.
		assert.Equal(t, 5, f.Draft().FoodRating)
	})

	t.Run("tab moves focus to the food rating", func(t *testing.T) {
		f := NewReviewForm("abc", "Ana")
		f, _, _ = f.Update(key("tab"))
		f, _, _ = f.Update(key("left"))

		assert.Equal(t, 4, f.Draft().FoodRating)
		assert.Equal(t, 5, f.Draft().OverallRating)
	})
}

func TestReviewForm_Submit(t *testing.T) {
	submitForm := func(f *ReviewForm) (*ReviewForm, bool) {
		var submit bool
		// enter advances through overall, food, and comment, then submits.
		for range 4 {
			f, submit, _ = f.Update(key("enter"))
		}
		return f, submit
	}

	t.Run("enter on the submit row reports submission", func(t *testing.T) {
		f := NewReviewForm("abc", "Ana")

		f, submit := submitForm(f)

		assert.True(t, submit)
		assert.True(t, f.Submitting())
	})

	t.Run("input is ignored while submitting", func(t *testing.T) {
		f := NewReviewForm("abc", "Ana")
		f, _ = submitForm(f)

		f, submit, _ := f.Update(key("enter"))
		assert.False(t, submit)
		assert.True(t, f.Submitting())
	})

	t.Run("failure keeps the form open with the error inline", func(t *testing.T) {
		f := NewReviewForm("abc", "Ana")
		f, _ = submitForm(f)

		f.ApplyResult(errors.New("review rejected"))

		assert.False(t, f.Submitting())
		assert.Contains(t, f.View(), "review rejected")
	})

	t.Run("comment text lands in the draft", func(t *testing.T) {
		f := NewReviewForm("abc", "Ana")
		f, _, _ = f.Update(key("tab"))
		f, _, _ = f.Update(key("tab")) // focus the comment field
		for _, r := range "rico" {
			f, _, _ = f.Update(key(string(r)))
		}

		require.Equal(t, "rico", f.Draft().Comment)
	})
}
