// Package components holds small shared TUI building blocks.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/comanda/internal/core/styles"
)

// Overlay centers content over a width x height area, replacing whatever was
// behind it.
func Overlay(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// NoticeModal renders an acknowledgement dialog with a single mandatory
// action plus optional secondary actions listed in the help line.
func NoticeModal(title, message, help string) string {
	body := lipgloss.JoinVertical(
		lipgloss.Center,
		styles.ModalTitle.Render(title),
		"",
		styles.TextForeground.Render(message),
		"",
		styles.Help.Render(help),
	)
	return styles.Modal.Render(body)
}

// ConfirmModal renders a destructive-action confirmation dialog. When busy is
// true both actions render as disabled; errMsg, when set, is shown inline so
// the user can retry without reopening the dialog.
func ConfirmModal(title, message, errMsg string, busy bool) string {
	lines := []string{
		styles.ModalTitle.Render(title),
		"",
		styles.TextForeground.Render(message),
	}

	if errMsg != "" {
		lines = append(lines, "", styles.TextError.Render(wrap(errMsg, 44)))
	}

	help := "[y] confirm  [n] keep order"
	if busy {
		help = "cancelling…"
	}
	lines = append(lines, "", styles.Help.Render(help))

	return styles.ModalDanger.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// wrap breaks a message into lines no wider than limit, on word boundaries.
func wrap(s string, limit int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}

	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if i > 0 {
			if lineLen+1+len(w) > limit {
				b.WriteByte('\n')
				lineLen = 0
			} else {
				b.WriteByte(' ')
				lineLen++
			}
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}
