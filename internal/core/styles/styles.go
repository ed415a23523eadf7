// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/comanda/internal/core/orders"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Surface    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// Shared styles, rebuilt by SetTheme.
var (
	current Palette

	Title          lipgloss.Style
	TextPrimary    lipgloss.Style
	TextSecondary  lipgloss.Style
	TextForeground lipgloss.Style
	TextMuted      lipgloss.Style
	TextSuccess    lipgloss.Style
	TextWarning    lipgloss.Style
	TextError      lipgloss.Style

	ErrorBanner lipgloss.Style
	Help        lipgloss.Style

	Modal       lipgloss.Style
	ModalTitle  lipgloss.Style
	ModalDanger lipgloss.Style

	badgePending   lipgloss.Style
	badgeCooking   lipgloss.Style
	badgeReady     lipgloss.Style
	badgeDelivered lipgloss.Style
	badgeCancelled lipgloss.Style
)

func init() {
	SetTheme(themes[DefaultTheme])
}

// SetTheme rebuilds the shared styles from the palette.
func SetTheme(p Palette) {
	current = p
	Title = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	TextPrimary = lipgloss.NewStyle().Foreground(p.Primary)
	TextSecondary = lipgloss.NewStyle().Foreground(p.Secondary)
	TextForeground = lipgloss.NewStyle().Foreground(p.Foreground)
	TextMuted = lipgloss.NewStyle().Foreground(p.Muted)
	TextSuccess = lipgloss.NewStyle().Foreground(p.Success)
	TextWarning = lipgloss.NewStyle().Foreground(p.Warning)
	TextError = lipgloss.NewStyle().Foreground(p.Error)

	ErrorBanner = lipgloss.NewStyle().
		Foreground(p.Error).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Error).
		Padding(0, 1)

	Help = lipgloss.NewStyle().Foreground(p.Muted)

	Modal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)
	ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	ModalDanger = Modal.BorderForeground(p.Error)

	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	badgePending = badge.Foreground(p.Secondary)
	badgeCooking = badge.Foreground(p.Warning)
	badgeReady = badge.Foreground(p.Success)
	badgeDelivered = badge.Foreground(p.Muted)
	badgeCancelled = badge.Foreground(p.Error)
}

// FormTheme returns a huh theme matching the active palette.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Title = t.Focused.Title.Foreground(current.Primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(current.Muted)
	t.Focused.Base = t.Focused.Base.BorderForeground(current.Primary)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(current.Error)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(current.Error)
	t.Blurred.Title = t.Blurred.Title.Foreground(current.Muted)
	t.Blurred.Description = t.Blurred.Description.Foreground(current.Muted)
	return t
}

// StatusBadge renders a canonical status in its semantic color.
func StatusBadge(s orders.Status) string {
	switch s {
	case orders.StatusPending:
		return badgePending.Render(string(s))
	case orders.StatusCooking:
		return badgeCooking.Render(string(s))
	case orders.StatusReady:
		return badgeReady.Render(string(s))
	case orders.StatusDelivered:
		return badgeDelivered.Render(string(s))
	case orders.StatusCancelled:
		return badgeCancelled.Render(string(s))
	default:
		return TextMuted.Render(string(s))
	}
}

// KitchenBadge renders the kitchen board's badge text for a status.
func KitchenBadge(s orders.Status) string {
	switch s {
	case orders.StatusPending:
		return badgePending.Render(s.KitchenLabel())
	case orders.StatusCooking:
		return badgeCooking.Render(s.KitchenLabel())
	case orders.StatusReady:
		return badgeReady.Render(s.KitchenLabel())
	default:
		return TextMuted.Render(s.KitchenLabel())
	}
}
