// Package styles provides shared lipgloss styles for CLI and board output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/forage/internal/core/item"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

var current = themes[DefaultTheme]

// GetPalette returns the named palette, falling back to the default.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	if !ok {
		return themes[DefaultTheme], false
	}
	return p, true
}

// ThemeNames returns the built-in theme names.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	return names
}

// SetTheme makes the palette the active one for the style accessors below.
func SetTheme(p Palette) {
	current = p
}

// Title renders section headings.
func Title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(current.Primary)
}

// Muted renders secondary detail text.
func Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Muted)
}

// StatusStyle returns the style for a lifecycle state.
func StatusStyle(s item.Status) lipgloss.Style {
	switch s {
	case item.StatusCompleted:
		return lipgloss.NewStyle().Foreground(current.Success)
	case item.StatusBlocked:
		return lipgloss.NewStyle().Foreground(current.Error)
	case item.StatusInProgress:
		return lipgloss.NewStyle().Foreground(current.Warning)
	default:
		return lipgloss.NewStyle().Foreground(current.Foreground)
	}
}

// PriorityStyle returns the style for an urgency tier.
func PriorityStyle(p item.Priority) lipgloss.Style {
	switch p {
	case item.PriorityHigh:
		return lipgloss.NewStyle().Foreground(current.Error).Bold(true)
	case item.PriorityMedium:
		return lipgloss.NewStyle().Foreground(current.Warning)
	default:
		return lipgloss.NewStyle().Foreground(current.Muted)
	}
}

// Status icons shown in ls and board output.
var (
	IconTodo       = "○"
	IconInProgress = "◐"
	IconBlocked    = "✗"
	IconCompleted  = "●"
	IconOverride   = "★"
)

// StatusIcon returns the icon for a lifecycle state.
func StatusIcon(s item.Status) string {
	switch s {
	case item.StatusCompleted:
		return IconCompleted
	case item.StatusBlocked:
		return IconBlocked
	case item.StatusInProgress:
		return IconInProgress
	default:
		return IconTodo
	}
}
