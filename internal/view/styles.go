// Package view renders dashboard state for terminals.
package view

import "github.com/charmbracelet/lipgloss"

// Palette follows the wellness scale from poor to excellent.
var (
	ColorPoor      = lipgloss.Color("#e57373")
	ColorLow       = lipgloss.Color("#ff8a65")
	ColorNeutral   = lipgloss.Color("#ffd54f")
	ColorGood      = lipgloss.Color("#4db6ac")
	ColorExcellent = lipgloss.Color("#8BC34A")

	ColorPrimary = lipgloss.Color("#2196F3")
	ColorMuted   = lipgloss.Color("#8a94a6")
	ColorWarning = lipgloss.Color("#FFC107")
	ColorSuccess = lipgloss.Color("#4CAF50")
	ColorError   = lipgloss.Color("#F44336")
)

var levelColors = []lipgloss.Color{ColorPoor, ColorLow, ColorNeutral, ColorGood, ColorExcellent}

// Styles holds the lipgloss styles used by every renderer. A colorless set
// keeps layout but drops foreground colors.
type Styles struct {
	Color bool

	Title   lipgloss.Style
	Muted   lipgloss.Style
	Card    lipgloss.Style
	Value   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	TabOn   lipgloss.Style
	TabOff  lipgloss.Style
}

// NewStyles returns the style set, with or without color.
func NewStyles(color bool) Styles {
	s := Styles{
		Color:   color,
		Title:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle(),
		Card:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Value:   lipgloss.NewStyle().Bold(true),
		Warning: lipgloss.NewStyle().Bold(true),
		Success: lipgloss.NewStyle().Bold(true),
		Error:   lipgloss.NewStyle().Bold(true),
		TabOn:   lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 2),
		TabOff:  lipgloss.NewStyle().Padding(0, 2),
	}
	if color {
		s.Title = s.Title.Foreground(ColorPrimary)
		s.Muted = s.Muted.Foreground(ColorMuted)
		s.Card = s.Card.BorderForeground(ColorMuted)
		s.Value = s.Value.Foreground(ColorPrimary)
		s.Warning = s.Warning.Foreground(ColorWarning)
		s.Success = s.Success.Foreground(ColorSuccess)
		s.Error = s.Error.Foreground(ColorError)
		s.TabOn = s.TabOn.Foreground(ColorPrimary)
		s.TabOff = s.TabOff.Foreground(ColorMuted)
	}
	return s
}

// Level colors text for a mood value in 1..5.
func (s Styles) Level(value int, text string) string {
	if !s.Color || value < 1 || value > len(levelColors) {
		return text
	}
	return lipgloss.NewStyle().Foreground(levelColors[value-1]).Render(text)
}
