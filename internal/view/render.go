package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/kalambet/studentwell/internal/dashboard"
	"github.com/kalambet/studentwell/internal/mood"
	"github.com/kalambet/studentwell/internal/recommend"
	"github.com/kalambet/studentwell/internal/trends"
)

const maxBarWidth = 30

// Trends renders the insights tab: stat cards, the weekly line and the
// distribution chart.
func (s Styles) Trends(r trends.Report) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		s.card("Overall Average", r.OverallAverageText),
		s.card("This Week", r.WeeklyAverageText),
		s.card("Check-ins", fmt.Sprintf("%d", r.CheckIns)),
	)

	var sb strings.Builder
	sb.WriteString(cards)
	sb.WriteString("\n\n")
	sb.WriteString(s.Title.Render("Weekly Mood Trend"))
	sb.WriteString("\n")
	if len(r.Series) == 0 {
		sb.WriteString(s.Muted.Render("Start tracking your mood to see trends here"))
		sb.WriteString("\n")
		return sb.String()
	}
	for _, p := range r.Series {
		filled := min(max(p.Mood, 0), len(mood.Levels))
		bar := strings.Repeat("●", filled) + strings.Repeat("·", len(mood.Levels)-filled)
		fmt.Fprintf(&sb, "  %-3s %s %s %s\n", p.Day, s.Level(p.Mood, bar), p.Emoji, p.Label)
	}

	sb.WriteString("\n")
	sb.WriteString(s.Title.Render("Mood Distribution"))
	sb.WriteString("\n")
	peak := 0
	for _, b := range r.Distribution {
		if b.Value > peak {
			peak = b.Value
		}
	}
	for i, b := range r.Distribution {
		width := 0
		if peak > 0 {
			width = b.Value * maxBarWidth / peak
		}
		if b.Value > 0 && width == 0 {
			width = 1
		}
		fmt.Fprintf(&sb, "  %-9s %s %d\n", b.Name, s.Level(i+1, strings.Repeat("█", width)), b.Value)
	}
	return sb.String()
}

func (s Styles) card(label, value string) string {
	return s.Card.Render(s.Muted.Render(label) + "\n" + s.Value.Render(value))
}

// Snapshot renders the check-in tab summary.
func (s Styles) Snapshot(snap dashboard.Snapshot) string {
	var sb strings.Builder
	if snap.CheckedInToday {
		sb.WriteString(s.Title.Render("✅ Check-in Complete!"))
		sb.WriteString("\n")
		sb.WriteString(s.Muted.Render("You've already checked in today. Come back tomorrow to continue tracking your wellness journey."))
	} else {
		sb.WriteString(s.Title.Render("How are you feeling today?"))
		sb.WriteString("\n")
		sb.WriteString(s.Muted.Render("Take a moment to check in with yourself"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		s.card("Your Streak", fmt.Sprintf("%d days tracked", snap.DaysTracked)),
		s.card("Current Focus", "🎯 Daily Self-Care"),
	))
	sb.WriteString("\n")
	if snap.Latest != nil {
		fmt.Fprintf(&sb, "\nLatest: %s %s  %s\n", snap.Latest.Emoji, s.Level(snap.Latest.Value, snap.Latest.Label), s.Muted.Render(snap.Latest.Timestamp))
	}
	return sb.String()
}

// Resources renders the crisis support box.
func (s Styles) Resources() string {
	var sb strings.Builder
	sb.WriteString(s.Warning.Render("Crisis Support Resources"))
	sb.WriteString("\n")
	sb.WriteString(s.Muted.Render("If you're in crisis or having thoughts of self-harm, please reach out immediately"))
	sb.WriteString("\n")
	for _, r := range dashboard.CrisisResources {
		fmt.Fprintf(&sb, "  • %s: %s\n", r.Name, r.Detail)
	}
	return sb.String()
}

// History renders entries newest first, one per line.
func (s Styles) History(h mood.History) string {
	if len(h) == 0 {
		return s.Muted.Render("No check-ins yet.") + "\n"
	}
	var sb strings.Builder
	for i := len(h) - 1; i >= 0; i-- {
		e := h[i]
		notes := e.Notes
		if len([]rune(notes)) > 60 {
			notes = string([]rune(notes)[:60]) + "..."
		}
		fmt.Fprintf(&sb, "%s  %s %-9s %s\n", s.Muted.Render(e.Timestamp), e.Emoji, s.Level(e.Value, e.Label), notes)
	}
	return sb.String()
}

// Recommendations renders the wellness tab through glamour. Without color
// the plain "notty" style is used.
func (s Styles) Recommendations(label string, width int) (string, error) {
	style := "dark"
	if !s.Color {
		style = "notty"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(recommend.Markdown(label))
	if err != nil {
		return "", fmt.Errorf("rendering recommendations: %w", err)
	}
	return out, nil
}
