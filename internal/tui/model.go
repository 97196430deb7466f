// Package tui is the interactive terminal dashboard.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kalambet/studentwell/internal/checkin"
	"github.com/kalambet/studentwell/internal/dashboard"
	"github.com/kalambet/studentwell/internal/mood"
	"github.com/kalambet/studentwell/internal/view"
)

// Model is the root bubbletea model. It keeps the check-in form state and the
// active tab; everything else is read from the dashboard on each render.
type Model struct {
	dash   *dashboard.Dashboard
	styles view.Styles
	form   *checkin.Form
	notes  textarea.Model

	cursor int // highlighted mood value, 1..5
	notice string
	err    error
	width  int
}

// New creates the model over d.
func New(d *dashboard.Dashboard, styles view.Styles) Model {
	ta := textarea.New()
	ta.Placeholder = "What's on your mind today?"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(60)

	return Model{
		dash:   d,
		styles: styles,
		form:   d.NewCheckInForm(),
		notes:  ta,
		cursor: 3,
		width:  80,
	}
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(d *dashboard.Dashboard, styles view.Styles) error {
	_, err := tea.NewProgram(New(d, styles), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.notes.SetWidth(min(msg.Width-4, 80))
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.notes.Focused() {
			if msg.Type == tea.KeyEsc {
				m.notes.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.notes, cmd = m.notes.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.switchTab(1)
			return m, nil
		case "shift+tab":
			m.switchTab(-1)
			return m, nil
		}

		if m.dash.Active() == dashboard.TabCheckIn {
			return m.updateCheckIn(msg)
		}
	}
	return m, nil
}

func (m *Model) switchTab(delta int) {
	tabs := dashboard.Tabs
	i := 0
	for j, t := range tabs {
		if t == m.dash.Active() {
			i = j
		}
	}
	i = (i + delta + len(tabs)) % len(tabs)
	_ = m.dash.Select(tabs[i])
	m.notes.Blur()
	m.notice, m.err = "", nil
}

func (m Model) updateCheckIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.dash.CheckedInToday() {
		return m, nil
	}
	switch key := msg.String(); key {
	case "left", "h":
		if m.cursor > 1 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(mood.Levels) {
			m.cursor++
		}
	case "1", "2", "3", "4", "5":
		m.cursor = int(key[0] - '0')
		_ = m.form.Select(m.cursor)
	case " ":
		_ = m.form.Select(m.cursor)
	case "x":
		m.form.Clear()
	case "n":
		cmd := m.notes.Focus()
		return m, cmd
	case "enter":
		m.form.SetNotes(m.notes.Value())
		_, note, err := m.form.Submit(m.dash.Now())
		switch {
		case errors.Is(err, checkin.ErrNoMoodSelected):
			m.err = fmt.Errorf("select a mood first")
		case err != nil:
			m.err = err
		default:
			m.notes.Reset()
			m.err = nil
			m.notice = note.Title + ": " + note.Description
		}
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("StudentWell"))
	sb.WriteString(" ")
	sb.WriteString(m.styles.Muted.Render("Your mental health companion"))
	sb.WriteString("\n\n")
	sb.WriteString(m.tabBar())
	sb.WriteString("\n\n")

	switch m.dash.Active() {
	case dashboard.TabCheckIn:
		sb.WriteString(m.checkInView())
	case dashboard.TabInsights:
		sb.WriteString(m.styles.Trends(m.dash.Trends()))
	case dashboard.TabWellness:
		out, err := m.styles.Recommendations(m.dash.CurrentMood(), m.width-4)
		if err != nil {
			out = err.Error()
		}
		sb.WriteString(out)
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Resources())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render(m.help()))
	return sb.String()
}

func (m Model) tabBar() string {
	tabs := make([]string, 0, len(dashboard.Tabs))
	for _, t := range dashboard.Tabs {
		if t == m.dash.Active() {
			tabs = append(tabs, m.styles.TabOn.Render(t.Title()))
		} else {
			tabs = append(tabs, m.styles.TabOff.Render(t.Title()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) checkInView() string {
	snap := m.dash.Snapshot()
	var sb strings.Builder
	sb.WriteString(m.styles.Snapshot(snap))
	sb.WriteString("\n")
	if !snap.CheckedInToday {
		selected, hasSelection := m.form.Selected()
		for _, l := range mood.Levels {
			label := fmt.Sprintf("%s %s", l.Emoji, l.Label)
			switch {
			case hasSelection && selected == l.Value:
				label = "[" + label + "]"
			case l.Value == m.cursor:
				label = ">" + label + "<"
			default:
				label = " " + label + " "
			}
			sb.WriteString(m.styles.Level(l.Value, label))
			sb.WriteString("  ")
		}
		sb.WriteString("\n\nAny thoughts to share? (optional)\n")
		sb.WriteString(m.notes.View())
		sb.WriteString("\n")
		if m.err != nil {
			sb.WriteString(m.styles.Warning.Render(m.err.Error()))
			sb.WriteString("\n")
		}
	}
	if m.notice != "" {
		sb.WriteString("\n")
		sb.WriteString(m.notice)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) help() string {
	switch {
	case m.notes.Focused():
		return "esc: done editing • ctrl+c: quit"
	case m.dash.Active() == dashboard.TabCheckIn && !m.dash.CheckedInToday():
		return "1-5/←→ space: choose • x: clear • n: notes • enter: record • tab: switch view • q: quit"
	default:
		return "tab: switch view • q: quit"
	}
}
