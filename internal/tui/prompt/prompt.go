// Package prompt is the question input with its chart-kind selector.
package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joacominatel/askdb/internal/chart"
	"github.com/joacominatel/askdb/internal/tui/theme"
)

// AskMsg is sent when the user submits a question.
type AskMsg struct {
	Question string
	Kind     string
}

// KindChangedMsg is sent when the chart kind changes.
type KindChangedMsg struct {
	Kind string
}

// Model is the question input component.
type Model struct {
	input   textinput.Model
	kind    int
	width   int
	focused bool
	busy    bool
}

// New creates a prompt with the given initial chart kind. Unknown kinds fall back to bar.
func New(kind string) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g., Show me total sales by region"
	ti.CharLimit = 500
	ti.Prompt = "› "

	m := Model{input: ti}
	for i, k := range chart.Kinds {
		if string(k) == kind {
			m.kind = i
		}
	}
	return m
}

// SetSize updates the component width.
func (m *Model) SetSize(w, _ int) {
	m.width = w
	m.input.Width = max(w-lipgloss.Width(m.badge())-6, 10)
}

// SetFocused focuses or blurs the text input.
func (m *Model) SetFocused(f bool) {
	m.focused = f
	if f {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// SetBusy blocks submissions while a question is in flight.
func (m *Model) SetBusy(b bool) {
	m.busy = b
}

// Kind returns the selected chart kind.
func (m Model) Kind() string {
	return string(chart.Kinds[m.kind])
}

// Value returns the current question text.
func (m Model) Value() string {
	return m.input.Value()
}

// SetValue replaces the question text.
func (m *Model) SetValue(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// Update handles input while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if m.busy {
				return m, nil
			}
			kind := m.Kind()
			return m, func() tea.Msg { return AskMsg{Question: question, Kind: kind} }
		case "tab":
			m.kind = (m.kind + 1) % len(chart.Kinds)
			kind := m.Kind()
			return m, func() tea.Msg { return KindChangedMsg{Kind: kind} }
		case "ctrl+k":
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) badge() string {
	return theme.StyleChartKind.Render(m.Kind())
}

// View renders the prompt.
func (m Model) View() string {
	title := theme.StylePaneTitle.Render("Question")
	line := " " + m.input.View() + "  " + m.badge()
	if m.busy {
		line += " " + theme.StyleMuted.Render("thinking...")
	}
	return title + "\n" + line
}
