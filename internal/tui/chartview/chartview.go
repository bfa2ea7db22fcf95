// Package chartview draws the answer: a terminal chart or a text message.
package chartview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joacominatel/askdb/internal/chart"
	"github.com/joacominatel/askdb/internal/tui/theme"
)

// Model is the chart pane.
type Model struct {
	chart   *chart.Chart
	message string
	err     string
	width   int
	height  int
	focused bool
	loading bool
	scrollY int
}

// New creates an empty chart pane.
func New() Model {
	return Model{}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// SetLoading clears the pane and shows a spinner line.
func (m *Model) SetLoading(l bool) {
	m.loading = l
	if l {
		m.chart, m.message, m.err = nil, "", ""
	}
}

// SetChart shows c.
func (m *Model) SetChart(c *chart.Chart) {
	m.chart = c
	m.message, m.err = "", ""
	m.loading = false
	m.scrollY = 0
}

// SetMessage shows a text answer.
func (m *Model) SetMessage(s string) {
	m.chart = nil
	m.message = s
	m.loading = false
}

// SetError shows an error line. The previous chart is kept off screen.
func (m *Model) SetError(s string) {
	m.chart = nil
	m.err = s
	m.loading = false
}

// Update scrolls tall charts while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused || m.chart == nil {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			m.scrollY = max(m.scrollY-1, 0)
		case "down", "j":
			m.scrollY++
		}
	}
	return m, nil
}

// View renders the pane.
func (m Model) View() string {
	title := theme.StylePaneTitle.Render("Answer")

	switch {
	case m.loading:
		return title + "\n" + theme.StyleMuted.Render("  Generating SQL and running it...")
	case m.err != "":
		body := m.err
		if m.message != "" {
			body = m.message + "\n  " + m.err
		}
		return title + "\n" + theme.StyleError.Render("  "+body)
	case m.message != "":
		return title + "\n  " + m.message
	case m.chart == nil:
		return title + "\n" + theme.StyleMuted.Render("  Ask a question to draw a chart")
	}

	lines := strings.Split(m.chart.Text(m.width-4), "\n")
	visible := max(m.height-2, 1)
	start := min(m.scrollY, max(len(lines)-visible, 0))
	end := min(start+visible, len(lines))

	var b strings.Builder
	b.WriteString(title)
	for _, line := range lines[start:end] {
		b.WriteString("\n  ")
		b.WriteString(theme.StyleChart.Render(line))
	}
	return b.String()
}
