package statusbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joacominatel/askdb/internal/tui/theme"
)

const hints = "Enter: Ask │ Tab: Chart kind │ Shift+Tab: Switch pane │ ?: Help │ Ctrl+C: Quit"

// Model is the status bar component.
type Model struct {
	width     int
	connected bool
	connName  string
	chartKind string
	message   string
}

// New creates a new status bar model.
func New() Model {
	return Model{}
}

// SetWidth updates the component width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetConnected updates the connection status display.
func (m *Model) SetConnected(connected bool, name string) {
	m.connected = connected
	m.connName = name
}

// SetChartKind updates the displayed chart kind.
func (m *Model) SetChartKind(kind string) {
	m.chartKind = kind
}

// SetMessage sets a temporary status message. An empty message shows the key hints.
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

// Message returns the current status message.
func (m Model) Message() string {
	return m.message
}

// View renders the status bar.
func (m Model) View() string {
	style := theme.StyleStatusBar.Width(m.width)

	var left string
	if m.connected {
		left = lipgloss.NewStyle().Foreground(theme.ColorSuccess).Render("●") + " " + m.connName
	} else {
		left = lipgloss.NewStyle().Foreground(theme.ColorError).Render("●") + " disconnected"
	}
	if m.chartKind != "" {
		left += " │ " + m.chartKind
	}

	right := hints
	if m.message != "" {
		right = m.message
	}

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if padding < 1 {
		padding = 1
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
