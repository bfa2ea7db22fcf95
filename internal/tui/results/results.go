package results

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joacominatel/askdb/internal/database"
	"github.com/joacominatel/askdb/internal/tui/theme"
)

const maxColumnWidth = 40

// Model is the rows table component.
type Model struct {
	result    *database.QueryResult
	cells     [][]string
	sql       string
	width     int
	height    int
	focused   bool
	scrollY   int
	scrollX   int
	loading   bool
	colWidths []int
}

// New creates a new results model.
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

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// SetResult shows the rows returned by sql. A nil result clears the table.
func (m *Model) SetResult(sql string, r *database.QueryResult) {
	m.sql = sql
	m.result = r
	m.cells = nil
	if r != nil {
		m.cells = r.Strings()
	}
	m.scrollY = 0
	m.scrollX = 0
	m.loading = false
	m.calculateColumnWidths()
}

func (m *Model) calculateColumnWidths() {
	if m.result == nil || len(m.result.Columns) == 0 {
		m.colWidths = nil
		return
	}

	m.colWidths = make([]int, len(m.result.Columns))
	for i, col := range m.result.Columns {
		m.colWidths[i] = lipgloss.Width(col)
	}
	for _, row := range m.cells {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(m.colWidths) && w > m.colWidths[i] {
				m.colWidths[i] = w
			}
		}
	}
	for i := range m.colWidths {
		m.colWidths[i] = min(max(m.colWidths[i], 1), maxColumnWidth)
	}
}

// Update handles scrolling while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused || m.result == nil {
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	lastRow := max(len(m.cells)-1, 0)
	switch key.String() {
	case "up", "k":
		m.scrollY = max(m.scrollY-1, 0)
	case "down", "j":
		m.scrollY = min(m.scrollY+1, lastRow)
	case "pgup":
		m.scrollY = max(m.scrollY-m.height/2, 0)
	case "pgdown":
		m.scrollY = min(m.scrollY+m.height/2, lastRow)
	case "left", "h":
		m.scrollX = max(m.scrollX-1, 0)
	case "right", "l":
		m.scrollX = min(m.scrollX+1, max(len(m.colWidths)-1, 0))
	}

	return m, nil
}

// View renders the results pane.
func (m Model) View() string {
	title := theme.StylePaneTitle.Render("Rows")

	switch {
	case m.loading:
		return title + "\n" + theme.StyleMuted.Render("  Waiting for the query...")
	case m.result == nil && m.sql == "":
		return title + "\n" + theme.StyleMuted.Render("  Ask a question to see the rows behind it")
	}

	var b strings.Builder
	b.WriteString(title)
	if m.result != nil {
		stats := fmt.Sprintf("%d row(s) │ %s", m.result.RowCount, m.result.Duration.Round(time.Microsecond))
		b.WriteString("  " + theme.StyleMuted.Render(stats))
	}
	b.WriteString("\n")
	if m.sql != "" {
		b.WriteString("  " + theme.StyleMuted.Render(oneLine(m.sql, m.width-4)) + "\n")
	}

	if m.result == nil || len(m.result.Columns) == 0 {
		return strings.TrimRight(b.String(), "\n")
	}

	b.WriteString(m.renderRow(m.result.Columns, true))
	b.WriteString("\n")
	b.WriteString(m.renderSeparator())

	visibleRows := max(m.height-5, 1)
	for i := m.scrollY; i < len(m.cells) && i < m.scrollY+visibleRows; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderRow(m.cells[i], false))
	}

	return b.String()
}

func (m Model) renderRow(cells []string, isHeader bool) string {
	var parts []string
	for i := m.scrollX; i < len(cells); i++ {
		width := 10
		if i < len(m.colWidths) {
			width = m.colWidths[i]
		}

		display := fit(cells[i], width)
		if isHeader {
			display = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorPrimary).Render(display)
		}
		parts = append(parts, display)
	}
	return "  " + strings.Join(parts, " │ ")
}

func (m Model) renderSeparator() string {
	var parts []string
	for i := m.scrollX; i < len(m.colWidths); i++ {
		parts = append(parts, strings.Repeat("─", m.colWidths[i]))
	}
	return "  " + lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Join(parts, "─┼─"))
}

// fit truncates or pads cell to exactly width display cells.
func fit(cell string, width int) string {
	if lipgloss.Width(cell) > width {
		runes := []rune(cell)
		for len(runes) > 0 && lipgloss.Width(string(runes)) >= width {
			runes = runes[:len(runes)-1]
		}
		cell = string(runes) + "…"
	}
	if pad := width - lipgloss.Width(cell); pad > 0 {
		cell += strings.Repeat(" ", pad)
	}
	return cell
}

func oneLine(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width > 1 && lipgloss.Width(s) > width {
		return fit(s, width)
	}
	return s
}
