// Package explorer shows the catalog the model is prompted with.
package explorer

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joacominatel/askdb/internal/database"
	"github.com/joacominatel/askdb/internal/tui/theme"
)

// NodeKind identifies the type of a tree node.
type NodeKind int

const (
	NodeDatabase NodeKind = iota
	NodeTable
	NodeColumn
)

// TreeNode represents a single node in the schema tree.
type TreeNode struct {
	Kind     NodeKind
	Name     string
	Children []*TreeNode
	Expanded bool

	Table  string // parent table (columns)
	Detail string // type and constraints (columns)
}

type flatItem struct {
	node  *TreeNode
	depth int
}

// Model is the schema tree component.
type Model struct {
	tree    *TreeNode
	items   []flatItem
	cursor  int
	width   int
	height  int
	focused bool
	loading bool
	err     error
}

// New creates a new explorer model.
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

// SetError shows err instead of the tree.
func (m *Model) SetError(err error) {
	m.err = err
	m.loading = false
}

// SetSchema builds the tree from a catalog. Tables start collapsed.
func (m *Model) SetSchema(name string, schema *database.Schema) {
	root := &TreeNode{Kind: NodeDatabase, Name: name, Expanded: true}

	for _, t := range schema.Tables {
		tableNode := &TreeNode{Kind: NodeTable, Name: t.Name}
		for _, col := range t.Columns {
			detail := strings.TrimSpace(strings.TrimPrefix(col.Describe(), col.Name))
			tableNode.Children = append(tableNode.Children, &TreeNode{
				Kind:   NodeColumn,
				Name:   col.Name,
				Table:  t.Name,
				Detail: detail,
			})
		}
		root.Children = append(root.Children, tableNode)
	}

	m.tree = root
	m.err = nil
	m.loading = false
	m.flatten()
}

// Selected returns the table and column under the cursor. Column is empty
// for table nodes.
func (m Model) Selected() (table, column string, ok bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return "", "", false
	}
	node := m.items[m.cursor].node
	switch node.Kind {
	case NodeTable:
		return node.Name, "", true
	case NodeColumn:
		return node.Table, node.Name, true
	}
	return "", "", false
}

func (m *Model) flatten() {
	m.items = nil
	if m.tree != nil {
		m.flattenNode(m.tree, 0)
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func (m *Model) flattenNode(node *TreeNode, depth int) {
	m.items = append(m.items, flatItem{node: node, depth: depth})
	if node.Expanded {
		for _, child := range node.Children {
			m.flattenNode(child, depth+1)
		}
	}
}

// Update handles key presses while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter", "right", "l":
			m.setExpanded(true)
		case "left", "h":
			m.setExpanded(false)
		}
	}

	return m, nil
}

func (m *Model) setExpanded(expanded bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return
	}
	node := m.items[m.cursor].node
	if node.Kind == NodeColumn || node.Expanded == expanded {
		return
	}
	node.Expanded = expanded
	m.flatten()
}

// View renders the explorer.
func (m Model) View() string {
	title := theme.StylePaneTitle.Render("Schema")

	switch {
	case m.loading:
		return title + "\n" + theme.StyleMuted.Render("  Loading...")
	case m.err != nil:
		return title + "\n" + theme.StyleError.Render("  "+m.err.Error())
	case m.tree == nil:
		return title + "\n" + theme.StyleMuted.Render("  No connection")
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	visibleHeight := max(1, m.height-2)
	offset := 0
	if m.cursor >= visibleHeight {
		offset = m.cursor - visibleHeight + 1
	}

	for i := offset; i < len(m.items) && i < offset+visibleHeight; i++ {
		b.WriteString(m.renderNode(m.items[i], i == m.cursor))
		if i < offset+visibleHeight-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) renderNode(item flatItem, selected bool) string {
	node := item.node
	indent := strings.Repeat("  ", item.depth)

	icon := "  "
	if node.Kind != NodeColumn {
		icon = "▶ "
		if node.Expanded {
			icon = "▼ "
		}
	}

	line := indent + icon + node.Name
	if m.width > 4 && lipgloss.Width(line) > m.width-2 {
		line = truncate(line, m.width-4) + ".."
	}

	if selected {
		return theme.StyleSelected.Render(line)
	}
	if node.Detail != "" {
		rest := m.width - 2 - lipgloss.Width(line) - 1
		if rest > 3 {
			line += " " + theme.StyleMuted.Render(truncate(node.Detail, rest))
		}
	}
	return line
}

func truncate(s string, width int) string {
	runes := []rune(s)
	for lipgloss.Width(string(runes)) > width && len(runes) > 0 {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
