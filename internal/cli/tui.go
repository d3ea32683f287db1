package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/argviz/pkg/dag"
	"github.com/matzehuels/argviz/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// =============================================================================
// TreeModel - Interactive attack tree viewer
// =============================================================================

// treeRow is one node of the tree in display order.
type treeRow struct {
	node  graph.LayoutNode
	depth int
	last  bool // Last child of its parent
}

// TreeModel is the bubbletea model for browsing an attack tree. The cursor
// selects a node; its description is shown below the tree.
type TreeModel struct {
	Layout  graph.Layout
	Rows    []treeRow
	Cursor  int
	Offset  int
	Height  int
	Compact bool // Show only the first description line

	attacks *dag.DAG // Attacker -> attacked, for the relation line
}

// NewTreeModel lays the tree out in depth-first order from the root.
func NewTreeModel(l graph.Layout, compact bool) (TreeModel, error) {
	g, err := l.DAG()
	if err != nil {
		return TreeModel{}, err
	}
	tree := g.Reverse()

	byID := make(map[string]graph.LayoutNode, len(l.Nodes))
	for _, n := range l.Nodes {
		byID[n.ID] = n
	}

	type item struct {
		id    string
		depth int
		last  bool
	}
	var rows []treeRow
	stack := []item{{id: l.Root, last: true}}
	seen := make(map[string]bool, len(l.Nodes))
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[it.id] {
			continue
		}
		seen[it.id] = true
		rows = append(rows, treeRow{node: byID[it.id], depth: it.depth, last: it.last})

		children := tree.Children(it.id)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, item{id: children[i], depth: it.depth + 1, last: i == len(children)-1})
		}
	}

	return TreeModel{Layout: l, Rows: rows, Height: 15, Compact: compact, attacks: g}, nil
}

// Selected returns the node under the cursor.
func (m TreeModel) Selected() graph.LayoutNode {
	if len(m.Rows) == 0 {
		return graph.LayoutNode{}
	}
	return m.Rows[m.Cursor].node
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Rows)-1, 0)
		case "c":
			m.Compact = !m.Compact
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

func (m TreeModel) View() string {
	var b strings.Builder

	titleStyle := StyleTitle.Foreground(colorRed)
	if m.Layout.Holds {
		titleStyle = StyleTitle.Foreground(colorGreen)
	}
	b.WriteString(titleStyle.Render(m.Layout.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  c compact  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		line := treePrefix(r) + r.node.ID
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		case r.node.ID == m.Layout.Root:
			b.WriteString(listNormalStyle.Bold(true).Render("  " + line))
		default:
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	sel := m.Selected()
	desc := sel.Description
	if m.Compact {
		desc, _, _ = strings.Cut(desc, "\n")
	}
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(StyleHighlight.Render(sel.ID) + "\n" + desc))
	b.WriteString("\n")
	if rel := m.relations(sel.ID); rel != "" {
		b.WriteString(listDimStyle.Render("  " + rel))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  x=%.3f y=%.3f", m.Cursor+1, len(m.Rows), sel.X, sel.Y)))

	return b.String()
}

// relations describes what id attacks and which arguments attack it.
func (m TreeModel) relations(id string) string {
	if m.attacks == nil {
		return ""
	}
	var parts []string
	if targets := m.attacks.Children(id); len(targets) > 0 {
		parts = append(parts, "attacks "+strings.Join(targets, ", "))
	}
	if attackers := m.attacks.Parents(id); len(attackers) > 0 {
		parts = append(parts, "attacked by "+strings.Join(attackers, ", "))
	}
	return strings.Join(parts, "; ")
}

// treePrefix draws the branch for r. Only the row's own connector is drawn.
func treePrefix(r treeRow) string {
	if r.depth == 0 {
		return ""
	}
	branch := "├─ "
	if r.last {
		branch = "└─ "
	}
	return strings.Repeat("   ", r.depth-1) + branch
}
