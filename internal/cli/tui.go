package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pomtree/pomtree/pkg/pom"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// treeRow is one visible line of the interactive dependency tree.
type treeRow struct {
	dep      *pom.Dependency
	depth    int
	expanded bool
	repeat   bool // artifact already expanded elsewhere
}

func (r treeRow) hasChildren() bool {
	return !r.repeat && r.dep.Model != nil && len(r.dep.Model.Dependencies) > 0
}

// TreeModel is the bubbletea model for interactive dependency browsing:
// arrow keys move, enter expands or collapses a subtree, q quits.
type TreeModel struct {
	root     *pom.Pom
	rows     []treeRow
	expanded map[string]bool
	cursor   int
	height   int
	offset   int
}

// newTreeModel creates the interactive model showing the root's direct
// dependencies, all collapsed.
func newTreeModel(root *pom.Pom) TreeModel {
	m := TreeModel{
		root:     root,
		expanded: make(map[string]bool),
		height:   20,
	}
	m.rebuild()
	return m
}

// rebuild flattens the tree into visible rows, honoring expansion state.
// Each artifact's subtree appears at its first visit only, matching the
// static tree printer.
func (m *TreeModel) rebuild() {
	m.rows = m.rows[:0]
	seen := map[string]bool{m.root.GA().String(): true}
	m.flatten(m.root.Dependencies, 0, seen)
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

func (m *TreeModel) flatten(deps []*pom.Dependency, depth int, seen map[string]bool) {
	for _, dep := range deps {
		id := dep.GA().String()
		repeat := seen[id]
		row := treeRow{dep: dep, depth: depth, repeat: repeat, expanded: m.expanded[id]}
		m.rows = append(m.rows, row)
		if repeat {
			continue
		}
		seen[id] = true
		if row.expanded && dep.Model != nil {
			m.flatten(dep.Model.Dependencies, depth+1, seen)
		}
	}
}

func (m TreeModel) Init() tea.Cmd { return nil }

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter", " ":
			if m.cursor < len(m.rows) {
				row := m.rows[m.cursor]
				if row.hasChildren() {
					id := row.dep.GA().String()
					m.expanded[id] = !m.expanded[id]
					m.rebuild()
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.root.Coordinates()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand/collapse  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		row := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		marker := "  "
		switch {
		case row.repeat:
			marker = "· "
		case row.hasChildren() && row.expanded:
			marker = "▾ "
		case row.hasChildren():
			marker = "▸ "
		}

		line := cursor + strings.Repeat("  ", row.depth) + marker + formatDep(row.dep, nil)
		if i == m.cursor {
			line = listSelectedStyle.Render(cursor) + strings.Repeat("  ", row.depth) + marker + formatDep(row.dep, nil)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d dependencies", len(m.rows))))
	return b.String()
}
