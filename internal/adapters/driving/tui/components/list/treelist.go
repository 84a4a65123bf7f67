// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/plantap/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/plantap/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/plantap/internal/core/domain"
)

// row is one printed line: a group heading or a drawing.
type row struct {
	group string
	count int
	item  *domain.Item
}

// TreeList displays a grouped catalog; the selection moves over drawings only.
type TreeList struct {
	tree     *domain.Tree
	rows     []row
	items    []int // indexes into rows of drawing rows
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewTreeList creates an empty tree list.
func NewTreeList(s *styles.Styles) *TreeList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &TreeList{
		styles: s,
		width:  80,
		height: 20,
	}
}

// Update handles list navigation keys. A move to another drawing returns a
// command yielding messages.SelectionChanged.
func (l *TreeList) Update(msg tea.Msg) (*TreeList, tea.Cmd) {
	prev := l.selected
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.items) > 0 {
				l.selected = len(l.items) - 1
			}
		}
	}
	if l.selected == prev {
		return l, nil
	}
	item := l.SelectedItem()
	if item == nil {
		return l, nil
	}
	changed := messages.SelectionChanged{Item: *item}
	return l, func() tea.Msg { return changed }
}

// SetTree replaces the tree. The selection stays on the same drawing when it
// is still present.
func (l *TreeList) SetTree(tree *domain.Tree) {
	var keep string
	if item := l.SelectedItem(); item != nil {
		keep = item.ID
	}

	l.tree = tree
	l.rows = l.rows[:0]
	l.items = l.items[:0]
	l.selected = 0
	if tree == nil {
		return
	}

	for gi := range tree.Groups {
		g := &tree.Groups[gi]
		l.rows = append(l.rows, row{group: g.Name, count: len(g.Items)})
		for ii := range g.Items {
			item := &g.Items[ii]
			if item.ID == keep {
				l.selected = len(l.items)
			}
			l.items = append(l.items, len(l.rows))
			l.rows = append(l.rows, row{item: item})
		}
	}
}

// View renders the visible window of the tree.
func (l *TreeList) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render("No drawings")
	}

	visible := l.height
	if visible < 1 {
		visible = 1
	}
	cursor := l.items[l.selected]
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(l.rows) {
		end = len(l.rows)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderRow(i, i == cursor))
	}
	return strings.Join(lines, "\n")
}

func (l *TreeList) renderRow(i int, selected bool) string {
	r := l.rows[i]
	if r.item == nil {
		return l.styles.Group.Render(r.group) + " " + l.styles.Muted.Render(fmt.Sprintf("(%d)", r.count))
	}

	title := r.item.Title
	maxTitle := l.width - lipgloss.Width(r.item.Number) - 6
	if maxTitle < 10 {
		maxTitle = 10
	}
	if runes := []rune(title); len(runes) > maxTitle {
		title = string(runes[:maxTitle-1]) + "…"
	}

	if selected {
		return l.styles.Selected.Render("> " + r.item.Number + "  " + title)
	}
	return "  " + l.styles.Number.Render(r.item.Number) + "  " + l.styles.Muted.Render(title)
}

// SelectedItem returns the selected drawing, or nil when the list is empty.
func (l *TreeList) SelectedItem() *domain.Item {
	if len(l.items) == 0 || l.selected < 0 || l.selected >= len(l.items) {
		return nil
	}
	return l.rows[l.items[l.selected]].item
}

// Selected returns the index of the selected drawing.
func (l *TreeList) Selected() int {
	return l.selected
}

// MoveUp moves selection up.
func (l *TreeList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *TreeList) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *TreeList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of drawings shown.
func (l *TreeList) Count() int {
	return len(l.items)
}

// IsEmpty returns whether the list shows no drawings.
func (l *TreeList) IsEmpty() bool {
	return len(l.items) == 0
}
