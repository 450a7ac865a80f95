package kanban

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/synergysphere/synergysphere/internal/board"
	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/theme"
)

// View renders the board view.
func (m Model) View() string {
	var sections []string

	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		sections = append(sections, searchBar)
	} else {
		sections = append(sections, m.renderProjectHeader())
	}

	colWidth := m.columnWidth()
	colHeight := m.height - 4

	rendered := make([]string, len(m.columns))
	for i, col := range m.columns {
		rendered[i] = m.renderColumn(col, i, colWidth, colHeight)
	}

	sections = append(sections,
		lipgloss.JoinHorizontal(lipgloss.Top, rendered...))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderProjectHeader shows the project name, deadline, and active
// search or sort state.
func (m Model) renderProjectHeader() string {
	if m.project == nil {
		return ""
	}

	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	parts := []string{
		nameStyle.Render(fmt.Sprintf("%s %s", m.project.Icon, m.project.Name)),
	}

	if m.project.Deadline != nil {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Render("due "+m.project.Deadline.Format("Jan 02")))
	}
	if m.query != "" {
		parts = append(parts, theme.HelpStyle.Render(
			fmt.Sprintf("search: %q", m.query)))
	}
	parts = append(parts, theme.HelpStyle.Render(
		"sort: "+sortModes[m.sortIndex]))

	return lipgloss.NewStyle().Padding(0, 1).Render(
		strings.Join(parts, "  "))
}

// renderColumn draws one board column with its header and task cards.
func (m Model) renderColumn(col board.Column, idx, width, height int) string {
	header := theme.StatusStyle(col.Status).Render(
		fmt.Sprintf("%s (%d)", board.Titles[col.Status], len(col.Tasks)))

	lines := []string{header, ""}
	for i, task := range col.Tasks {
		selected := idx == m.colIdx && i == m.rowIdx
		lines = append(lines, m.renderCard(task, selected, width-4))
	}

	if len(col.Tasks) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("empty"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	style := theme.ColumnStyle
	if idx == m.colIdx {
		style = theme.FocusedColumnStyle
	}
	return style.Width(width).Height(height).Render(content)
}

// renderCard draws a single task card line pair.
func (m Model) renderCard(task model.Task, selected bool, width int) string {
	if width < 10 {
		width = 10
	}

	title := truncate.StringWithTail(task.Title, uint(width), "…")

	var meta []string
	meta = append(meta,
		theme.PriorityStyle(task.Priority).Render(priorityLabel(task.Priority)))
	if task.Assignee != nil {
		meta = append(meta, lipgloss.NewStyle().
			Foreground(theme.ColorBlue).
			Render(task.Assignee.Initials()))
	}
	if task.DueDate != nil {
		label := task.DueDate.Format("Jan 02")
		if task.IsOverdue() {
			meta = append(meta, theme.OverdueStyle.Render(label+"!"))
		} else {
			meta = append(meta, lipgloss.NewStyle().
				Foreground(theme.ColorGray).
				Render(label))
		}
	}

	block := title + "\n" + strings.Join(meta, " ")
	if selected {
		return theme.SelectedItemStyle.Render(block)
	}
	return theme.ListItemStyle.Render(block)
}

// columnWidth splits the available width evenly across the columns.
func (m Model) columnWidth() int {
	n := len(m.columns)
	if n == 0 {
		n = 1
	}
	w := m.width/n - 2
	if w < 16 {
		w = 16
	}
	return w
}

// priorityLabel returns a short label for the given priority level.
func priorityLabel(p string) string {
	switch p {
	case model.PriorityHigh:
		return "HIGH"
	case model.PriorityMedium:
		return "MED"
	case model.PriorityLow:
		return "LOW"
	default:
		return "?"
	}
}
