package detail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/synergysphere/synergysphere/internal/board"
	"github.com/synergysphere/synergysphere/internal/keys"
	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
	"github.com/synergysphere/synergysphere/internal/theme"
)

// BackMsg signals the parent to navigate back to the board.
type BackMsg struct{}

// TaskLoadedMsg carries the loaded task.
type TaskLoadedMsg struct {
	Task *model.Task
}

// EditMsg signals the parent to open the edit form for the task.
type EditMsg struct {
	Task model.Task
}

// DeletedMsg signals that the task was deleted.
type DeletedMsg struct{}

// checklistToggledMsg is sent after a checklist item toggle.
type checklistToggledMsg struct{ err error }

// taskDeletedMsg is sent after the task was removed from the store.
type taskDeletedMsg struct{ err error }

// Model is the task detail view component.
type Model struct {
	task     *model.Task
	viewport viewport.Model
	store    store.Store
	keys     *keys.KeyMap

	checklistIdx int

	width   int
	height  int
	loading bool
}

// New creates a new detail view model.
func New(s store.Store, keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		store:    s,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// SetTask points the view at a task and returns a load command.
func (m *Model) SetTask(taskID string) tea.Cmd {
	m.loading = true
	m.checklistIdx = 0
	return m.loadTask(taskID)
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TaskLoadedMsg:
		m.task = msg.Task
		m.loading = false
		if m.task != nil && m.checklistIdx >= len(m.task.Checklist) {
			m.checklistIdx = 0
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case checklistToggledMsg:
		if m.task != nil {
			return m, m.loadTask(m.task.ID)
		}
		return m, nil

	case taskDeletedMsg:
		return m, func() tea.Msg { return DeletedMsg{} }

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Edit):
			if m.task != nil {
				task := *m.task
				return m, func() tea.Msg { return EditMsg{Task: task} }
			}

		case key.Matches(msg, m.keys.Delete):
			if m.task != nil {
				return m, m.deleteTask(m.task.ID)
			}

		case msg.String() == "J":
			if m.task != nil && len(m.task.Checklist) > 0 {
				m.checklistIdx = (m.checklistIdx + 1) % len(m.task.Checklist)
				m.viewport.SetContent(m.renderContent())
			}
			return m, nil

		case msg.String() == "K":
			if m.task != nil && len(m.task.Checklist) > 0 {
				m.checklistIdx--
				if m.checklistIdx < 0 {
					m.checklistIdx = len(m.task.Checklist) - 1
				}
				m.viewport.SetContent(m.renderContent())
			}
			return m, nil

		case msg.String() == " ":
			if m.task != nil && m.checklistIdx < len(m.task.Checklist) {
				item := m.task.Checklist[m.checklistIdx]
				return m, m.toggleChecklistItem(item.ID)
			}
			return m, nil
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		loadingStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return loadingStyle.Render("Loading task...")
	}

	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	// Badges line: status + priority
	statusBadge := theme.StatusStyle(task.Status).Render(board.Titles[task.Status])
	priBadge := theme.PriorityStyle(task.Priority).Render(priorityName(task.Priority))

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top, statusBadge, "  ", priBadge,
	)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	// Metadata table
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	if task.Assignee != nil {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Assignee:"),
			valStyle.Render(fmt.Sprintf("%s (%s)", task.Assignee.Name, task.Assignee.Role)),
		))
	}
	if task.DueDate != nil {
		due := task.DueDate.Format("2006-01-02")
		if task.IsOverdue() {
			due = theme.OverdueStyle.Render(due + "  OVERDUE")
		} else {
			due = valStyle.Render(due)
		}
		sections = append(sections, fmt.Sprintf(
			"%s       %s", metaStyle.Render("Due:"), due,
		))
	}
	if !task.CreatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Created:"),
			valStyle.Render(task.CreatedAt.Format("2006-01-02 15:04")),
		))
	}
	if !task.UpdatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Updated:"),
			valStyle.Render(task.UpdatedAt.Format("2006-01-02 15:04")),
		))
	}

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	// Description
	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sections = append(sections, descHeaderStyle.Render("Description"))

	body := task.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, body)

	// Checklist section
	if len(task.Checklist) > 0 {
		done, total := board.Progress(*task)

		sections = append(sections, "")
		sections = append(sections, separator)
		sections = append(sections, "")
		sections = append(sections, descHeaderStyle.Render(
			fmt.Sprintf("Checklist (%d/%d)", done, total),
		))

		for i, item := range task.Checklist {
			check := "☐"
			if item.Completed {
				check = "☑"
			}
			line := check + " " + item.Text
			if i == m.checklistIdx {
				line = theme.SelectedItemStyle.Render(line)
			} else {
				line = theme.ListItemStyle.Render(line)
			}
			sections = append(sections, line)
		}
	}

	// Attachments section
	if len(task.Attachments) > 0 {
		sections = append(sections, "")
		sections = append(sections, separator)
		sections = append(sections, "")
		sections = append(sections, descHeaderStyle.Render(
			fmt.Sprintf("Attachments (%d)", len(task.Attachments)),
		))
		for _, name := range task.Attachments {
			sections = append(sections, "📎 "+name)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// loadTask returns a command that loads a task by id from the store.
func (m Model) loadTask(taskID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		task, err := s.GetTaskByID(context.Background(), taskID)
		if err != nil {
			return TaskLoadedMsg{Task: nil}
		}
		return TaskLoadedMsg{Task: task}
	}
}

// toggleChecklistItem flips a checklist item and reloads the task.
func (m Model) toggleChecklistItem(itemID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.ToggleChecklistItem(context.Background(), itemID)
		return checklistToggledMsg{err: err}
	}
}

// deleteTask removes the task from the store.
func (m Model) deleteTask(taskID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteTask(context.Background(), taskID)
		return taskDeletedMsg{err: err}
	}
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

// priorityName returns a human-readable name for the priority level.
func priorityName(p string) string {
	switch p {
	case model.PriorityHigh:
		return "High"
	case model.PriorityMedium:
		return "Medium"
	case model.PriorityLow:
		return "Low"
	default:
		return "Unknown"
	}
}
