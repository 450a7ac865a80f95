package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
	"github.com/synergysphere/synergysphere/internal/theme"
)

// TaskCreatedMsg is dispatched when a new task is submitted via the form.
type TaskCreatedMsg struct {
	Draft store.TaskDraft
}

// TaskUpdatedMsg is dispatched when an existing task is edited via the form.
type TaskUpdatedMsg struct {
	ID     string
	Update model.TaskUpdate
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	status      string
	priority    string
	assigneeID  string
	dueDate     string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	editMode  bool
	editID    string
	projectID string
	members   []model.User
	width     int
	height    int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb: &formBindings{
			status:   model.StatusTodo,
			priority: model.PriorityMedium,
		},
		width:  width,
		height: height,
	}
}

// SetMembers sets the project members available in the assignee selector.
func (m *Model) SetMembers(members []model.User) {
	m.members = members
}

// StartCreate initializes the form for creating a new task on a project.
func (m *Model) StartCreate(projectID string) tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.projectID = projectID
	m.fb.title = ""
	m.fb.description = ""
	m.fb.status = model.StatusTodo
	m.fb.priority = model.PriorityMedium
	m.fb.assigneeID = ""
	m.fb.dueDate = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.projectID = task.ProjectID
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.status = task.Status
	m.fb.priority = task.Priority
	m.fb.assigneeID = task.AssigneeID
	if task.DueDate != nil {
		m.fb.dueDate = task.DueDate.Format("2006-01-02")
	} else {
		m.fb.dueDate = ""
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewSelect[string]().
			Title("Status").
			Options(
				huh.NewOption("To-Do", model.StatusTodo),
				huh.NewOption("In Progress", model.StatusProgress),
				huh.NewOption("Done", model.StatusDone),
			).
			Value(&m.fb.status),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("High", model.PriorityHigh),
				huh.NewOption("Medium", model.PriorityMedium),
				huh.NewOption("Low", model.PriorityLow),
			).
			Value(&m.fb.priority),
		m.assigneeField(),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDate),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) assigneeField() huh.Field {
	opts := []huh.Option[string]{
		huh.NewOption("Unassigned", ""),
	}
	for _, u := range m.members {
		opts = append(opts, huh.NewOption(u.Name, u.ID))
	}
	return huh.NewSelect[string]().
		Title("Assignee").
		Options(opts...).
		Value(&m.fb.assigneeID)
}

func (m Model) handleSubmit() tea.Cmd {
	fb := m.fb

	var dueDate *time.Time
	if fb.dueDate != "" {
		if t, err := time.Parse("2006-01-02", fb.dueDate); err == nil {
			dueDate = &t
		}
	}

	if m.editMode {
		id := m.editID
		title := fb.title
		description := fb.description
		status := fb.status
		priority := fb.priority
		assigneeID := fb.assigneeID
		return func() tea.Msg {
			return TaskUpdatedMsg{
				ID: id,
				Update: model.TaskUpdate{
					Title:       &title,
					Description: &description,
					Status:      &status,
					Priority:    &priority,
					AssigneeID:  &assigneeID,
					DueDate:     dueDate,
				},
			}
		}
	}

	draft := store.TaskDraft{
		ProjectID:   m.projectID,
		Title:       fb.title,
		Description: fb.description,
		Status:      fb.status,
		Priority:    fb.priority,
		AssigneeID:  fb.assigneeID,
		DueDate:     dueDate,
	}
	return func() tea.Msg { return TaskCreatedMsg{Draft: draft} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
