package kanban

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/synergysphere/synergysphere/internal/board"
	"github.com/synergysphere/synergysphere/internal/keys"
	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
)

// BoardLoadedMsg is sent when a project's board has been loaded.
type BoardLoadedMsg struct {
	Project *model.Project
	Columns []board.Column
}

// SelectedTaskMsg is sent when the user opens a task's detail view.
type SelectedTaskMsg struct {
	TaskID string
}

// BackMsg signals the parent to navigate back to the dashboard.
type BackMsg struct{}

// taskMovedMsg is sent after a task was moved to another column.
type taskMovedMsg struct{ err error }

// taskDeletedMsg is sent after a task was deleted.
type taskDeletedMsg struct{ err error }

// sortModes defines the available sort modes cycled by Tab.
var sortModes = []string{
	"created_at",
	"due_date",
	"priority",
	"title",
}

// Model is the Kanban board view for a single project.
type Model struct {
	store     store.Store
	keys      *keys.KeyMap
	projectID string
	project   *model.Project
	columns   []board.Column

	colIdx int
	rowIdx int

	sortIndex   int
	searchMode  bool
	searchInput textinput.Model
	query       string

	width  int
	height int
}

// New creates a new board model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		store:       s,
		keys:        k,
		columns:     board.Group(nil),
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetProject points the board at a project and returns a load command.
// The cursor and search state are reset.
func (m *Model) SetProject(projectID string) tea.Cmd {
	m.projectID = projectID
	m.project = nil
	m.colIdx = 0
	m.rowIdx = 0
	m.query = ""
	m.searchMode = false
	m.searchInput.Reset()
	return m.LoadBoard()
}

// ProjectID returns the id of the project being displayed.
func (m Model) ProjectID() string { return m.projectID }

// Searching reports whether the search input currently has focus.
func (m Model) Searching() bool { return m.searchMode }

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return m.LoadBoard()
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BoardLoadedMsg:
		m.project = msg.Project
		m.columns = msg.Columns
		m.clampCursor()
		return m, nil

	case taskMovedMsg, taskDeletedMsg:
		return m, m.LoadBoard()

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = m.searchInput.Value()
		return m, m.LoadBoard()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.LoadBoard()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Down):
		if n := len(m.currentColumn().Tasks); n > 0 {
			m.rowIdx = (m.rowIdx + 1) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if n := len(m.currentColumn().Tasks); n > 0 {
			m.rowIdx--
			if m.rowIdx < 0 {
				m.rowIdx = n - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.colIdx > 0 {
			m.colIdx--
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.colIdx < len(m.columns)-1 {
			m.colIdx++
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveLeft):
		task, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		target, ok := board.Prev(task.Status)
		if !ok || !board.Moves(task.Status, target) {
			return m, nil
		}
		return m, m.moveTask(task.ID, target)

	case key.Matches(msg, m.keys.MoveRight):
		task, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		target, ok := board.Next(task.Status)
		if !ok || !board.Moves(task.Status, target) {
			return m, nil
		}
		return m, m.moveTask(task.ID, target)

	case key.Matches(msg, m.keys.Delete):
		task, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, m.deleteTask(task.ID)

	case key.Matches(msg, m.keys.Select):
		task, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: task.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		return m, m.LoadBoard()
	}

	return m, nil
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	col := m.currentColumn()
	if m.rowIdx < 0 || m.rowIdx >= len(col.Tasks) {
		return model.Task{}, false
	}
	return col.Tasks[m.rowIdx], true
}

func (m Model) currentColumn() board.Column {
	if m.colIdx < 0 || m.colIdx >= len(m.columns) {
		return board.Column{}
	}
	return m.columns[m.colIdx]
}

// clampCursor keeps the cursor inside the current column after loads
// and column switches.
func (m *Model) clampCursor() {
	if m.colIdx >= len(m.columns) {
		m.colIdx = len(m.columns) - 1
	}
	if m.colIdx < 0 {
		m.colIdx = 0
	}
	n := len(m.currentColumn().Tasks)
	if m.rowIdx >= n {
		m.rowIdx = n - 1
	}
	if m.rowIdx < 0 {
		m.rowIdx = 0
	}
}

// LoadBoard returns a tea.Cmd that queries the project and its tasks
// with the current search and sort settings.
func (m Model) LoadBoard() tea.Cmd {
	s := m.store
	projectID := m.projectID
	query := m.query
	sortBy := sortModes[m.sortIndex]
	return func() tea.Msg {
		ctx := context.Background()

		project, err := s.GetProjectByID(ctx, projectID)
		if err != nil || project == nil {
			return BoardLoadedMsg{Columns: board.Group(nil)}
		}

		filter := store.TaskFilter{
			ProjectID: &projectID,
			SortBy:    sortBy,
		}
		if query != "" {
			filter.Query = &query
		}

		tasks, err := s.GetTasks(ctx, filter)
		if err != nil {
			tasks = nil
		}
		return BoardLoadedMsg{
			Project: project,
			Columns: board.Group(tasks),
		}
	}
}

// moveTask persists a column move and reloads the board.
func (m Model) moveTask(taskID, status string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.UpdateTaskStatus(context.Background(), taskID, status)
		return taskMovedMsg{err: err}
	}
}

// deleteTask removes a task and reloads the board.
func (m Model) deleteTask(taskID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteTask(context.Background(), taskID)
		return taskDeletedMsg{err: err}
	}
}

// SetSize updates the board dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - 4
}
