package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/synergysphere/synergysphere/internal/credential"
	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/notify"
	"github.com/synergysphere/synergysphere/internal/store"
	"github.com/synergysphere/synergysphere/internal/ui"
	"github.com/synergysphere/synergysphere/internal/ui/command"
	"github.com/synergysphere/synergysphere/internal/ui/dashboard"
	"github.com/synergysphere/synergysphere/internal/ui/detail"
	"github.com/synergysphere/synergysphere/internal/ui/discussion"
	helpview "github.com/synergysphere/synergysphere/internal/ui/help"
	"github.com/synergysphere/synergysphere/internal/ui/kanban"
	"github.com/synergysphere/synergysphere/internal/ui/login"
	"github.com/synergysphere/synergysphere/internal/ui/notifications"
	"github.com/synergysphere/synergysphere/internal/ui/projectform"
	"github.com/synergysphere/synergysphere/internal/ui/taskform"
)

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewBoard
	ViewDetail
	ViewDiscussion
	ViewTaskCreate
	ViewTaskEdit
	ViewProjectCreate
	ViewNotifications
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model that manages view routing, layout,
// the session, and access to the state store.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *store.SQLiteStore
	keys         *KeyMap

	loginView     login.Model
	dashboardView dashboard.Model
	boardView     kanban.Model
	detailView    detail.Model
	discussView   discussion.Model
	taskFormView  taskform.Model
	projFormView  projectform.Model
	notifView     notifications.Model
	helpView      helpview.Model
	commandView   command.Model

	watcher *notify.Watcher

	currentUser   *model.User
	rememberLogin bool
	pendingEdit   *model.Task
	loginCmd      tea.Cmd
	ready         bool
	unreadCount   int
	statusMsg     string
}

// New creates the root application model.
func New(s *store.SQLiteStore, cfg model.AppConfig) Model {
	keys := DefaultKeyMap()

	prefill := ""
	if cfg.RememberLogin {
		prefill, _ = credential.Get(credential.KeyLastEmail)
	}

	interval := cfg.Display.OverdueCheckInterval()

	m := Model{
		currentView:   ViewLogin,
		store:         s,
		keys:          keys,
		loginView:     login.New(prefill, 80, 24),
		dashboardView: dashboard.New(s, keys, 80, 24),
		boardView:     kanban.New(s, keys, 80, 24),
		detailView:    detail.New(s, keys, 80, 24),
		discussView:   discussion.New(s, keys, 80, 24),
		taskFormView:  taskform.New(80, 24),
		projFormView:  projectform.New(80, 24),
		notifView:     notifications.New(s, keys, 80, 24),
		helpView:      helpview.New(keys, 80, 24),
		commandView:   command.New(80, 24),
		watcher:       notify.New(s, interval),
		rememberLogin: cfg.RememberLogin,
	}
	m.loginCmd = m.loginView.Start()
	return m
}

// Init returns the initial command: the sign-in form.
func (m Model) Init() tea.Cmd {
	return m.loginCmd
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.loginView.SetSize(contentWidth, contentHeight)
		m.dashboardView.SetSize(contentWidth, contentHeight)
		m.boardView.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.discussView.SetSize(contentWidth, contentHeight)
		m.taskFormView.SetSize(contentWidth, contentHeight)
		m.projFormView.SetSize(contentWidth, contentHeight)
		m.notifView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case login.SubmitMsg:
		return m, m.doLogin(msg.Email, msg.Password)

	case login.SignupMsg:
		return m, m.doSignup(msg.Name, msg.Email, msg.Password)

	case login.QuitMsg:
		m.watcher.Stop()
		return m, tea.Quit

	case sessionResultMsg:
		return m.handleSessionResult(msg)

	case notify.OverdueMsg:
		return m, tea.Batch(
			m.fetchUnreadCount(),
			m.watcher.WaitForNext(),
		)

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case dashboard.SelectedProjectMsg:
		m.previousView = m.currentView
		m.currentView = ViewBoard
		return m, m.boardView.SetProject(msg.ProjectID)

	case kanban.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		return m, m.detailView.SetTask(msg.TaskID)

	case kanban.BackMsg:
		m.currentView = ViewDashboard
		return m, tea.Batch(
			m.dashboardView.LoadProjects(),
			m.fetchUnreadCount(),
		)

	case detail.BackMsg:
		m.currentView = ViewBoard
		return m, m.boardView.LoadBoard()

	case detail.DeletedMsg:
		m.currentView = ViewBoard
		return m, m.boardView.LoadBoard()

	case detail.EditMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		task := msg.Task
		m.pendingEdit = &task
		return m, m.loadFormMembers(task.ProjectID)

	case formMembersMsg:
		m.taskFormView.SetMembers(msg.members)
		if m.currentView == ViewTaskEdit && m.pendingEdit != nil {
			task := *m.pendingEdit
			m.pendingEdit = nil
			return m, m.taskFormView.StartEdit(task)
		}
		return m, m.taskFormView.StartCreate(msg.projectID)

	case taskform.TaskCreatedMsg:
		m.currentView = ViewBoard
		return m, m.createTask(msg.Draft)

	case taskform.TaskUpdatedMsg:
		m.currentView = ViewBoard
		return m, m.updateTask(msg.ID, msg.Update)

	case taskform.CancelMsg:
		m.pendingEdit = nil
		m.currentView = ViewBoard
		return m, nil

	case taskMutationMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = ""
		}
		return m, tea.Batch(
			m.boardView.LoadBoard(),
			m.fetchUnreadCount(),
		)

	case projectform.ProjectCreatedMsg:
		m.currentView = ViewDashboard
		return m, m.createProject(msg.Draft)

	case projectform.CancelMsg:
		m.currentView = ViewDashboard
		return m, nil

	case projectMutationMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = ""
		}
		return m, tea.Batch(
			m.dashboardView.LoadProjects(),
			m.fetchUnreadCount(),
		)

	case discussion.BackMsg:
		m.currentView = m.previousView
		if m.currentView == ViewBoard {
			return m, m.boardView.LoadBoard()
		}
		return m, tea.Batch(
			m.dashboardView.LoadProjects(),
			m.fetchUnreadCount(),
		)

	case notifications.CloseMsg:
		m.currentView = m.previousView
		return m, m.fetchUnreadCount()

	case notifications.ChangedMsg:
		return m, m.fetchUnreadCount()

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKey(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work across browsing views. Form
// and text-entry views keep full control of their input.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.watcher.Stop()
		return true, m, tea.Quit
	}

	if !m.browsingView() {
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewDashboard {
			m.watcher.Stop()
			return true, m, tea.Quit
		}

	case "Q":
		if m.currentView == ViewDashboard {
			cmd := m.doLogout()
			return true, m, cmd
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case ":":
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return true, m, m.commandView.Focus()

	case "N":
		if m.currentView != ViewNotifications {
			m.previousView = m.currentView
			m.currentView = ViewNotifications
			return true, m, m.notifView.Init()
		}

	case "n":
		if m.currentView == ViewBoard {
			m.previousView = m.currentView
			m.currentView = ViewTaskCreate
			return true, m, m.loadFormMembers(m.boardView.ProjectID())
		}

	case "P":
		if m.currentView == ViewDashboard {
			m.previousView = m.currentView
			m.currentView = ViewProjectCreate
			return true, m, m.projFormView.Start()
		}

	case "d":
		var projectID string
		switch m.currentView {
		case ViewBoard:
			projectID = m.boardView.ProjectID()
		case ViewDashboard:
			id, ok := m.dashboardView.SelectedProjectID()
			if !ok {
				return true, m, nil
			}
			projectID = id
		default:
			return false, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewDiscussion
		return true, m, m.discussView.SetProject(projectID)
	}

	return false, m, nil
}

// browsingView reports whether the current view is a browsing view
// where single-letter shortcuts are safe to intercept.
func (m Model) browsingView() bool {
	switch m.currentView {
	case ViewDashboard, ViewDetail, ViewNotifications, ViewHelp:
		return true
	case ViewBoard:
		return !m.boardView.Searching()
	default:
		return false
	}
}

// handleSessionResult applies the outcome of a login or signup attempt.
func (m Model) handleSessionResult(msg sessionResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.loginView.SetError(friendlySessionError(msg.err))
	}

	m.currentUser = msg.user
	m.statusMsg = ""
	m.currentView = ViewDashboard

	if m.rememberLogin && msg.user != nil {
		_ = credential.Set(credential.KeyLastEmail, msg.user.Email)
	}

	// The seed includes its own overdue notification; only report new
	// slips from here on.
	_ = m.watcher.Prime(context.Background())

	return m, tea.Batch(
		m.dashboardView.Init(),
		m.fetchUnreadCount(),
		m.watcher.Start(),
	)
}

// friendlySessionError maps store sentinels to screen-friendly text.
func friendlySessionError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, store.ErrInvalidLogin):
		return "Invalid email or password."
	case errors.Is(err, store.ErrMissingField):
		return "All fields are required."
	default:
		return fmt.Sprintf("Sign-in failed: %v", err)
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewDiscussion:
		m.discussView, cmd = m.discussView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.taskFormView, cmd = m.taskFormView.Update(msg)
	case ViewProjectCreate:
		m.projFormView, cmd = m.projFormView.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLogin {
		return m.loginView.View()
	}

	headerTitle := "SynergySphere"
	if m.unreadCount > 0 {
		headerTitle = fmt.Sprintf("SynergySphere [%d new]", m.unreadCount)
	}
	header := m.layout.RenderHeader(headerTitle, m.sessionStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewBoard:
		return m.boardView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewDiscussion:
		return m.discussView.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.taskFormView.View()
	case ViewProjectCreate:
		return m.projFormView.View()
	case ViewNotifications:
		return m.notifView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// sessionStatus returns the header's right-hand segment.
func (m Model) sessionStatus() string {
	if m.currentUser == nil {
		return "signed out"
	}
	return m.currentUser.Name
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewBoard:
		return "enter open | n new | h/l column | H/L move | d discussion | / search | esc back"
	case ViewDetail:
		return "e edit | x delete | J/K checklist | space toggle | j/k scroll | esc back"
	case ViewDiscussion:
		return "c write | j/k scroll | esc back"
	case ViewTaskCreate, ViewTaskEdit, ViewProjectCreate:
		return "enter submit | esc cancel"
	case ViewNotifications:
		return "m mark read | M mark all | u unread only | esc back"
	default:
		return "enter open board | d discussion | n/P new | N notifications | ? help | Q log out | q quit"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "quit", "q":
		m.watcher.Stop()
		return tea.Quit
	case "dashboard", "projects":
		m.currentView = ViewDashboard
		return m.dashboardView.LoadProjects()
	case "notifications":
		m.previousView = m.currentView
		m.currentView = ViewNotifications
		return m.notifView.Init()
	case "mark all read":
		return func() tea.Msg {
			_ = m.store.MarkAllNotificationsRead(context.Background())
			return notifications.ChangedMsg{}
		}
	case "new project":
		m.currentView = ViewProjectCreate
		return m.projFormView.Start()
	case "new task":
		if m.boardView.ProjectID() != "" {
			m.currentView = ViewTaskCreate
			return m.loadFormMembers(m.boardView.ProjectID())
		}
		return nil
	case "refresh":
		m.watcher.Refresh()
		switch m.currentView {
		case ViewBoard:
			return m.boardView.LoadBoard()
		default:
			return m.dashboardView.LoadProjects()
		}
	case "logout":
		return m.doLogout()
	default:
		return nil
	}
}
