package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
)

// sessionResultMsg carries the outcome of a login or signup attempt.
type sessionResultMsg struct {
	user *model.User
	err  error
}

// taskMutationMsg is sent after a task create/update/delete.
type taskMutationMsg struct{ err error }

// projectMutationMsg is sent after a project create.
type projectMutationMsg struct{ err error }

// formMembersMsg carries the member list for the task form's assignee
// selector.
type formMembersMsg struct {
	projectID string
	members   []model.User
}

// doLogin attempts to sign in with the given credentials.
func (m Model) doLogin(email, password string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		user, err := s.Login(context.Background(), email, password)
		return sessionResultMsg{user: user, err: err}
	}
}

// doSignup registers a new account and signs in as it.
func (m Model) doSignup(name, email, password string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		user, err := s.Signup(context.Background(), name, email, password)
		return sessionResultMsg{user: user, err: err}
	}
}

// doLogout clears the session and returns to the auth screen.
func (m *Model) doLogout() tea.Cmd {
	m.store.Logout()
	m.currentUser = nil
	m.unreadCount = 0
	m.currentView = ViewLogin
	return m.loginView.Start()
}

// createTask persists a new task.
func (m Model) createTask(draft store.TaskDraft) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_, err := s.CreateTask(context.Background(), draft)
		return taskMutationMsg{err: err}
	}
}

// updateTask applies a partial update to an existing task.
func (m Model) updateTask(id string, update model.TaskUpdate) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.UpdateTask(context.Background(), id, update)
		return taskMutationMsg{err: err}
	}
}

// createProject persists a new project with the session user as its
// first member.
func (m Model) createProject(draft store.ProjectDraft) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_, err := s.CreateProject(context.Background(), draft)
		return projectMutationMsg{err: err}
	}
}

// loadFormMembers loads a project's members for the assignee selector.
func (m Model) loadFormMembers(projectID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		project, err := s.GetProjectByID(context.Background(), projectID)
		if err != nil || project == nil {
			return formMembersMsg{projectID: projectID}
		}
		return formMembersMsg{projectID: projectID, members: project.Members}
	}
}

// fetchUnreadCount returns a tea.Cmd that queries the store for the
// number of unread notifications.
func (m Model) fetchUnreadCount() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		count, err := s.UnreadCount(context.Background())
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: count}
	}
}
