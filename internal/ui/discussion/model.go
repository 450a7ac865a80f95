package discussion

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/synergysphere/synergysphere/internal/keys"
	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
	"github.com/synergysphere/synergysphere/internal/theme"
)

// ThreadLoadedMsg carries a project's discussion thread.
type ThreadLoadedMsg struct {
	Project  *model.Project
	Comments []model.Comment
}

// BackMsg signals the parent to navigate back.
type BackMsg struct{}

// commentPostedMsg is sent after a comment was persisted.
type commentPostedMsg struct{ err error }

// Model is the project discussion thread view.
type Model struct {
	store     store.Store
	keys      *keys.KeyMap
	projectID string
	project   *model.Project
	comments  []model.Comment

	viewport  viewport.Model
	input     textinput.Model
	composing bool

	width  int
	height int
}

// New creates a new discussion view model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-4)
	vp.Style = lipgloss.NewStyle()

	ti := textinput.New()
	ti.Placeholder = "write a message..."
	ti.Prompt = "> "
	ti.Width = width - 6

	return Model{
		store:    s,
		keys:     k,
		viewport: vp,
		input:    ti,
		width:    width,
		height:   height,
	}
}

// SetProject points the thread at a project and returns a load command.
func (m *Model) SetProject(projectID string) tea.Cmd {
	m.projectID = projectID
	m.project = nil
	m.comments = nil
	m.composing = false
	m.input.Reset()
	return m.LoadThread()
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return m.LoadThread()
}

// Update handles messages for the discussion view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ThreadLoadedMsg:
		m.project = msg.Project
		m.comments = msg.Comments
		m.viewport.SetContent(m.renderThread())
		m.viewport.GotoBottom()
		return m, nil

	case commentPostedMsg:
		m.input.Reset()
		return m, m.LoadThread()

	case tea.KeyMsg:
		if m.composing {
			return m.handleComposeKeys(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case msg.String() == "c", msg.String() == "i":
			m.composing = true
			return m, m.input.Focus()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleComposeKeys processes key input while the composer is focused.
func (m Model) handleComposeKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		body := m.input.Value()
		if body == "" {
			return m, nil
		}
		m.composing = false
		return m, m.postComment(body)

	case "esc":
		m.composing = false
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the discussion view.
func (m Model) View() string {
	title := "Discussion"
	if m.project != nil {
		title = fmt.Sprintf("%s %s · Discussion", m.project.Icon, m.project.Name)
	}

	titleBar := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Padding(0, 1).
		Render(title)

	composer := m.renderComposer()

	return lipgloss.JoinVertical(lipgloss.Left,
		titleBar,
		m.viewport.View(),
		composer,
	)
}

func (m Model) renderComposer() string {
	if m.composing {
		return lipgloss.NewStyle().
			Padding(0, 1).
			Render(m.input.View())
	}
	return theme.HelpStyle.Padding(0, 1).Render("c write a message | esc back")
}

// renderThread builds the full comment thread for the viewport.
func (m Model) renderThread() string {
	if len(m.comments) == 0 {
		return lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Padding(1, 1).
			Render("No messages yet. Press c to start the discussion.")
	}

	authorStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)
	timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	wrapWidth := m.width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var sections []string
	for _, c := range m.comments {
		author := "unknown"
		if c.User != nil {
			author = c.User.Name
		}
		header := fmt.Sprintf(
			"%s  %s",
			authorStyle.Render(author),
			timeStyle.Render(relativeTime(c.CreatedAt)),
		)
		sections = append(sections, header)
		sections = append(sections, wordwrap.String(c.Body, wrapWidth))
		sections = append(sections, "")
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// LoadThread returns a tea.Cmd that queries the project and its comments.
func (m Model) LoadThread() tea.Cmd {
	s := m.store
	projectID := m.projectID
	return func() tea.Msg {
		ctx := context.Background()
		project, err := s.GetProjectByID(ctx, projectID)
		if err != nil {
			return ThreadLoadedMsg{}
		}
		comments, err := s.GetComments(ctx, projectID)
		if err != nil {
			comments = nil
		}
		return ThreadLoadedMsg{Project: project, Comments: comments}
	}
}

// postComment persists a new comment as the session user.
func (m Model) postComment(body string) tea.Cmd {
	s := m.store
	projectID := m.projectID
	return func() tea.Msg {
		_, err := s.AddComment(context.Background(), projectID, body)
		return commentPostedMsg{err: err}
	}
}

// SetSize updates the discussion view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 4
	m.input.Width = width - 6
	m.viewport.SetContent(m.renderThread())
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
