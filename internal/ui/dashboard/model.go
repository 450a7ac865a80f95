package dashboard

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/synergysphere/synergysphere/internal/keys"
	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
	"github.com/synergysphere/synergysphere/internal/theme"
)

// ProjectsLoadedMsg is sent when projects have been loaded from the store.
type ProjectsLoadedMsg struct {
	Cards []ProjectCard
}

// SelectedProjectMsg is sent when the user opens a project's board.
type SelectedProjectMsg struct {
	ProjectID string
}

// ProjectCard pairs a project with its per-column task counts.
type ProjectCard struct {
	Project model.Project
	Counts  map[string]int
}

// Model is the project dashboard view.
type Model struct {
	list   list.Model
	store  store.Store
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new dashboard model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	delegate := CardDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Projects"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the initial set of projects.
func (m Model) Init() tea.Cmd {
	return m.LoadProjects()
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProjectsLoadedMsg:
		items := make([]list.Item, len(msg.Cards))
		for i, card := range msg.Cards {
			items[i] = card
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Select) {
			card, ok := m.list.SelectedItem().(ProjectCard)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedProjectMsg{ProjectID: card.Project.ID}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SelectedProjectID returns the id of the project under the cursor.
func (m Model) SelectedProjectID() (string, bool) {
	card, ok := m.list.SelectedItem().(ProjectCard)
	if !ok {
		return "", false
	}
	return card.Project.ID, true
}

// View renders the dashboard view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when no projects exist yet.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render("No projects yet.\n\nPress P to create one.")
}

// LoadProjects returns a tea.Cmd that queries projects and their task
// counts from the store.
func (m Model) LoadProjects() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		projects, err := s.GetProjects(ctx)
		if err != nil {
			return ProjectsLoadedMsg{Cards: nil}
		}

		cards := make([]ProjectCard, len(projects))
		for i, p := range projects {
			counts, err := s.TaskStatusCounts(ctx, p.ID)
			if err != nil {
				counts = map[string]int{}
			}
			cards[i] = ProjectCard{Project: p, Counts: counts}
		}
		return ProjectsLoadedMsg{Cards: cards}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
