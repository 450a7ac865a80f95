package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/synergysphere/synergysphere/internal/keys"
	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
	"github.com/synergysphere/synergysphere/internal/theme"
)

// CloseMsg signals the parent to close the notification center.
type CloseMsg struct{}

// ChangedMsg signals that read states changed, so badges need refreshing.
type ChangedMsg struct{}

// loadedMsg carries the loaded notification list.
type loadedMsg struct {
	notifications []model.Notification
}

// markedMsg is sent after a mark-read operation.
type markedMsg struct{ err error }

// Model is the notification center view.
type Model struct {
	store         store.Store
	keys          *keys.KeyMap
	notifications []model.Notification
	selectedIdx   int
	unreadOnly    bool
	width         int
	height        int
}

// New creates a new notification center model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init loads notifications from the store.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.notifications = msg.notifications
		if m.selectedIdx >= len(m.notifications) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.notifications) - 1
		}
		return m, nil

	case markedMsg:
		return m, tea.Batch(m.load(), func() tea.Msg { return ChangedMsg{} })

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return CloseMsg{} }

		case key.Matches(msg, m.keys.Down):
			if len(m.notifications) > 0 {
				m.selectedIdx = (m.selectedIdx + 1) % len(m.notifications)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if len(m.notifications) > 0 {
				m.selectedIdx--
				if m.selectedIdx < 0 {
					m.selectedIdx = len(m.notifications) - 1
				}
			}
			return m, nil

		case key.Matches(msg, m.keys.MarkRead), key.Matches(msg, m.keys.Select):
			if m.selectedIdx < len(m.notifications) {
				n := m.notifications[m.selectedIdx]
				if !n.Read {
					return m, m.markRead(n.ID)
				}
			}
			return m, nil

		case msg.String() == "M":
			return m, m.markAllRead()

		case msg.String() == "u":
			m.unreadOnly = !m.unreadOnly
			m.selectedIdx = 0
			return m, m.load()
		}
	}

	return m, nil
}

// View renders the notification center.
func (m Model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := "Notifications"
	if m.unreadOnly {
		title += " (unread)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.notifications) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("Nothing here. You're all caught up."))
	} else {
		timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
		msgStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

		for i, n := range m.notifications {
			marker := " "
			if !n.Read {
				marker = "●"
			}

			typeBadge := theme.NotificationTypeStyle(n.Type).Render(n.Type)
			line := fmt.Sprintf(
				"%s %s %s  %s  %s",
				marker,
				typeBadge,
				lipgloss.NewStyle().Bold(true).Render(n.Title),
				msgStyle.Render(n.Message),
				timeStyle.Render(relativeTime(n.CreatedAt)),
			)

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(line))
			} else {
				b.WriteString(theme.ListItemStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render(
		"m mark read | M mark all | u unread only | esc back",
	))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) load() tea.Cmd {
	s := m.store
	unreadOnly := m.unreadOnly
	return func() tea.Msg {
		notifications, err := s.GetNotifications(context.Background(), unreadOnly)
		if err != nil {
			return loadedMsg{notifications: nil}
		}
		return loadedMsg{notifications: notifications}
	}
}

func (m Model) markRead(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.MarkNotificationRead(context.Background(), id)
		return markedMsg{err: err}
	}
}

func (m Model) markAllRead() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.MarkAllNotificationsRead(context.Background())
		return markedMsg{err: err}
	}
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
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
