package dashboard

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/theme"
)

// FilterValue returns the string used for fuzzy filtering.
func (c ProjectCard) FilterValue() string { return c.Project.Name }

// Title returns the project name for the list.
func (c ProjectCard) Title() string { return c.Project.Name }

// Description returns a short summary line for the list.
func (c ProjectCard) Description() string {
	return c.Project.Description
}

// CardDelegate implements list.ItemDelegate for rendering project cards.
type CardDelegate struct{}

// Height returns the number of lines each item takes.
func (d CardDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d CardDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d CardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single project card.
func (d CardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	card, ok := item.(ProjectCard)
	if !ok {
		return
	}

	p := card.Project
	isSelected := index == m.Index()

	icon := p.Icon
	if icon == "" {
		icon = "📁"
	}

	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	title := fmt.Sprintf("%s  %s", icon, nameStyle.Render(p.Name))

	countStr := lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		fmt.Sprintf("%d todo · %d in progress · %d done",
			card.Counts[model.StatusTodo],
			card.Counts[model.StatusProgress],
			card.Counts[model.StatusDone],
		),
	)

	memberStr := lipgloss.NewStyle().Foreground(theme.ColorBlue).Render(
		memberInitials(p.Members),
	)

	deadlineStr := ""
	if p.Deadline != nil {
		label := "due " + p.Deadline.Format("Jan 02")
		if p.Deadline.Before(time.Now()) {
			deadlineStr = "  " + theme.OverdueStyle.Render(label)
		} else {
			deadlineStr = "  " + lipgloss.NewStyle().
				Foreground(theme.ColorYellow).Render(label)
		}
	}

	line1 := title + deadlineStr
	line2 := countStr + "  " + memberStr

	block := line1 + "\n" + line2
	if isSelected {
		block = theme.SelectedItemStyle.Render(block)
	} else {
		block = theme.ListItemStyle.Render(block)
	}

	fmt.Fprint(w, block)
}

// memberInitials renders a compact member strip like "SC MR EJ".
func memberInitials(members []model.User) string {
	if len(members) == 0 {
		return ""
	}
	initials := make([]string, 0, len(members))
	for _, u := range members {
		initials = append(initials, u.Initials())
	}
	return strings.Join(initials, " ")
}
