package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/synergysphere/synergysphere/internal/theme"
)

// SubmitMsg is dispatched when the sign-in form is submitted.
type SubmitMsg struct {
	Email    string
	Password string
}

// SignupMsg is dispatched when the sign-up form is submitted.
type SignupMsg struct {
	Name     string
	Email    string
	Password string
}

// QuitMsg is dispatched when the user abandons the auth screen.
type QuitMsg struct{}

type loginMode int

const (
	modeSignIn loginMode = iota
	modeSignUp
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name     string
	email    string
	password string
}

// Model is the authentication screen shown before the dashboard.
type Model struct {
	mode   loginMode
	form   *huh.Form
	fb     *formBindings
	errMsg string
	width  int
	height int
}

// New creates an auth screen model. prefillEmail seeds the email field,
// typically from the keyring's last successful sign-in.
func New(prefillEmail string, width, height int) Model {
	return Model{
		fb:     &formBindings{email: prefillEmail},
		width:  width,
		height: height,
	}
}

// Start builds the sign-in form and returns its init command.
func (m *Model) Start() tea.Cmd {
	m.mode = modeSignIn
	m.fb.name = ""
	m.fb.password = ""
	m.form = m.buildSignInForm()
	return m.form.Init()
}

// StartSignup builds the sign-up form and returns its init command.
func (m *Model) StartSignup() tea.Cmd {
	m.mode = modeSignUp
	m.fb.password = ""
	m.form = m.buildSignUpForm()
	return m.form.Init()
}

// SetError shows a failure message and rebuilds the current form so
// the user can retry. Submitted field values are kept.
func (m *Model) SetError(msg string) tea.Cmd {
	m.errMsg = msg
	if m.mode == modeSignUp {
		return m.StartSignup()
	}
	return m.Start()
}

// Update handles messages for the auth screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+s":
			m.errMsg = ""
			if m.mode == modeSignIn {
				return m, m.StartSignup()
			}
			return m, m.Start()
		case "ctrl+c":
			return m, func() tea.Msg { return QuitMsg{} }
		}
	}

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
		return m, func() tea.Msg { return QuitMsg{} }
	}

	return m, cmd
}

// View renders the auth screen.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	titleText := "Sign In"
	hint := "ctrl+s sign up instead | esc quit"
	if m.mode == modeSignUp {
		titleText = "Create Account"
		hint = "ctrl+s sign in instead | esc quit"
	}

	sections := []string{
		titleStyle.Render("SynergySphere"),
		titleStyle.Render(titleText),
	}

	if m.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			Render(m.errMsg))
	}

	sections = append(sections,
		m.form.View(),
		theme.HelpStyle.Render(hint),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(theme.BorderStyle.Padding(1, 3).Render(content))
}

// SetSize updates the auth screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildSignInForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@synergysphere.com").
				Value(&m.fb.email).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildSignUpForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Full name").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title("Email").
				Placeholder("you@synergysphere.com").
				Value(&m.fb.email).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth())
}

func (m Model) handleSubmit() tea.Cmd {
	fb := m.fb
	if m.mode == modeSignUp {
		return func() tea.Msg {
			return SignupMsg{
				Name:     fb.name,
				Email:    fb.email,
				Password: fb.password,
			}
		}
	}
	return func() tea.Msg {
		return SubmitMsg{
			Email:    fb.email,
			Password: fb.password,
		}
	}
}

func (m Model) formWidth() int {
	w := m.width / 2
	if w < 40 {
		w = 40
	}
	if w > 72 {
		w = 72
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
