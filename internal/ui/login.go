package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"inviter/internal/api"
)

type authMode int

const (
	modeSignIn authMode = iota
	modeSignUp
)

// loginModel is the sign in / sign up screen. One form, two modes;
// ctrl+t flips between them.
type loginModel struct {
	mode     authMode
	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    int
	pending  bool
	errText  string
}

func newLoginModel() loginModel {
	name := textinput.New()
	name.Placeholder = "Jane Smith"
	name.CharLimit = 100
	name.Width = 40

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 100
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 100
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	m := loginModel{
		mode:     modeSignIn,
		name:     name,
		email:    email,
		password: password,
	}
	m.setFocus(0)
	return m
}

// fields returns pointers to the visible inputs in tab order.
func (m *loginModel) fields() []*textinput.Model {
	if m.mode == modeSignUp {
		return []*textinput.Model{&m.name, &m.email, &m.password}
	}
	return []*textinput.Model{&m.email, &m.password}
}

func (m *loginModel) setFocus(i int) {
	fields := m.fields()
	if i < 0 {
		i = len(fields) - 1
	}
	i %= len(fields)
	m.focus = i
	for j, f := range fields {
		if j == i {
			f.Focus()
		} else {
			f.Blur()
		}
	}
}

func (m loginModel) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (a App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		a.login.pending = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				a.login.errText = "Invalid email or password"
			} else {
				a.login.errText = api.Detail(msg.err, "Sign in failed. Please try again.")
			}
			a.log.Warn().Err(msg.err).Msg("authentication failed")
			return a, nil
		}
		a.client.SetToken(msg.creds.AccessToken)
		a.user = msg.creds.User
		if a.sessions != nil {
			if err := a.sessions.Save(msg.creds); err != nil {
				a.log.Error().Err(err).Msg("save session")
			}
		}
		a.log.Info().Int("user_id", msg.creds.User.ID).Msg("signed in")
		cmd := a.openDashboard()
		return a, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.ToggleAuth):
			if a.login.mode == modeSignIn {
				a.login.mode = modeSignUp
			} else {
				a.login.mode = modeSignIn
			}
			a.login.errText = ""
			a.login.setFocus(0)
			return a, textinput.Blink

		case key.Matches(msg, a.keys.NextField), key.Matches(msg, a.keys.Down):
			a.login.setFocus(a.login.focus + 1)
			return a, textinput.Blink

		case key.Matches(msg, a.keys.PrevField), key.Matches(msg, a.keys.Up):
			a.login.setFocus(a.login.focus - 1)
			return a, textinput.Blink

		case key.Matches(msg, a.keys.Select):
			if a.login.pending {
				return a, nil
			}
			return a.submitLogin()

		case key.Matches(msg, a.keys.Back):
			return a, tea.Quit
		}
	}

	var cmds []tea.Cmd
	for _, f := range a.login.fields() {
		var cmd tea.Cmd
		*f, cmd = f.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) submitLogin() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(a.login.name.Value())
	email := strings.TrimSpace(a.login.email.Value())
	password := a.login.password.Value()

	if a.login.mode == modeSignUp && name == "" {
		a.login.errText = "Name is required"
		return a, nil
	}
	if email == "" || password == "" {
		a.login.errText = "Email and password are required"
		return a, nil
	}

	a.login.pending = true
	a.login.errText = ""
	client := a.client
	mode := a.login.mode
	return a, func() tea.Msg {
		if mode == modeSignUp {
			creds, err := client.Signup(context.Background(), name, email, password)
			return loginResultMsg{creds: creds, err: err}
		}
		creds, err := client.Login(context.Background(), email, password)
		return loginResultMsg{creds: creds, err: err}
	}
}

func (a App) viewLogin() string {
	t := a.theme

	title := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render("Inviter")
	subtitle := lipgloss.NewStyle().Foreground(t.FaintText).Render("Send invitations. Collect answers.")

	var heading string
	if a.login.mode == modeSignUp {
		heading = "Create an account"
	} else {
		heading = "Sign in"
	}

	label := lipgloss.NewStyle().Foreground(t.FaintText)
	rows := []string{
		lipgloss.NewStyle().Foreground(t.NormalText).Bold(true).Render(heading),
		"",
	}
	if a.login.mode == modeSignUp {
		rows = append(rows, label.Render("Name"), a.login.name.View(), "")
	}
	rows = append(rows,
		label.Render("Email"), a.login.email.View(), "",
		label.Render("Password"), a.login.password.View(),
	)

	if a.login.errText != "" {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(t.Error).Render(a.login.errText))
	}
	if a.login.pending {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(t.FaintText).Render("Signing in..."))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderColor).
		Padding(1, 2).
		Render(strings.Join(rows, "\n"))

	var hint string
	if a.login.mode == modeSignUp {
		hint = "ctrl+t sign in instead"
	} else {
		hint = "ctrl+t create an account"
	}
	help := lipgloss.NewStyle().Foreground(t.HelpText).
		Render("enter submit · tab next field · " + hint + " · esc quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", card, "", help)
}
