// Package ui is the bubbletea front end: a root App model that routes
// between the login, dashboard, creation wizard and detail screens.
// All state transitions live in the pure packages (draft, respond,
// notify); ui maps key presses and API results onto them and renders.
package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"inviter/internal/api"
	"inviter/internal/contacts"
	"inviter/internal/models"
	"inviter/internal/notify"
	"inviter/internal/session"
)

type screen int

const (
	screenLogin screen = iota
	screenDashboard
	screenWizard
	screenDetail
)

// Messages produced by async commands.
type (
	noticeTickMsg      struct{}
	sessionVerifiedMsg struct {
		user models.User
		err  error
	}
	loginResultMsg struct {
		creds models.Credentials
		err   error
	}
	dashboardStatsMsg struct {
		stats models.DashboardStats
		err   error
	}
	dashboardListMsg struct {
		invitations []models.Invitation
		err         error
	}
	createResultMsg struct {
		created models.Invitation
		err     error
	}
	detailResultMsg struct {
		detail models.InvitationDetail
		err    error
	}
)

// App is the root model for the authenticated client.
type App struct {
	client   *api.Client
	sessions *session.Store
	book     *contacts.Book
	notices  *notify.Center
	theme    Theme
	keys     KeyMap
	log      zerolog.Logger

	width  int
	height int

	screen screen
	user   models.User

	login  loginModel
	dash   dashModel
	wizard *wizardForm
	detail *detailView

	verifying   bool
	tickRunning bool
}

// NewApp builds the root model. When saved credentials are present the
// app opens straight on the dashboard and verifies the token in the
// background; a dead token bounces back to login.
func NewApp(client *api.Client, sessions *session.Store, book *contacts.Book, log zerolog.Logger, saved *models.Credentials) App {
	a := App{
		client:   client,
		sessions: sessions,
		book:     book,
		notices:  notify.NewCenter(),
		theme:    DefaultTheme,
		keys:     DefaultKeyMap(),
		log:      log.With().Str("component", "ui").Logger(),
		screen:   screenLogin,
		login:    newLoginModel(),
		dash:     newDashModel(),
	}
	if saved != nil {
		client.SetToken(saved.AccessToken)
		a.user = saved.User
		a.screen = screenDashboard
		a.verifying = true
	}
	return a
}

func (a App) Init() tea.Cmd {
	if a.screen == screenDashboard {
		return tea.Batch(a.verifyCmd(), a.loadStatsCmd(), a.loadListCmd())
	}
	return a.login.focusCmd()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case noticeTickMsg:
		a.tickRunning = false
		a.notices.Expire(time.Now())
		if !a.notices.Empty() {
			a.tickRunning = true
			return a, noticeTick()
		}
		return a, nil

	case sessionVerifiedMsg:
		a.verifying = false
		if msg.err == nil {
			a.user = msg.user
			return a, nil
		}
		if errors.Is(msg.err, api.ErrUnauthorized) {
			cmd := a.logout("Session expired, please sign in again")
			return a, cmd
		}
		// Network trouble: keep the restored session, the next API
		// call will surface the problem if it persists.
		a.log.Warn().Err(msg.err).Msg("session verification failed")
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
	}

	switch a.screen {
	case screenLogin:
		return a.updateLogin(msg)
	case screenDashboard:
		return a.updateDashboard(msg)
	case screenWizard:
		return a.updateWizard(msg)
	case screenDetail:
		return a.updateDetail(msg)
	}
	return a, nil
}

func (a App) View() string {
	var body string
	switch a.screen {
	case screenLogin:
		body = a.viewLogin()
	case screenDashboard:
		body = a.viewDashboard()
	case screenWizard:
		body = a.viewWizard()
	case screenDetail:
		body = a.viewDetail()
	}
	if banner := a.viewNotices(); banner != "" {
		return lipgloss.JoinVertical(lipgloss.Left, banner, body)
	}
	return body
}

// notice queues a transient notification and makes sure the expiry
// tick loop is running.
func (a *App) notice(text string, level notify.Level) tea.Cmd {
	a.notices.Push(text, level)
	if a.tickRunning {
		return nil
	}
	a.tickRunning = true
	return noticeTick()
}

func noticeTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return noticeTickMsg{}
	})
}

func (a App) viewNotices() string {
	visible := a.notices.Visible()
	if len(visible) == 0 {
		return ""
	}
	lines := make([]string, 0, len(visible))
	for _, n := range visible {
		style := lipgloss.NewStyle().Foreground(a.theme.LevelColor(n.Level)).Bold(true)
		lines = append(lines, style.Render("● "+n.Text))
	}
	return strings.Join(lines, "\n")
}

// logout clears the persisted session and returns to the login screen.
func (a *App) logout(reason string) tea.Cmd {
	a.client.ClearToken()
	if a.sessions != nil {
		if err := a.sessions.Clear(); err != nil {
			a.log.Error().Err(err).Msg("clear session")
		}
	}
	a.user = models.User{}
	a.wizard = nil
	a.detail = nil
	a.dash = newDashModel()
	a.login = newLoginModel()
	a.screen = screenLogin
	var cmds []tea.Cmd
	if reason != "" {
		cmds = append(cmds, a.notice(reason, notify.Info))
	}
	cmds = append(cmds, a.login.focusCmd())
	return tea.Batch(cmds...)
}

// openDashboard switches to the dashboard and starts both fetches.
func (a *App) openDashboard() tea.Cmd {
	a.screen = screenDashboard
	a.dash.statsPending = true
	a.dash.listPending = true
	return tea.Batch(a.loadStatsCmd(), a.loadListCmd())
}

func (a App) verifyCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		user, err := client.Me(context.Background())
		return sessionVerifiedMsg{user: user, err: err}
	}
}

func (a App) loadStatsCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		stats, err := client.Dashboard(context.Background())
		return dashboardStatsMsg{stats: stats, err: err}
	}
}

func (a App) loadListCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		invitations, err := client.Invitations(context.Background())
		return dashboardListMsg{invitations: invitations, err: err}
	}
}

func (a App) loadDetailCmd(id int) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		detail, err := client.Invitation(context.Background(), id)
		return detailResultMsg{detail: detail, err: err}
	}
}

func (a App) createCmd(payload models.CreateInvitation) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		created, err := client.CreateInvitation(context.Background(), payload)
		return createResultMsg{created: created, err: err}
	}
}
