package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"inviter/internal/models"
	"inviter/internal/notify"
)

type dashFilter int

const (
	filterAll dashFilter = iota
	filterActive
	filterCompleted
)

func (f dashFilter) label() string {
	switch f {
	case filterActive:
		return "Active"
	case filterCompleted:
		return "Completed"
	}
	return "All"
}

// dashModel is the dashboard: aggregate stats on top, the invitation
// list below. Stats and list load independently; the loading state is
// withdrawn once both have settled, successful or not.
type dashModel struct {
	statsPending bool
	listPending  bool

	stats       dashStatsState
	invitations []dashInvitation
	filter      dashFilter
	cursor      int
}

type dashStatsState struct {
	loaded             bool
	totalInvitations   int
	totalResponsesSent int
	responseRate       float64
	pendingResponses   int
	unreadMessages     int
}

// dashInvitation is one list row, pre-classified against the clock at
// load time.
type dashInvitation struct {
	inv     models.Invitation
	expired bool
}

func newDashModel() dashModel {
	return dashModel{statsPending: true, listPending: true}
}

func (d dashModel) loading() bool {
	return d.statsPending || d.listPending
}

// filtered returns the rows matching the current filter. An invitation
// is completed when it expired or everyone answered.
func (d dashModel) filtered() []dashInvitation {
	if d.filter == filterAll {
		return d.invitations
	}
	out := make([]dashInvitation, 0, len(d.invitations))
	for _, inv := range d.invitations {
		completed := inv.expired || (inv.inv.TotalSent > 0 && inv.inv.TotalPending == 0)
		if (d.filter == filterCompleted) == completed {
			out = append(out, inv)
		}
	}
	return out
}

func (a App) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardStatsMsg:
		a.dash.statsPending = false
		if msg.err != nil {
			a.log.Warn().Err(msg.err).Msg("dashboard stats fetch failed")
			cmd := a.notice("Could not load dashboard stats", notify.Error)
			return a, cmd
		}
		a.dash.stats = dashStatsState{
			loaded:             true,
			totalInvitations:   msg.stats.TotalInvitations,
			totalResponsesSent: msg.stats.TotalResponsesSent,
			responseRate:       msg.stats.ResponseRate,
			pendingResponses:   msg.stats.PendingResponses,
			unreadMessages:     msg.stats.UnreadMessages,
		}
		return a, nil

	case dashboardListMsg:
		a.dash.listPending = false
		if msg.err != nil {
			a.log.Warn().Err(msg.err).Msg("invitation list fetch failed")
			cmd := a.notice("Could not load invitations", notify.Error)
			return a, cmd
		}
		now := time.Now()
		rows := make([]dashInvitation, 0, len(msg.invitations))
		for _, inv := range msg.invitations {
			rows = append(rows, dashInvitation{inv: inv, expired: inv.Expired(now)})
		}
		a.dash.invitations = rows
		if a.dash.cursor >= len(rows) {
			a.dash.cursor = 0
		}
		return a, nil

	case tea.KeyMsg:
		rows := a.dash.filtered()
		switch {
		case key.Matches(msg, a.keys.Up):
			if a.dash.cursor > 0 {
				a.dash.cursor--
			}
		case key.Matches(msg, a.keys.Down):
			if a.dash.cursor < len(rows)-1 {
				a.dash.cursor++
			}
		case key.Matches(msg, a.keys.Left):
			a.dash.filter = (a.dash.filter + 2) % 3
			a.dash.cursor = 0
		case key.Matches(msg, a.keys.Right):
			a.dash.filter = (a.dash.filter + 1) % 3
			a.dash.cursor = 0
		case key.Matches(msg, a.keys.Select):
			if a.dash.cursor < len(rows) {
				cmd := a.openDetail(rows[a.dash.cursor].inv.ID)
				return a, cmd
			}
		case key.Matches(msg, a.keys.New):
			a.wizard = newWizardForm(a.user.Name, a.savedContacts())
			a.screen = screenWizard
			return a, nil
		case key.Matches(msg, a.keys.Refresh):
			a.dash.statsPending = true
			a.dash.listPending = true
			return a, tea.Batch(a.loadStatsCmd(), a.loadListCmd())
		case key.Matches(msg, a.keys.Logout):
			cmd := a.logout("Signed out")
			return a, cmd
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		}
	}
	return a, nil
}

func (a App) savedContacts() []contactEntry {
	if a.book == nil {
		return nil
	}
	all := a.book.All()
	out := make([]contactEntry, 0, len(all))
	for _, c := range all {
		out = append(out, contactEntry{Name: c.Name, Phone: c.Phone})
	}
	return out
}

func (a App) viewDashboard() string {
	t := a.theme

	header := lipgloss.NewStyle().
		Foreground(t.HeaderForeground).
		Background(t.Accent).
		Bold(true).
		Padding(0, 1).
		Render("Inviter — " + a.user.Name)

	sections := []string{header, ""}

	if a.verifying {
		sections = append(sections,
			lipgloss.NewStyle().Foreground(t.FaintText).Render("Verifying session..."))
	}

	if a.dash.loading() {
		sections = append(sections,
			lipgloss.NewStyle().Foreground(t.FaintText).Render("Loading dashboard..."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if a.dash.stats.loaded {
		sections = append(sections, a.viewStatCards(), "")
	}

	sections = append(sections, a.viewFilterTabs(), "")
	sections = append(sections, a.viewInvitationList())

	help := lipgloss.NewStyle().Foreground(t.HelpText).Render(
		"↑/↓ move · ←/→ filter · enter open · n new invitation · r refresh · ctrl+l log out · q quit")
	sections = append(sections, "", help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) viewStatCards() string {
	t := a.theme
	card := func(label, value string) string {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderColor).
			Padding(0, 2).
			Render(lipgloss.JoinVertical(lipgloss.Center,
				lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(value),
				lipgloss.NewStyle().Foreground(t.FaintText).Render(label),
			))
	}
	s := a.dash.stats
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Invitations", fmt.Sprintf("%d", s.totalInvitations)),
		card("Responses", fmt.Sprintf("%d", s.totalResponsesSent)),
		card("Response rate", fmt.Sprintf("%.0f%%", s.responseRate)),
		card("Pending", fmt.Sprintf("%d", s.pendingResponses)),
		card("Unread messages", fmt.Sprintf("%d", s.unreadMessages)),
	)
}

func (a App) viewFilterTabs() string {
	t := a.theme
	tabs := make([]string, 0, 3)
	for _, f := range []dashFilter{filterAll, filterActive, filterCompleted} {
		style := lipgloss.NewStyle().Foreground(t.FaintText).Padding(0, 1)
		if f == a.dash.filter {
			style = style.Foreground(t.Accent).Bold(true).Underline(true)
		}
		tabs = append(tabs, style.Render(f.label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a App) viewInvitationList() string {
	t := a.theme
	rows := a.dash.filtered()
	if len(rows) == 0 {
		return lipgloss.NewStyle().Foreground(t.FaintText).
			Render("No invitations yet. Press n to create one.")
	}

	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		r := row.inv
		title := r.Title
		if row.expired {
			title += "  [expired]"
		}
		counters := fmt.Sprintf("%d sent · %d yes · %d no · %d pending",
			r.TotalSent, r.TotalYes, r.TotalNo, r.TotalPending)
		if r.TotalMessages > 0 {
			counters += fmt.Sprintf(" · %d messages", r.TotalMessages)
		}
		line := fmt.Sprintf("%-40s %s  %s",
			truncate(title, 40), renderBar(r.ResponseRate(), 12), counters)

		style := lipgloss.NewStyle().Foreground(t.NormalText)
		if i == a.dash.cursor {
			style = lipgloss.NewStyle().
				Foreground(t.SelectedForeground).
				Background(t.SelectedBackground).
				Bold(true)
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}

// renderBar draws a response-rate bar of the given width.
func renderBar(rate float64, width int) string {
	filled := int(rate / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
