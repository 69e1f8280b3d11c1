package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"inviter/internal/api"
	"inviter/internal/models"
	"inviter/internal/respond"
)

// Messages produced by the responder's commands.
type (
	respondPageMsg struct {
		page models.ResponsePage
		err  error
	}
	respondSubmitMsg struct {
		err error
	}
)

// RespondModel is the public response program: one opaque link, one
// yes/no answer, an optional note. Runs without authentication.
type RespondModel struct {
	client *api.Client
	linkID string
	flow   *respond.Flow
	theme  Theme
	log    zerolog.Logger

	spinner  spinner.Model
	message  textarea.Model
	choice   models.Answer
	msgFocus bool
}

// NewRespondModel builds the responder for one link.
func NewRespondModel(client *api.Client, linkID string, log zerolog.Logger) RespondModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(DefaultTheme.Accent)

	ta := textarea.New()
	ta.Placeholder = "Add a message (optional)"
	ta.CharLimit = respond.MessageLimit
	ta.SetWidth(46)
	ta.SetHeight(4)
	ta.ShowLineNumbers = false

	return RespondModel{
		client:  client,
		linkID:  linkID,
		flow:    respond.NewFlow(),
		theme:   DefaultTheme,
		log:     log.With().Str("component", "respond").Logger(),
		spinner: sp,
		message: ta,
		choice:  models.AnswerYes,
	}
}

func (m RespondModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

func (m RespondModel) fetchCmd() tea.Cmd {
	client, linkID := m.client, m.linkID
	return func() tea.Msg {
		page, err := client.ResponsePage(context.Background(), linkID)
		return respondPageMsg{page: page, err: err}
	}
}

func (m RespondModel) submitCmd(answer models.Answer, message string) tea.Cmd {
	client, linkID := m.client, m.linkID
	return func() tea.Msg {
		err := client.SubmitResponse(context.Background(), linkID, answer, message)
		return respondSubmitMsg{err: err}
	}
}

func (m RespondModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.flow.Phase == respond.PhaseLoading || m.flow.Phase == respond.PhaseSubmitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case respondPageMsg:
		m.flow.Resolve(msg.page, msg.err)
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Str("link", m.linkID).Msg("response page fetch failed")
		}
		return m, nil

	case respondSubmitMsg:
		m.flow.Complete(msg.err)
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Str("link", m.linkID).Msg("submit failed")
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m RespondModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.flow.Terminal() {
		switch msg.String() {
		case "q", "enter", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.flow.Phase != respond.PhaseAwaitingAnswer {
		return m, nil
	}

	if m.msgFocus {
		switch msg.String() {
		case "esc", "tab":
			m.msgFocus = false
			m.message.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.message, cmd = m.message.Update(msg)
		m.flow.SetMessage(m.message.Value())
		return m, cmd
	}

	switch msg.String() {
	case "left", "h", "right", "l":
		if m.choice == models.AnswerYes {
			m.choice = models.AnswerNo
		} else {
			m.choice = models.AnswerYes
		}
		return m, nil
	case "y":
		return m.submit(models.AnswerYes)
	case "n":
		return m.submit(models.AnswerNo)
	case "enter":
		return m.submit(m.choice)
	case "tab":
		m.msgFocus = true
		return m, m.message.Focus()
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m RespondModel) submit(answer models.Answer) (tea.Model, tea.Cmd) {
	m.flow.SetMessage(m.message.Value())
	if !m.flow.Choose(answer) {
		return m, nil
	}
	m.choice = answer
	return m, tea.Batch(m.submitCmd(answer, m.flow.Message), m.spinner.Tick)
}

func (m RespondModel) View() string {
	t := m.theme
	switch m.flow.Phase {
	case respond.PhaseLoading:
		return m.spinner.View() + " Loading invitation..."

	case respond.PhaseFailed:
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render(m.flow.FailText),
			"",
			lipgloss.NewStyle().Foreground(t.HelpText).Render("press q to close"))

	case respond.PhaseAlreadyResponded:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.invitationCard(),
			"",
			lipgloss.NewStyle().Foreground(t.NormalText).Bold(true).
				Render("You have already responded"),
			lipgloss.NewStyle().Foreground(t.AnswerColor(m.flow.Answer)).
				Render("Your answer: "+m.flow.AnswerText()),
			"",
			lipgloss.NewStyle().Foreground(t.FaintText).
				Render("To change it, contact "+m.flow.Page.Invitation.CreatorName+" directly."),
			"",
			lipgloss.NewStyle().Foreground(t.HelpText).Render("press q to close"))

	case respond.PhaseSubmitting:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.invitationCard(),
			"",
			m.spinner.View()+" Sending your answer...")

	case respond.PhaseSubmitted:
		lines := []string{
			lipgloss.NewStyle().Foreground(t.Success).Bold(true).Render("Thank you!"),
			lipgloss.NewStyle().Foreground(t.NormalText).Render("Your response has been recorded."),
			lipgloss.NewStyle().Foreground(t.AnswerColor(m.flow.Answer)).
				Render("You answered: " + m.flow.AnswerText()),
		}
		if m.flow.Message != "" {
			lines = append(lines, lipgloss.NewStyle().Foreground(t.FaintText).
				Render("Your message was sent to "+m.flow.Page.Invitation.CreatorName+"."))
		}
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(t.HelpText).Render("press q to close"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	// PhaseAwaitingAnswer
	lines := []string{m.invitationCard(), ""}
	if m.flow.ErrText != "" {
		lines = append(lines,
			lipgloss.NewStyle().Foreground(t.Error).Render(m.flow.ErrText), "")
	}
	lines = append(lines, m.answerButtons(), "", m.message.View(),
		lipgloss.NewStyle().Foreground(t.FaintText).
			Render(fmt.Sprintf("%d/%d", len([]rune(m.message.Value())), respond.MessageLimit)),
		"",
		lipgloss.NewStyle().Foreground(t.HelpText).
			Render("←/→ choose · enter answer · y/n quick answer · tab message · q close"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m RespondModel) invitationCard() string {
	t := m.theme
	inv := m.flow.Page.Invitation

	lines := []string{}
	if m.flow.Page.RecipientName != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.NormalText).
			Render("Hi "+m.flow.Page.RecipientName+","))
	}
	lines = append(lines,
		lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(inv.Title))
	if inv.Description != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.NormalText).Render(inv.Description))
	}
	if inv.EventDate != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.FaintText).
			Render("When: "+inv.EventDate.Format("Mon, Jan 2 2006 15:04")))
	}
	if inv.Location != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.FaintText).Render("Where: "+inv.Location))
	}
	lines = append(lines, "",
		lipgloss.NewStyle().Foreground(t.FaintText).Render("From "+inv.CreatorName))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderColor).
		Padding(1, 2).
		Width(50).
		Render(strings.Join(lines, "\n"))
}

func (m RespondModel) answerButtons() string {
	t := m.theme
	inv := m.flow.Page.Invitation

	button := func(label string, color lipgloss.Color, active bool) string {
		style := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder())
		if active && !m.msgFocus {
			style = style.Foreground(t.HeaderForeground).Background(color).BorderForeground(color).Bold(true)
		} else {
			style = style.Foreground(color).BorderForeground(t.BorderColor)
		}
		return style.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		button(inv.YesText, t.Yes, m.choice == models.AnswerYes),
		"  ",
		button(inv.NoText, t.No, m.choice == models.AnswerNo),
	)
}
