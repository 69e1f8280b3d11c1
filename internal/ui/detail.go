package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	qrcode "github.com/skip2/go-qrcode"

	"inviter/internal/api"
	"inviter/internal/models"
)

// detailView shows one invitation: counters, the per-recipient
// response list and attached messages. Selecting a pending recipient
// shows their response link as a QR code for out-of-band sharing.
type detailView struct {
	id      int
	loading bool
	detail  models.InvitationDetail
	errText string
	cursor  int
}

// openDetail switches to the detail screen and starts the fetch.
func (a *App) openDetail(id int) tea.Cmd {
	a.detail = &detailView{id: id, loading: true}
	a.screen = screenDetail
	return a.loadDetailCmd(id)
}

func (a App) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := a.detail
	if v == nil {
		a.screen = screenDashboard
		return a, nil
	}

	switch msg := msg.(type) {
	case detailResultMsg:
		v.loading = false
		if msg.err != nil {
			a.log.Warn().Err(msg.err).Int("invitation_id", v.id).Msg("detail fetch failed")
			v.errText = api.Detail(msg.err, "Unable to load invitation")
			return a, nil
		}
		v.errText = ""
		v.detail = msg.detail
		if v.cursor >= len(msg.detail.Responses) {
			v.cursor = 0
		}
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, a.keys.Down):
			if v.cursor < len(v.detail.Responses)-1 {
				v.cursor++
			}
		case key.Matches(msg, a.keys.Refresh):
			v.loading = true
			return a, a.loadDetailCmd(v.id)
		case key.Matches(msg, a.keys.Back):
			a.detail = nil
			cmd := a.openDashboard()
			return a, cmd
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		}
	}
	return a, nil
}

func (a App) viewDetail() string {
	t := a.theme
	v := a.detail
	if v == nil {
		return ""
	}
	if v.loading {
		return lipgloss.NewStyle().Foreground(t.FaintText).Render("Loading invitation...")
	}
	if v.errText != "" {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Foreground(t.Error).Render(v.errText),
			"",
			lipgloss.NewStyle().Foreground(t.HelpText).Render("r retry · esc back"))
	}

	d := v.detail
	inv := d.Invitation

	title := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(inv.Title)
	sub := make([]string, 0, 3)
	if inv.EventDate != nil {
		sub = append(sub, inv.EventDate.Format("Mon, Jan 2 2006 15:04"))
	}
	if inv.Location != "" {
		sub = append(sub, inv.Location)
	}
	if inv.ExpiresAt != nil {
		sub = append(sub, "closes "+inv.ExpiresAt.Format("Jan 2 15:04"))
	}

	stats := fmt.Sprintf("%d sent · %d yes · %d no · %d viewed · %.0f%% responded",
		d.Statistics.TotalSent, d.Statistics.TotalYes, d.Statistics.TotalNo,
		d.Statistics.TotalViewed, d.Statistics.ResponseRate)

	sections := []string{title}
	if len(sub) > 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.FaintText).Render(strings.Join(sub, " · ")))
	}
	sections = append(sections, "",
		lipgloss.NewStyle().Foreground(t.NormalText).Render(stats), "",
		a.viewResponses())

	if len(d.Messages) > 0 {
		sections = append(sections, "", a.viewMessages())
	}

	sections = append(sections, "",
		lipgloss.NewStyle().Foreground(t.HelpText).
			Render("↑/↓ select recipient · r refresh · esc back · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) viewResponses() string {
	t := a.theme
	v := a.detail
	if len(v.detail.Responses) == 0 {
		return lipgloss.NewStyle().Foreground(t.FaintText).Render("No recipients")
	}

	lines := []string{lipgloss.NewStyle().Foreground(t.NormalText).Bold(true).Render("Responses")}
	for i, r := range v.detail.Responses {
		badge := a.answerBadge(r)
		line := fmt.Sprintf("%s %-24s %s", badge, truncate(r.RecipientName, 24), r.RecipientPhone)
		lines = append(lines, a.cursorLine(line, i == v.cursor))
	}

	// The selected recipient's link, as a scannable code, so the
	// creator can re-share it when the original message went astray.
	if v.cursor < len(v.detail.Responses) {
		r := v.detail.Responses[v.cursor]
		if r.Answer == "" && r.ResponseLink != "" {
			url := a.client.ResponseURL(r.ResponseLink)
			lines = append(lines, "",
				lipgloss.NewStyle().Foreground(t.FaintText).Render("Share link for "+r.RecipientName+":"),
				qrBlock(url),
				lipgloss.NewStyle().Foreground(t.Accent).Render(url))
		}
	}
	return strings.Join(lines, "\n")
}

func (a App) answerBadge(r models.ResponseDetail) string {
	t := a.theme
	switch r.Answer {
	case models.AnswerYes:
		return lipgloss.NewStyle().Foreground(t.Yes).Render("✓ yes")
	case models.AnswerNo:
		return lipgloss.NewStyle().Foreground(t.No).Render("✗ no ")
	}
	if r.ViewedAt != nil {
		return lipgloss.NewStyle().Foreground(t.Pending).Render("seen ")
	}
	return lipgloss.NewStyle().Foreground(t.Pending).Render("sent ")
}

func (a App) viewMessages() string {
	t := a.theme
	v := a.detail
	lines := []string{lipgloss.NewStyle().Foreground(t.NormalText).Bold(true).Render("Messages")}
	for _, m := range v.detail.Messages {
		from := lipgloss.NewStyle().Foreground(t.Accent).Render(m.SenderName)
		if !m.IsRead {
			from += lipgloss.NewStyle().Foreground(t.Success).Render(" •")
		}
		lines = append(lines,
			from+lipgloss.NewStyle().Foreground(t.FaintText).
				Render("  "+m.CreatedAt.Format("Jan 2 15:04")),
			lipgloss.NewStyle().Foreground(t.NormalText).Render("  "+m.Content))
	}
	return strings.Join(lines, "\n")
}

// qrBlock renders a terminal QR code for the URL, falling back to the
// bare URL when encoding fails.
func qrBlock(url string) string {
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return url
	}
	return code.ToSmallString(false)
}
