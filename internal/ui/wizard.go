package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"inviter/internal/api"
	"inviter/internal/draft"
	"inviter/internal/notify"
)

// Detail field order. Title first because it is the only required one.
const (
	idxTitle = iota
	idxDescription
	idxLocation
	idxEventDate
	idxExpiresAt
	idxYesText
	idxNoText
	detailFieldCount
)

var detailLabels = [detailFieldCount]string{
	"Title *",
	"Description",
	"Location",
	"Event date (YYYY-MM-DD HH:MM)",
	"Expires at (YYYY-MM-DD HH:MM)",
	"Yes button text",
	"No button text",
}

// recipZone tracks which pane of the recipients step has focus.
type recipZone int

const (
	zoneForm recipZone = iota
	zoneContacts
	zoneRecipients
)

// contactEntry is a saved-contact row offered in the recipients step.
type contactEntry struct {
	Name  string
	Phone string
}

// wizardForm is the four-step creation wizard. Step transitions and
// validation live in draft.Wizard; this model owns the inputs and the
// cursors.
type wizardForm struct {
	wiz *draft.Wizard

	tmplCursor int

	inputs     [detailFieldCount]textinput.Model
	focusIndex int

	nameInput  textinput.Model
	phoneInput textinput.Model
	formFocus  int
	fieldErrs  draft.FieldErrors
	zone       recipZone
	saved      []contactEntry
	contactCur int
	recipCur   int

	submitting bool
}

func newWizardForm(creatorName string, saved []contactEntry) *wizardForm {
	f := &wizardForm{
		wiz:   draft.NewWizard(creatorName),
		saved: saved,
	}

	placeholders := [detailFieldCount]string{
		"Dinner at our place",
		"What, when and why",
		"Where it happens",
		"2026-06-01 19:00",
		"leave empty for no expiry",
		"", "",
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		in.Width = 46
		f.inputs[i] = in
	}
	f.inputs[idxTitle].CharLimit = 100
	f.inputs[idxDescription].CharLimit = 500
	f.inputs[idxYesText].SetValue(f.wiz.Draft.YesText)
	f.inputs[idxNoText].SetValue(f.wiz.Draft.NoText)

	f.nameInput = textinput.New()
	f.nameInput.Placeholder = "Recipient name"
	f.nameInput.CharLimit = 100
	f.nameInput.Width = 30

	f.phoneInput = textinput.New()
	f.phoneInput.Placeholder = "+1 555 000 1111"
	f.phoneInput.CharLimit = 30
	f.phoneInput.Width = 30

	return f
}

// syncDetails copies the detail inputs into the draft so the preview
// card follows every keystroke.
func (f *wizardForm) syncDetails() {
	f.wiz.Draft.Title = f.inputs[idxTitle].Value()
	f.wiz.Draft.Description = f.inputs[idxDescription].Value()
	f.wiz.Draft.Location = f.inputs[idxLocation].Value()
	f.wiz.Draft.YesText = f.inputs[idxYesText].Value()
	f.wiz.Draft.NoText = f.inputs[idxNoText].Value()
}

// loadDetails pushes template values back into the inputs after a
// template was applied.
func (f *wizardForm) loadDetails() {
	f.inputs[idxTitle].SetValue(f.wiz.Draft.Title)
	f.inputs[idxDescription].SetValue(f.wiz.Draft.Description)
	f.inputs[idxLocation].SetValue(f.wiz.Draft.Location)
	f.inputs[idxYesText].SetValue(f.wiz.Draft.YesText)
	f.inputs[idxNoText].SetValue(f.wiz.Draft.NoText)
}

func (f *wizardForm) focusDetail(i int) {
	if i < 0 {
		i = detailFieldCount - 1
	}
	i %= detailFieldCount
	f.focusIndex = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

const wizardDateLayout = "2006-01-02 15:04"

// parseWhen turns an optional date input into a time. Empty means
// unset; a bare date is accepted and pinned to midnight local time.
func parseWhen(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{wizardDateLayout, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}

// guardNotice maps a wizard guard error onto user-facing copy.
func guardNotice(err error) string {
	switch {
	case errors.Is(err, draft.ErrTitleRequired):
		return "Please give your invitation a title"
	case errors.Is(err, draft.ErrNoRecipients):
		return "Please add at least one recipient"
	}
	return "Please complete this step first"
}

func (a App) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	f := a.wizard
	if f == nil {
		a.screen = screenDashboard
		return a, nil
	}

	switch msg := msg.(type) {
	case createResultMsg:
		f.submitting = false
		if msg.err != nil {
			a.log.Warn().Err(msg.err).Msg("create invitation failed")
			cmd := a.notice(api.Detail(msg.err, "Failed to create invitation"), notify.Error)
			return a, cmd
		}
		a.log.Info().Int("invitation_id", msg.created.ID).
			Int("recipients", len(f.wiz.Draft.Recipients)).
			Msg("invitation created")
		a.rememberRecipients(f.wiz.Draft.Recipients)
		a.wizard = nil
		cmd := a.openDetail(msg.created.ID)
		noticeCmd := a.notice("Invitation created and sent successfully!", notify.Success)
		return a, tea.Batch(cmd, noticeCmd)

	case tea.KeyMsg:
		switch f.wiz.Step {
		case draft.StepTemplate:
			return a.updateWizardTemplate(msg)
		case draft.StepDetails:
			return a.updateWizardDetails(msg)
		case draft.StepRecipients:
			return a.updateWizardRecipients(msg)
		case draft.StepReview:
			return a.updateWizardReview(msg)
		}
	}
	return a, nil
}

// rememberRecipients upserts every sent-to recipient into the local
// address book for next time.
func (a App) rememberRecipients(recipients []draft.Recipient) {
	if a.book == nil {
		return
	}
	for _, r := range recipients {
		if err := a.book.Add(r.Name, r.Phone); err != nil {
			a.log.Warn().Err(err).Str("phone", r.Phone).Msg("save contact")
		}
	}
}

func (a App) updateWizardTemplate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.wizard
	options := len(draft.Templates()) + 1 // trailing "start from scratch"

	switch {
	case key.Matches(msg, a.keys.Up):
		if f.tmplCursor > 0 {
			f.tmplCursor--
		}
	case key.Matches(msg, a.keys.Down):
		if f.tmplCursor < options-1 {
			f.tmplCursor++
		}
	case key.Matches(msg, a.keys.Skip):
		f.wiz.SkipToCustom()
		f.focusDetail(idxTitle)
		return a, textinput.Blink
	case key.Matches(msg, a.keys.Select):
		if f.tmplCursor < len(draft.Templates()) {
			f.wiz.ApplyTemplate(draft.Templates()[f.tmplCursor])
			f.loadDetails()
		} else {
			f.wiz.SkipToCustom()
		}
		f.focusDetail(idxTitle)
		return a, textinput.Blink
	case key.Matches(msg, a.keys.Back):
		a.wizard = nil
		a.screen = screenDashboard
		return a, nil
	}
	return a, nil
}

func (a App) updateWizardDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.wizard

	switch {
	case key.Matches(msg, a.keys.NextField), key.Matches(msg, a.keys.Down):
		f.focusDetail(f.focusIndex + 1)
		return a, textinput.Blink
	case key.Matches(msg, a.keys.PrevField), key.Matches(msg, a.keys.Up):
		f.focusDetail(f.focusIndex - 1)
		return a, textinput.Blink
	case key.Matches(msg, a.keys.Back):
		f.syncDetails()
		f.wiz.Back()
		return a, nil
	case key.Matches(msg, a.keys.Select):
		f.syncDetails()
		eventDate, err := parseWhen(f.inputs[idxEventDate].Value())
		if err != nil {
			cmd := a.notice("Event date must look like 2026-06-01 19:00", notify.Error)
			return a, cmd
		}
		expiresAt, err := parseWhen(f.inputs[idxExpiresAt].Value())
		if err != nil {
			cmd := a.notice("Expiry must look like 2026-06-01 19:00", notify.Error)
			return a, cmd
		}
		f.wiz.Draft.EventDate = eventDate
		f.wiz.Draft.ExpiresAt = expiresAt
		if err := f.wiz.Next(); err != nil {
			cmd := a.notice(guardNotice(err), notify.Error)
			return a, cmd
		}
		f.zone = zoneForm
		f.formFocus = 0
		f.nameInput.Focus()
		f.phoneInput.Blur()
		return a, textinput.Blink
	}

	var cmd tea.Cmd
	f.inputs[f.focusIndex], cmd = f.inputs[f.focusIndex].Update(msg)
	f.syncDetails()
	return a, cmd
}

func (a App) updateWizardRecipients(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.wizard

	switch {
	case key.Matches(msg, a.keys.NextField):
		f.cycleRecipFocus(1)
		return a, textinput.Blink
	case key.Matches(msg, a.keys.PrevField):
		f.cycleRecipFocus(-1)
		return a, textinput.Blink
	case key.Matches(msg, a.keys.Back):
		f.wiz.Back()
		f.fieldErrs = nil
		f.focusDetail(idxTitle)
		return a, textinput.Blink
	}

	switch f.zone {
	case zoneForm:
		switch {
		case key.Matches(msg, a.keys.Select):
			name := f.nameInput.Value()
			phone := f.phoneInput.Value()
			if strings.TrimSpace(name) == "" && strings.TrimSpace(phone) == "" {
				// Empty form doubles as "continue".
				if err := f.wiz.Next(); err != nil {
					cmd := a.notice(guardNotice(err), notify.Error)
					return a, cmd
				}
				return a, nil
			}
			if errs := f.wiz.AddRecipient(name, phone); errs.Any() {
				f.fieldErrs = errs
				return a, nil
			}
			f.fieldErrs = nil
			f.nameInput.SetValue("")
			f.phoneInput.SetValue("")
			f.formFocus = 0
			f.nameInput.Focus()
			f.phoneInput.Blur()
			return a, textinput.Blink
		}
		var cmd tea.Cmd
		if f.formFocus == 0 {
			f.nameInput, cmd = f.nameInput.Update(msg)
		} else {
			f.phoneInput, cmd = f.phoneInput.Update(msg)
		}
		return a, cmd

	case zoneContacts:
		switch {
		case key.Matches(msg, a.keys.Up):
			if f.contactCur > 0 {
				f.contactCur--
			}
		case key.Matches(msg, a.keys.Down):
			if f.contactCur < len(f.saved)-1 {
				f.contactCur++
			}
		case key.Matches(msg, a.keys.Select):
			if f.contactCur < len(f.saved) {
				c := f.saved[f.contactCur]
				if errs := f.wiz.AddRecipient(c.Name, c.Phone); errs.Any() {
					f.fieldErrs = errs
				} else {
					f.fieldErrs = nil
				}
			}
		}
		return a, nil

	case zoneRecipients:
		switch {
		case key.Matches(msg, a.keys.Up):
			if f.recipCur > 0 {
				f.recipCur--
			}
		case key.Matches(msg, a.keys.Down):
			if f.recipCur < len(f.wiz.Draft.Recipients)-1 {
				f.recipCur++
			}
		case key.Matches(msg, a.keys.Remove):
			if f.recipCur < len(f.wiz.Draft.Recipients) {
				f.wiz.RemoveRecipient(f.wiz.Draft.Recipients[f.recipCur].ID)
				if f.recipCur >= len(f.wiz.Draft.Recipients) && f.recipCur > 0 {
					f.recipCur--
				}
			}
		case key.Matches(msg, a.keys.Select):
			if err := f.wiz.Next(); err != nil {
				cmd := a.notice(guardNotice(err), notify.Error)
				return a, cmd
			}
		}
		return a, nil
	}
	return a, nil
}

// cycleRecipFocus moves focus through name, phone, the saved-contacts
// list (when non-empty) and the added-recipients list (when non-empty).
func (f *wizardForm) cycleRecipFocus(dir int) {
	type stop struct {
		zone  recipZone
		focus int
	}
	stops := []stop{{zoneForm, 0}, {zoneForm, 1}}
	if len(f.saved) > 0 {
		stops = append(stops, stop{zoneContacts, 0})
	}
	if len(f.wiz.Draft.Recipients) > 0 {
		stops = append(stops, stop{zoneRecipients, 0})
	}

	cur := 0
	for i, s := range stops {
		if s.zone == f.zone && (s.zone != zoneForm || s.focus == f.formFocus) {
			cur = i
			break
		}
	}
	next := stops[(cur+dir+len(stops))%len(stops)]

	f.zone = next.zone
	f.nameInput.Blur()
	f.phoneInput.Blur()
	if next.zone == zoneForm {
		f.formFocus = next.focus
		if next.focus == 0 {
			f.nameInput.Focus()
		} else {
			f.phoneInput.Focus()
		}
	}
}

func (a App) updateWizardReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.wizard
	switch {
	case key.Matches(msg, a.keys.Select):
		if f.submitting {
			return a, nil
		}
		f.submitting = true
		return a, a.createCmd(f.wiz.Draft.Payload())
	case key.Matches(msg, a.keys.Back):
		if f.submitting {
			return a, nil
		}
		f.wiz.Back()
		return a, nil
	}
	return a, nil
}

func (a App) viewWizard() string {
	f := a.wizard
	if f == nil {
		return ""
	}

	sections := []string{a.viewWizardProgress(), ""}
	switch f.wiz.Step {
	case draft.StepTemplate:
		sections = append(sections, a.viewWizardTemplate())
	case draft.StepDetails:
		sections = append(sections, a.viewWizardDetails())
	case draft.StepRecipients:
		sections = append(sections, a.viewWizardRecipients())
	case draft.StepReview:
		sections = append(sections, a.viewWizardReview())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) viewWizardProgress() string {
	t := a.theme
	f := a.wizard
	parts := make([]string, 0, 4)
	for _, s := range []draft.Step{draft.StepTemplate, draft.StepDetails, draft.StepRecipients, draft.StepReview} {
		label := fmt.Sprintf("%d %s", int(s), s.Label())
		style := lipgloss.NewStyle().Foreground(t.FaintText).Padding(0, 1)
		switch {
		case s == f.wiz.Step:
			style = style.Foreground(t.Accent).Bold(true)
		case s < f.wiz.Step:
			label = "✓ " + s.Label()
			style = style.Foreground(t.Success)
		}
		parts = append(parts, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) viewWizardTemplate() string {
	t := a.theme
	f := a.wizard

	lines := []string{
		lipgloss.NewStyle().Foreground(t.NormalText).Bold(true).Render("Choose a template"),
		"",
	}
	for i, tmpl := range draft.Templates() {
		line := fmt.Sprintf("%-22s %s", tmpl.Name, tmpl.Category)
		lines = append(lines, a.cursorLine(line, i == f.tmplCursor))
	}
	custom := len(draft.Templates())
	lines = append(lines, a.cursorLine("Start from scratch", f.tmplCursor == custom))

	if f.tmplCursor < custom {
		p := draft.Templates()[f.tmplCursor].Preview
		preview := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderColor).
			Padding(0, 2).
			Render(lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(p.Title),
				lipgloss.NewStyle().Foreground(t.FaintText).Render(p.Description),
				"",
				fmt.Sprintf("[%s]  [%s]", p.YesText, p.NoText),
			))
		lines = append(lines, "", preview)
	}

	help := lipgloss.NewStyle().Foreground(t.HelpText).
		Render("↑/↓ choose · enter use template · s start from scratch · esc cancel")
	lines = append(lines, "", help)
	return strings.Join(lines, "\n")
}

func (a App) viewWizardDetails() string {
	t := a.theme
	f := a.wizard

	label := lipgloss.NewStyle().Foreground(t.FaintText)
	focused := lipgloss.NewStyle().Foreground(t.Accent)

	rows := []string{
		lipgloss.NewStyle().Foreground(t.NormalText).Bold(true).Render("Event details"),
		"",
	}
	for i := range f.inputs {
		l := label
		if i == f.focusIndex {
			l = focused
		}
		rows = append(rows, l.Render(detailLabels[i]), f.inputs[i].View(), "")
	}
	form := strings.Join(rows, "\n")

	help := lipgloss.NewStyle().Foreground(t.HelpText).
		Render("tab next field · enter continue · esc back")

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, form, "  ", a.previewCard()),
		help)
}

// previewCard renders the draft as the recipient will see it, updated
// live while the details are typed.
func (a App) previewCard() string {
	t := a.theme
	d := a.wizard.wiz.Draft

	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = "Your invitation title"
	}
	lines := []string{
		lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(title),
	}
	if desc := strings.TrimSpace(d.Description); desc != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.NormalText).Render(desc))
	}
	if d.EventDate != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.FaintText).
			Render("When: "+d.EventDate.Format("Mon, Jan 2 2006 15:04")))
	}
	if loc := strings.TrimSpace(d.Location); loc != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.FaintText).Render("Where: "+loc))
	}
	lines = append(lines, "",
		lipgloss.NewStyle().Foreground(t.Yes).Render("["+d.YesText+"]")+
			"  "+
			lipgloss.NewStyle().Foreground(t.No).Render("["+d.NoText+"]"),
		"",
		lipgloss.NewStyle().Foreground(t.FaintText).Render("From "+d.CreatorName),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderColor).
		Padding(1, 2).
		Width(44).
		Render(strings.Join(lines, "\n"))
}

func (a App) viewWizardRecipients() string {
	t := a.theme
	f := a.wizard

	errStyle := lipgloss.NewStyle().Foreground(t.Error)
	rows := []string{
		lipgloss.NewStyle().Foreground(t.NormalText).Bold(true).Render("Who is invited?"),
		"",
		lipgloss.NewStyle().Foreground(t.FaintText).Render("Name"),
		f.nameInput.View(),
	}
	if msg, ok := f.fieldErrs["name"]; ok {
		rows = append(rows, errStyle.Render(msg))
	}
	rows = append(rows, "",
		lipgloss.NewStyle().Foreground(t.FaintText).Render("Phone"),
		f.phoneInput.View(),
	)
	if msg, ok := f.fieldErrs["phone"]; ok {
		rows = append(rows, errStyle.Render(msg))
	}

	if len(f.saved) > 0 {
		rows = append(rows, "",
			lipgloss.NewStyle().Foreground(t.NormalText).Bold(true).Render("Saved contacts"))
		for i, c := range f.saved {
			line := fmt.Sprintf("%-24s %s", truncate(c.Name, 24), c.Phone)
			rows = append(rows, a.cursorLine(line, f.zone == zoneContacts && i == f.contactCur))
		}
	}

	rows = append(rows, "",
		lipgloss.NewStyle().Foreground(t.NormalText).Bold(true).
			Render(fmt.Sprintf("Recipients (%d)", len(f.wiz.Draft.Recipients))))
	if len(f.wiz.Draft.Recipients) == 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(t.FaintText).Render("none yet"))
	}
	for i, r := range f.wiz.Draft.Recipients {
		line := fmt.Sprintf("%-24s %s", truncate(r.Name, 24), r.Phone)
		rows = append(rows, a.cursorLine(line, f.zone == zoneRecipients && i == f.recipCur))
	}

	help := lipgloss.NewStyle().Foreground(t.HelpText).
		Render("enter add · enter on empty form continue · tab switch pane · x remove · esc back")
	rows = append(rows, "", help)
	return strings.Join(rows, "\n")
}

func (a App) viewWizardReview() string {
	t := a.theme
	f := a.wizard
	d := f.wiz.Draft

	rows := []string{
		lipgloss.NewStyle().Foreground(t.NormalText).Bold(true).Render("Review and send"),
		"",
		a.previewCard(),
		"",
		lipgloss.NewStyle().Foreground(t.NormalText).
			Render(fmt.Sprintf("Sending to %d recipient(s):", len(d.Recipients))),
	}
	for _, r := range d.Recipients {
		rows = append(rows, lipgloss.NewStyle().Foreground(t.FaintText).
			Render("  "+r.Name+" · "+r.Phone))
	}
	if d.ExpiresAt != nil {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(t.FaintText).
			Render("Responses close "+d.ExpiresAt.Format("Mon, Jan 2 2006 15:04")))
	}

	if f.submitting {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(t.Accent).Render("Sending..."))
	} else {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(t.HelpText).
			Render("enter send invitations · esc back"))
	}
	return strings.Join(rows, "\n")
}

// cursorLine renders one selectable row, highlighted when selected.
func (a App) cursorLine(line string, selected bool) string {
	if selected {
		return lipgloss.NewStyle().
			Foreground(a.theme.SelectedForeground).
			Background(a.theme.SelectedBackground).
			Bold(true).
			Render("› " + line)
	}
	return lipgloss.NewStyle().Foreground(a.theme.NormalText).Render("  " + line)
}
