package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"inviter/internal/api"
	"inviter/internal/models"
	"inviter/internal/respond"
)

func testApp(t *testing.T, saved *models.Credentials) App {
	t.Helper()
	client := api.New("http://localhost:0", time.Second, zerolog.Nop())
	return NewApp(client, nil, nil, zerolog.Nop(), saved)
}

// drive feeds messages through Update and returns the final model and
// the command produced by the last message.
func drive(t *testing.T, a App, msgs ...tea.Msg) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var model tea.Model
		model, cmd = a.Update(msg)
		a = model.(App)
	}
	return a, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestAppStartsOnLoginWithoutSession(t *testing.T) {
	a := testApp(t, nil)
	if a.screen != screenLogin {
		t.Fatalf("screen = %d, want login", a.screen)
	}
}

func TestAppRestoresSavedSession(t *testing.T) {
	saved := &models.Credentials{
		AccessToken: "token",
		User:        models.User{ID: 3, Name: "Dana"},
	}
	a := testApp(t, saved)
	if a.screen != screenDashboard {
		t.Fatalf("screen = %d, want dashboard", a.screen)
	}
	if a.user.Name != "Dana" {
		t.Fatalf("user = %+v", a.user)
	}
	if a.Init() == nil {
		t.Fatal("expected startup commands")
	}
}

func TestLoginSuccessOpensDashboard(t *testing.T) {
	a := testApp(t, nil)
	creds := models.Credentials{
		AccessToken: "token",
		User:        models.User{ID: 1, Name: "Dana"},
	}
	a, cmd := drive(t, a, loginResultMsg{creds: creds})
	if a.screen != screenDashboard {
		t.Fatalf("screen = %d, want dashboard", a.screen)
	}
	if cmd == nil {
		t.Fatal("expected dashboard load commands")
	}
	if !a.dash.loading() {
		t.Fatal("dashboard should be loading after login")
	}
}

func TestLoginUnauthorizedShowsInlineError(t *testing.T) {
	a := testApp(t, nil)
	a, _ = drive(t, a, loginResultMsg{err: fmt.Errorf("POST /auth/login: %w", api.ErrUnauthorized)})
	if a.screen != screenLogin {
		t.Fatalf("screen = %d, want login", a.screen)
	}
	if a.login.errText != "Invalid email or password" {
		t.Fatalf("errText = %q", a.login.errText)
	}
	if a.login.pending {
		t.Fatal("pending should be cleared")
	}
}

func TestDeadRestoredTokenBouncesToLogin(t *testing.T) {
	saved := &models.Credentials{AccessToken: "stale", User: models.User{ID: 2}}
	a := testApp(t, saved)
	a, _ = drive(t, a, sessionVerifiedMsg{err: fmt.Errorf("GET /auth/me: %w", api.ErrUnauthorized)})
	if a.screen != screenLogin {
		t.Fatalf("screen = %d, want login", a.screen)
	}
	if a.notices.Empty() {
		t.Fatal("expected a session-expired notice")
	}
}

func TestNetworkFailureKeepsRestoredSession(t *testing.T) {
	saved := &models.Credentials{AccessToken: "token", User: models.User{ID: 2, Name: "Dana"}}
	a := testApp(t, saved)
	a, _ = drive(t, a, sessionVerifiedMsg{err: fmt.Errorf("connection refused")})
	if a.screen != screenDashboard {
		t.Fatalf("screen = %d, want dashboard", a.screen)
	}
	if a.user.Name != "Dana" {
		t.Fatalf("user lost: %+v", a.user)
	}
}

func signedInApp(t *testing.T) App {
	t.Helper()
	a := testApp(t, nil)
	a, _ = drive(t, a, loginResultMsg{creds: models.Credentials{
		AccessToken: "token",
		User:        models.User{ID: 1, Name: "Dana"},
	}})
	return a
}

func TestDashboardLoadingWithdrawnWhenBothSettle(t *testing.T) {
	a := signedInApp(t)

	// Stats fail, list succeeds: loading must still end.
	a, _ = drive(t, a, dashboardStatsMsg{err: fmt.Errorf("boom")})
	if !a.dash.loading() {
		t.Fatal("still waiting for the list")
	}
	a, _ = drive(t, a, dashboardListMsg{invitations: []models.Invitation{{ID: 1, Title: "Dinner"}}})
	if a.dash.loading() {
		t.Fatal("loading should be withdrawn once both fetches settled")
	}
	if len(a.dash.invitations) != 1 {
		t.Fatalf("invitations = %d", len(a.dash.invitations))
	}
	if !strings.Contains(a.View(), "Dinner") {
		t.Fatal("list row not rendered")
	}
}

func TestDashboardFilters(t *testing.T) {
	a := signedInApp(t)
	past := time.Now().Add(-time.Hour)
	list := []models.Invitation{
		{ID: 1, Title: "Expired", ExpiresAt: &past, TotalSent: 2, TotalPending: 2},
		{ID: 2, Title: "Done", TotalSent: 2, TotalPending: 0},
		{ID: 3, Title: "Open", TotalSent: 2, TotalPending: 1},
	}
	a, _ = drive(t, a, dashboardStatsMsg{}, dashboardListMsg{invitations: list})

	if got := len(a.dash.filtered()); got != 3 {
		t.Fatalf("all filter: %d rows", got)
	}
	a, _ = drive(t, a, keyType(tea.KeyRight)) // Active
	rows := a.dash.filtered()
	if len(rows) != 1 || rows[0].inv.ID != 3 {
		t.Fatalf("active filter: %+v", rows)
	}
	a, _ = drive(t, a, keyType(tea.KeyRight)) // Completed
	rows = a.dash.filtered()
	if len(rows) != 2 {
		t.Fatalf("completed filter: %d rows", len(rows))
	}
}

func TestDashboardOpensDetail(t *testing.T) {
	a := signedInApp(t)
	a, _ = drive(t, a,
		dashboardStatsMsg{},
		dashboardListMsg{invitations: []models.Invitation{{ID: 9, Title: "Dinner"}}})
	a, cmd := drive(t, a, keyType(tea.KeyEnter))
	if a.screen != screenDetail {
		t.Fatalf("screen = %d, want detail", a.screen)
	}
	if a.detail == nil || a.detail.id != 9 {
		t.Fatalf("detail = %+v", a.detail)
	}
	if cmd == nil {
		t.Fatal("expected a detail fetch command")
	}
}

func TestDetailBackReturnsToRefreshedDashboard(t *testing.T) {
	a := signedInApp(t)
	a, _ = drive(t, a,
		dashboardStatsMsg{},
		dashboardListMsg{invitations: []models.Invitation{{ID: 9, Title: "Dinner"}}},
		keyType(tea.KeyEnter),
		detailResultMsg{detail: models.InvitationDetail{Invitation: models.Invitation{ID: 9, Title: "Dinner"}}},
	)
	a, cmd := drive(t, a, keyType(tea.KeyEsc))
	if a.screen != screenDashboard {
		t.Fatalf("screen = %d, want dashboard", a.screen)
	}
	if !a.dash.loading() {
		t.Fatal("dashboard should refresh on return")
	}
	if cmd == nil {
		t.Fatal("expected reload commands")
	}
}

func TestWizardFullFlow(t *testing.T) {
	a := signedInApp(t)
	a, _ = drive(t, a, dashboardStatsMsg{}, dashboardListMsg{})

	// n opens the wizard on the template step.
	a, _ = drive(t, a, keyRunes("n"))
	if a.screen != screenWizard {
		t.Fatalf("screen = %d, want wizard", a.screen)
	}

	// Pick the first template; its preview values land in the inputs.
	a, _ = drive(t, a, keyType(tea.KeyEnter))
	f := a.wizard
	if f.wiz.Draft.Title != "Team Meeting" {
		t.Fatalf("title = %q", f.wiz.Draft.Title)
	}
	if got := f.inputs[idxTitle].Value(); got != "Team Meeting" {
		t.Fatalf("title input = %q", got)
	}

	// Details are valid, continue to recipients.
	a, _ = drive(t, a, keyType(tea.KeyEnter))

	// Type a name, tab to phone, type a number, add.
	a, _ = drive(t, a, keyRunes("Ann"))
	a, _ = drive(t, a, keyType(tea.KeyTab))
	a, _ = drive(t, a, keyRunes("5550001111"))
	a, _ = drive(t, a, keyType(tea.KeyEnter))
	if got := len(a.wizard.wiz.Draft.Recipients); got != 1 {
		t.Fatalf("recipients = %d", got)
	}
	if a.wizard.nameInput.Value() != "" {
		t.Fatal("form should clear after adding")
	}

	// Empty form, enter continues to review.
	a, _ = drive(t, a, keyType(tea.KeyEnter))
	if a.wizard.wiz.Step.Label() != "Review" {
		t.Fatalf("step = %s", a.wizard.wiz.Step.Label())
	}

	// Submit.
	a, cmd := drive(t, a, keyType(tea.KeyEnter))
	if !a.wizard.submitting {
		t.Fatal("expected a submission in flight")
	}
	if cmd == nil {
		t.Fatal("expected a create command")
	}

	// A second enter while in flight is ignored.
	a, cmd = drive(t, a, keyType(tea.KeyEnter))
	if cmd != nil {
		t.Fatal("duplicate submit should be a no-op")
	}

	// Success navigates to the new invitation's detail.
	a, _ = drive(t, a, createResultMsg{created: models.Invitation{ID: 7, Title: "Team Meeting"}})
	if a.wizard != nil {
		t.Fatal("wizard should be discarded")
	}
	if a.screen != screenDetail || a.detail.id != 7 {
		t.Fatalf("screen = %d detail = %+v", a.screen, a.detail)
	}
	if a.notices.Empty() {
		t.Fatal("expected a success notice")
	}
}

func TestWizardGuardsBlockAdvance(t *testing.T) {
	a := signedInApp(t)
	a, _ = drive(t, a, dashboardStatsMsg{}, dashboardListMsg{}, keyRunes("n"))

	// Start from scratch: no title yet.
	a, _ = drive(t, a, keyRunes("s"))
	a, _ = drive(t, a, keyType(tea.KeyEnter))
	if a.wizard.wiz.Step.Label() != "Details" {
		t.Fatalf("step = %s, want Details", a.wizard.wiz.Step.Label())
	}
	if a.notices.Empty() {
		t.Fatal("expected a title-required notice")
	}
}

func TestWizardCreateFailureStaysOnReview(t *testing.T) {
	a := signedInApp(t)
	a, _ = drive(t, a, dashboardStatsMsg{}, dashboardListMsg{}, keyRunes("n"),
		keyType(tea.KeyEnter), // template
		keyType(tea.KeyEnter), // details ok
		keyRunes("Ann"), keyType(tea.KeyTab), keyRunes("5550001111"), keyType(tea.KeyEnter),
		keyType(tea.KeyEnter), // to review
		keyType(tea.KeyEnter), // submit
	)
	a, _ = drive(t, a, createResultMsg{err: &api.APIError{StatusCode: 500, Detail: "server exploded"}})
	if a.screen != screenWizard {
		t.Fatalf("screen = %d, want wizard", a.screen)
	}
	if a.wizard.submitting {
		t.Fatal("submitting should be cleared for retry")
	}
	if a.notices.Empty() {
		t.Fatal("expected a failure notice")
	}
}

func TestWizardInvalidDateBlocksAdvance(t *testing.T) {
	a := signedInApp(t)
	a, _ = drive(t, a, dashboardStatsMsg{}, dashboardListMsg{}, keyRunes("n"),
		keyType(tea.KeyEnter)) // template applied, on details

	// Move to the event-date field and type garbage.
	for i := 0; i < idxEventDate; i++ {
		a, _ = drive(t, a, keyType(tea.KeyTab))
	}
	a, _ = drive(t, a, keyRunes("next tuesday"))
	a, _ = drive(t, a, keyType(tea.KeyEnter))
	if a.wizard.wiz.Step.Label() != "Details" {
		t.Fatalf("step = %s, want Details", a.wizard.wiz.Step.Label())
	}
	if a.notices.Empty() {
		t.Fatal("expected a date-format notice")
	}
}

func TestRespondFlowSubmits(t *testing.T) {
	client := api.New("http://localhost:0", time.Second, zerolog.Nop())
	m := NewRespondModel(client, "link-1", zerolog.Nop())

	page := models.ResponsePage{
		Invitation: models.ResponseInvitation{
			Title: "Dinner", YesText: "Yes, I'll attend", NoText: "Can't make it",
			CreatorName: "Dana",
		},
		RecipientName: "Ann",
	}
	model, _ := m.Update(respondPageMsg{page: page})
	m = model.(RespondModel)
	if m.flow.Phase != respond.PhaseAwaitingAnswer {
		t.Fatalf("phase = %d", m.flow.Phase)
	}

	model, cmd := m.Update(keyRunes("n"))
	m = model.(RespondModel)
	if m.flow.Phase != respond.PhaseSubmitting {
		t.Fatalf("phase = %d, want submitting", m.flow.Phase)
	}
	if cmd == nil {
		t.Fatal("expected a submit command")
	}

	model, _ = m.Update(respondSubmitMsg{})
	m = model.(RespondModel)
	if m.flow.Phase != respond.PhaseSubmitted {
		t.Fatalf("phase = %d, want submitted", m.flow.Phase)
	}
	if !strings.Contains(m.View(), "Can't make it") {
		t.Fatal("recorded answer not rendered")
	}
}

func TestRespondConflictShowsRecordedAnswer(t *testing.T) {
	client := api.New("http://localhost:0", time.Second, zerolog.Nop())
	m := NewRespondModel(client, "link-1", zerolog.Nop())

	page := models.ResponsePage{Invitation: models.ResponseInvitation{
		Title: "Dinner", YesText: "Accept", NoText: "Decline", CreatorName: "Dana",
	}}
	model, _ := m.Update(respondPageMsg{page: page})
	m = model.(RespondModel)
	model, _ = m.Update(keyRunes("n"))
	m = model.(RespondModel)

	model, _ = m.Update(respondSubmitMsg{err: &api.ConflictError{PreviousAnswer: models.AnswerYes}})
	m = model.(RespondModel)
	if m.flow.Phase != respond.PhaseAlreadyResponded {
		t.Fatalf("phase = %d, want already-responded", m.flow.Phase)
	}
	if !strings.Contains(m.View(), "Accept") {
		t.Fatal("should show the server's recorded answer")
	}
}

func TestRespondExpiredLink(t *testing.T) {
	client := api.New("http://localhost:0", time.Second, zerolog.Nop())
	m := NewRespondModel(client, "link-1", zerolog.Nop())

	model, _ := m.Update(respondPageMsg{err: fmt.Errorf("GET: %w", api.ErrExpired)})
	m = model.(RespondModel)
	if m.flow.Phase != respond.PhaseFailed {
		t.Fatalf("phase = %d, want failed", m.flow.Phase)
	}
	if !strings.Contains(m.View(), "expired") {
		t.Fatalf("view = %q", m.View())
	}

	// Answer keys do nothing on a dead link.
	model, cmd := m.Update(keyRunes("y"))
	m = model.(RespondModel)
	if m.flow.Phase != respond.PhaseFailed || cmd != nil {
		t.Fatal("terminal phase must ignore answer keys")
	}
}

func TestNoticeExpiryStopsTicking(t *testing.T) {
	a := signedInApp(t)
	cmd := a.notice("hello", 0)
	if cmd == nil {
		t.Fatal("first notice should start the tick loop")
	}
	if a.notice("again", 0) != nil {
		t.Fatal("second notice must not start another loop")
	}

	// Before expiry the loop keeps running.
	a, cmd = drive(t, a, noticeTickMsg{})
	if cmd == nil {
		t.Fatal("loop should continue while notices are visible")
	}
	_ = a
}
