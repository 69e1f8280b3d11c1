package draft

import (
	"errors"
	"testing"
	"time"
)

func TestNewDraftDefaults(t *testing.T) {
	d := New("Ann Example")

	if d.YesText != "Yes, I'll attend" {
		t.Errorf("default yes text = %q", d.YesText)
	}
	if d.NoText != "Can't make it" {
		t.Errorf("default no text = %q", d.NoText)
	}
	if d.EventType != "custom" {
		t.Errorf("default event type = %q", d.EventType)
	}
	if d.CreatorName != "Ann Example" {
		t.Errorf("creator name = %q", d.CreatorName)
	}
	if len(d.Recipients) != 0 {
		t.Errorf("new draft has %d recipients", len(d.Recipients))
	}
}

func TestNextGuardsTitle(t *testing.T) {
	w := NewWizard("Ann")
	w.Step = StepDetails

	for _, title := range []string{"", "   ", "\t\n"} {
		w.Draft.Title = title
		if err := w.Next(); !errors.Is(err, ErrTitleRequired) {
			t.Errorf("title %q: Next() = %v, want ErrTitleRequired", title, err)
		}
		if w.Step != StepDetails {
			t.Fatalf("title %q: step advanced to %v on rejected transition", title, w.Step)
		}
	}

	w.Draft.Title = "Team Offsite"
	if err := w.Next(); err != nil {
		t.Fatalf("Next() with title = %v", err)
	}
	if w.Step != StepRecipients {
		t.Fatalf("step = %v, want StepRecipients", w.Step)
	}
}

func TestNextGuardsRecipients(t *testing.T) {
	w := NewWizard("Ann")
	w.Draft.Title = "Team Offsite"
	w.Step = StepRecipients

	if err := w.Next(); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("Next() with no recipients = %v, want ErrNoRecipients", err)
	}
	if w.Step != StepRecipients {
		t.Fatal("step advanced on rejected transition")
	}

	if errs := w.AddRecipient("Ann", "555-000-1111"); errs.Any() {
		t.Fatalf("AddRecipient: %v", errs)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next() with one recipient = %v", err)
	}
	if w.Step != StepReview {
		t.Fatalf("step = %v, want StepReview", w.Step)
	}
}

func TestNextFromReviewIsTerminal(t *testing.T) {
	w := NewWizard("Ann")
	w.Step = StepReview
	if err := w.Next(); err != nil {
		t.Fatalf("Next() from review = %v", err)
	}
	if w.Step != StepReview {
		t.Fatalf("step moved past review: %v", w.Step)
	}
}

func TestBackAlwaysPermitted(t *testing.T) {
	w := NewWizard("Ann")
	w.Draft.Title = "Kept"
	w.Draft.Recipients = []Recipient{{ID: "r1", Name: "Bo", Phone: "5550001111"}}
	w.Step = StepReview

	w.Back()
	if w.Step != StepRecipients {
		t.Fatalf("step = %v, want StepRecipients", w.Step)
	}
	w.Back()
	w.Back()
	if w.Step != StepTemplate {
		t.Fatalf("step = %v, want StepTemplate", w.Step)
	}
	// Back from the first step stays put.
	w.Back()
	if w.Step != StepTemplate {
		t.Fatalf("step = %v after back from first step", w.Step)
	}
	if w.Draft.Title != "Kept" || len(w.Draft.Recipients) != 1 {
		t.Error("backward transitions must preserve draft fields")
	}
}

func TestApplyTemplateOverwritesContentOnly(t *testing.T) {
	w := NewWizard("Ann")
	w.Draft.Location = "Rooftop Bar"
	w.Draft.Recipients = []Recipient{{ID: "r1", Name: "Bo", Phone: "5550001111"}}

	var birthday Template
	for _, tmpl := range Templates() {
		if tmpl.ID == "birthday" {
			birthday = tmpl
		}
	}
	if birthday.ID == "" {
		t.Fatal("birthday template missing")
	}

	w.ApplyTemplate(birthday)

	if w.Draft.Title != "Birthday Celebration" {
		t.Errorf("title = %q", w.Draft.Title)
	}
	if w.Draft.Description != "You're invited to celebrate with us!" {
		t.Errorf("description = %q", w.Draft.Description)
	}
	if w.Draft.YesText != "Accept" || w.Draft.NoText != "Decline" {
		t.Errorf("answer texts = %q / %q", w.Draft.YesText, w.Draft.NoText)
	}
	if w.Draft.EventType != "birthday" || w.Draft.TemplateStyle != "birthday" {
		t.Errorf("event type / style = %q / %q", w.Draft.EventType, w.Draft.TemplateStyle)
	}
	if w.Draft.Location != "Rooftop Bar" {
		t.Error("template must not touch location")
	}
	if len(w.Draft.Recipients) != 1 {
		t.Error("template must not touch recipients")
	}
	if w.Step != StepDetails {
		t.Fatalf("step = %v, want StepDetails", w.Step)
	}
}

func TestSkipToCustom(t *testing.T) {
	w := NewWizard("Ann")
	w.Draft.Title = "Typed before skipping"
	w.Draft.EventType = "birthday"

	w.SkipToCustom()

	if w.Draft.EventType != "custom" {
		t.Errorf("event type = %q, want custom", w.Draft.EventType)
	}
	if w.Draft.Title != "Typed before skipping" {
		t.Error("skip must not overwrite content fields")
	}
	if w.Step != StepDetails {
		t.Fatalf("step = %v, want StepDetails", w.Step)
	}
}

func TestAddRecipientValidation(t *testing.T) {
	w := NewWizard("Ann")

	if errs := w.AddRecipient("", "555-000-1111"); errs["name"] == "" {
		t.Error("blank name accepted")
	}
	if errs := w.AddRecipient("Bo", ""); errs["phone"] == "" {
		t.Error("blank phone accepted")
	}
	if errs := w.AddRecipient("Bo", "555-12"); errs["phone"] == "" {
		t.Error("short phone accepted")
	}
	if len(w.Draft.Recipients) != 0 {
		t.Fatalf("list mutated on rejected adds: %d entries", len(w.Draft.Recipients))
	}

	if errs := w.AddRecipient("  Bo  ", "(555) 123-4567"); errs.Any() {
		t.Fatalf("valid recipient rejected: %v", errs)
	}
	if len(w.Draft.Recipients) != 1 {
		t.Fatalf("list length = %d", len(w.Draft.Recipients))
	}
	if w.Draft.Recipients[0].Name != "Bo" {
		t.Errorf("name not trimmed: %q", w.Draft.Recipients[0].Name)
	}
	if w.Draft.Recipients[0].ID == "" {
		t.Error("recipient missing local id")
	}
}

func TestAddRecipientRejectsDuplicatePhone(t *testing.T) {
	w := NewWizard("Ann")
	if errs := w.AddRecipient("Bo", "555-000-1111"); errs.Any() {
		t.Fatalf("first add: %v", errs)
	}

	errs := w.AddRecipient("Cy", "555-000-1111")
	if errs["phone"] != "This number is already added" {
		t.Errorf("duplicate error = %q", errs["phone"])
	}
	if len(w.Draft.Recipients) != 1 {
		t.Fatalf("list changed on duplicate add: %d entries", len(w.Draft.Recipients))
	}
}

func TestRemoveRecipient(t *testing.T) {
	w := NewWizard("Ann")
	w.AddRecipient("Bo", "555-000-1111")
	w.AddRecipient("Cy", "555-000-2222")

	id := w.Draft.Recipients[0].ID
	w.RemoveRecipient(id)
	if len(w.Draft.Recipients) != 1 || w.Draft.Recipients[0].Name != "Cy" {
		t.Fatalf("recipients after remove: %+v", w.Draft.Recipients)
	}

	// Unknown id is a no-op.
	w.RemoveRecipient("no-such-id")
	if len(w.Draft.Recipients) != 1 {
		t.Fatal("remove by unknown id mutated the list")
	}
}

func TestPayloadProjection(t *testing.T) {
	eventDate := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	w := NewWizard("Ann")
	w.Draft.Title = "  Launch Party  "
	w.Draft.EventDate = &eventDate
	w.AddRecipient("Bo", "555-000-1111")
	w.AddRecipient("Cy", "555-000-2222")

	payload := w.Draft.Payload()

	if payload.Title != "Launch Party" {
		t.Errorf("title = %q", payload.Title)
	}
	if payload.EventDate == nil || !payload.EventDate.Equal(eventDate) {
		t.Error("event date lost in projection")
	}
	if len(payload.Recipients) != 2 {
		t.Fatalf("recipient count = %d", len(payload.Recipients))
	}
	if payload.Recipients[0].Name != "Bo" || payload.Recipients[0].Phone != "555-000-1111" {
		t.Errorf("first recipient = %+v", payload.Recipients[0])
	}
}

// TestWizardEndToEnd walks the full creation path: template pick,
// rejected advance without recipients, add, review.
func TestWizardEndToEnd(t *testing.T) {
	w := NewWizard("Ann")

	var birthday Template
	for _, tmpl := range Templates() {
		if tmpl.Name == "Birthday Party" {
			birthday = tmpl
		}
	}
	w.ApplyTemplate(birthday)
	if w.Draft.Title != "Birthday Celebration" || w.Step != StepDetails {
		t.Fatalf("after template: title=%q step=%v", w.Draft.Title, w.Step)
	}

	if err := w.Next(); err != nil {
		t.Fatalf("details → recipients: %v", err)
	}
	if err := w.Next(); !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("advance with zero recipients = %v, want ErrNoRecipients", err)
	}

	if errs := w.AddRecipient("Ann", "555-000-1111"); errs.Any() {
		t.Fatalf("add recipient: %v", errs)
	}
	if len(w.Draft.Recipients) != 1 {
		t.Fatalf("recipient count = %d", len(w.Draft.Recipients))
	}
	if err := w.Next(); err != nil {
		t.Fatalf("recipients → review: %v", err)
	}
	if w.Step != StepReview {
		t.Fatalf("step = %v, want StepReview", w.Step)
	}
}
