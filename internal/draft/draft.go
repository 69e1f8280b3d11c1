// Package draft holds the client-side invitation draft and the wizard
// state machine that assembles it: Template → Details → Recipients →
// Review. The package is pure state; rendering and network calls live
// with the callers.
package draft

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"inviter/internal/models"
)

// Step identifies a wizard screen. Steps are strictly ordered; forward
// movement is guarded, backward movement never is.
type Step int

const (
	StepTemplate Step = iota + 1
	StepDetails
	StepRecipients
	StepReview
)

// Label returns the progress-bar caption for the step.
func (s Step) Label() string {
	switch s {
	case StepTemplate:
		return "Template"
	case StepDetails:
		return "Details"
	case StepRecipients:
		return "Recipients"
	case StepReview:
		return "Review"
	}
	return ""
}

// Guard errors returned by Next. The UI maps these to notification copy.
var (
	ErrTitleRequired = errors.New("title is required")
	ErrNoRecipients  = errors.New("at least one recipient is required")
)

// Recipient is one entry in the draft's recipient list. ID is a local
// uniqueness key only; the server never sees it.
type Recipient struct {
	ID    string
	Name  string
	Phone string
}

// Draft is the in-progress, unsaved invitation. It exists only while
// the wizard is open and is discarded on submit or abandon.
type Draft struct {
	Title         string
	Description   string
	EventType     string
	EventDate     *time.Time
	Location      string
	YesText       string
	NoText        string
	TemplateStyle string
	Recipients    []Recipient
	ExpiresAt     *time.Time
	CreatorName   string
}

// New seeds an empty draft with the default answer texts and the
// creator's display name.
func New(creatorName string) Draft {
	return Draft{
		EventType:   "custom",
		YesText:     "Yes, I'll attend",
		NoText:      "Can't make it",
		CreatorName: creatorName,
	}
}

// Payload projects the draft onto the create request. Recipients are
// reduced to {name, phone} pairs; local ids stay local.
func (d Draft) Payload() models.CreateInvitation {
	recipients := make([]models.RecipientInput, 0, len(d.Recipients))
	for _, r := range d.Recipients {
		recipients = append(recipients, models.RecipientInput{Name: r.Name, Phone: r.Phone})
	}
	return models.CreateInvitation{
		Title:         strings.TrimSpace(d.Title),
		Description:   strings.TrimSpace(d.Description),
		EventType:     d.EventType,
		EventDate:     d.EventDate,
		Location:      strings.TrimSpace(d.Location),
		YesText:       d.YesText,
		NoText:        d.NoText,
		TemplateStyle: d.TemplateStyle,
		Recipients:    recipients,
		ExpiresAt:     d.ExpiresAt,
	}
}

// FieldErrors maps an input field name to a validation message.
type FieldErrors map[string]string

// Any reports whether any field failed validation.
func (e FieldErrors) Any() bool { return len(e) > 0 }

// Wizard drives a draft through the four creation steps.
type Wizard struct {
	Draft Draft
	Step  Step
}

// NewWizard opens the wizard on the template step with a fresh draft.
func NewWizard(creatorName string) *Wizard {
	return &Wizard{Draft: New(creatorName), Step: StepTemplate}
}

// Next advances one step. Details→Recipients requires a non-blank
// title, Recipients→Review requires at least one recipient; on a guard
// failure the step does not change and the guard error is returned.
// Review is terminal: submission is the caller's job.
func (w *Wizard) Next() error {
	switch w.Step {
	case StepDetails:
		if strings.TrimSpace(w.Draft.Title) == "" {
			return ErrTitleRequired
		}
	case StepRecipients:
		if len(w.Draft.Recipients) == 0 {
			return ErrNoRecipients
		}
	case StepReview:
		return nil
	}
	w.Step++
	return nil
}

// Back moves one step toward the template step. Never guarded, never
// loses draft fields.
func (w *Wizard) Back() {
	if w.Step > StepTemplate {
		w.Step--
	}
}

// ApplyTemplate overwrites the draft's content fields with the
// template's preview values and advances to the details step.
// Recipients, location and dates are untouched.
func (w *Wizard) ApplyTemplate(t Template) {
	w.Draft.Title = t.Preview.Title
	w.Draft.Description = t.Preview.Description
	w.Draft.YesText = t.Preview.YesText
	w.Draft.NoText = t.Preview.NoText
	w.Draft.EventType = t.ID
	w.Draft.TemplateStyle = t.ID
	w.Step = StepDetails
}

// SkipToCustom jumps from the template step straight to details,
// forcing the custom event type without touching content fields.
func (w *Wizard) SkipToCustom() {
	w.Draft.EventType = "custom"
	w.Step = StepDetails
}

// AddRecipient validates and appends a recipient. The name must be
// non-blank, the phone must pass ValidPhone, and the raw phone string
// must not already be in the list. On any violation the returned
// FieldErrors is non-empty and the list is unchanged.
func (w *Wizard) AddRecipient(name, phone string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(phone) == "" {
		errs["phone"] = "Phone number is required"
	} else if !ValidPhone(phone) {
		errs["phone"] = "Invalid phone number"
	}
	if errs.Any() {
		return errs
	}
	for _, r := range w.Draft.Recipients {
		if r.Phone == phone {
			return FieldErrors{"phone": "This number is already added"}
		}
	}
	w.Draft.Recipients = append(w.Draft.Recipients, Recipient{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Phone: phone,
	})
	return nil
}

// RemoveRecipient deletes by local id. Unknown ids are a no-op.
func (w *Wizard) RemoveRecipient(id string) {
	for i, r := range w.Draft.Recipients {
		if r.ID == id {
			w.Draft.Recipients = append(w.Draft.Recipients[:i], w.Draft.Recipients[i+1:]...)
			return
		}
	}
}
