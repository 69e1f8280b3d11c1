// Package respond is the recipient-side response state machine: an
// unauthenticated visitor follows an opaque link, sees the invitation
// and commits a single yes/no answer. Pure state; fetching and
// rendering belong to the caller.
package respond

import (
	"errors"

	"inviter/internal/api"
	"inviter/internal/models"
)

// Phase is the flow's current state.
type Phase int

const (
	// PhaseLoading covers the initial page fetch.
	PhaseLoading Phase = iota
	// PhaseFailed is terminal: the link is invalid, expired, or the
	// fetch failed. No retry is offered.
	PhaseFailed
	// PhaseAwaitingAnswer shows the yes/no choice.
	PhaseAwaitingAnswer
	// PhaseAlreadyResponded is terminal: an answer is on record.
	// Changing it requires contacting the creator out of band.
	PhaseAlreadyResponded
	// PhaseSubmitting has one submission in flight; input is ignored.
	PhaseSubmitting
	// PhaseSubmitted is terminal: this session's answer was recorded.
	PhaseSubmitted
)

// MessageLimit caps the optional note, enforced by truncation.
const MessageLimit = 500

// Flow tracks one recipient session against one response link.
type Flow struct {
	Phase   Phase
	Page    models.ResponsePage
	Answer  models.Answer // chosen, or previously recorded
	Message string

	// FailText is the terminal copy for PhaseFailed.
	FailText string
	// ErrText is the resubmittable copy shown in PhaseAwaitingAnswer
	// after a failed submit.
	ErrText string
}

// NewFlow starts in PhaseLoading.
func NewFlow() *Flow {
	return &Flow{Phase: PhaseLoading}
}

// Resolve consumes the result of the initial page fetch.
func (f *Flow) Resolve(page models.ResponsePage, err error) {
	if f.Phase != PhaseLoading {
		return
	}
	if err != nil {
		f.Phase = PhaseFailed
		switch {
		case errors.Is(err, api.ErrNotFound):
			f.FailText = "Invalid invitation link"
		case errors.Is(err, api.ErrExpired):
			f.FailText = "This invitation has expired"
		default:
			f.FailText = "Unable to load invitation"
		}
		return
	}
	f.Page = page
	if page.HasResponded {
		f.Phase = PhaseAlreadyResponded
		f.Answer = page.PreviousAnswer
		return
	}
	f.Phase = PhaseAwaitingAnswer
}

// SetMessage stores the optional note, truncated to MessageLimit
// characters. Truncation, not rejection: matching the input cap.
func (f *Flow) SetMessage(message string) {
	runes := []rune(message)
	if len(runes) > MessageLimit {
		runes = runes[:MessageLimit]
	}
	f.Message = string(runes)
}

// Choose commits an answer and moves to PhaseSubmitting. Returns false
// when no submission may start: wrong phase, or one already in flight.
func (f *Flow) Choose(answer models.Answer) bool {
	if f.Phase != PhaseAwaitingAnswer {
		return false
	}
	f.Phase = PhaseSubmitting
	f.Answer = answer
	f.ErrText = ""
	return true
}

// Complete consumes the submit result. A duplicate-response conflict
// converges on the server's recorded answer rather than erroring; any
// other failure returns to PhaseAwaitingAnswer with resubmittable copy.
func (f *Flow) Complete(err error) {
	if f.Phase != PhaseSubmitting {
		return
	}
	if err == nil {
		f.Phase = PhaseSubmitted
		return
	}
	var conflict *api.ConflictError
	if errors.As(err, &conflict) {
		f.Answer = conflict.PreviousAnswer
		f.Phase = PhaseAlreadyResponded
		return
	}
	f.Phase = PhaseAwaitingAnswer
	f.ErrText = "Failed to submit response. Please try again."
}

// AnswerText returns the invitation's label for the session's answer.
func (f *Flow) AnswerText() string {
	if f.Answer == models.AnswerYes {
		return f.Page.Invitation.YesText
	}
	return f.Page.Invitation.NoText
}

// Terminal reports whether no further input can change the flow.
func (f *Flow) Terminal() bool {
	switch f.Phase {
	case PhaseFailed, PhaseAlreadyResponded, PhaseSubmitted:
		return true
	}
	return false
}
