package models

import "time"

// Answer is a recipient's recorded reply to an invitation.
type Answer string

const (
	AnswerYes Answer = "yes"
	AnswerNo  Answer = "no"
)

// Invitation is a server-owned invitation aggregate. The client only
// reads it: counters, expiry and display fields for the dashboard.
type Invitation struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	EventType   string     `json:"event_type"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	Location    string     `json:"location,omitempty"`
	YesText     string     `json:"yes_text"`
	NoText      string     `json:"no_text"`
	CreatorID   int        `json:"creator_id"`
	CreatorName string     `json:"creator_name,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	TotalSent     int `json:"total_sent"`
	TotalYes      int `json:"total_yes"`
	TotalNo       int `json:"total_no"`
	TotalPending  int `json:"total_pending"`
	TotalMessages int `json:"total_messages"`
}

// Expired reports whether the invitation can no longer be answered.
// Invitations without an expiry never expire.
func (inv Invitation) Expired(now time.Time) bool {
	return inv.ExpiresAt != nil && !inv.ExpiresAt.After(now)
}

// ResponseRate returns the answered share of sent invitations as a
// percentage, 0 when nothing was sent yet.
func (inv Invitation) ResponseRate() float64 {
	if inv.TotalSent == 0 {
		return 0
	}
	return float64(inv.TotalYes+inv.TotalNo) / float64(inv.TotalSent) * 100
}

// RecipientInput is one {name, phone} pair in a create request.
type RecipientInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CreateInvitation is the payload for POST /invitations, produced from
// a finished draft. The hosted service issues per-recipient response
// links and delivers the SMS messages.
type CreateInvitation struct {
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	EventType     string           `json:"event_type"`
	EventDate     *time.Time       `json:"event_date,omitempty"`
	Location      string           `json:"location,omitempty"`
	YesText       string           `json:"yes_text"`
	NoText        string           `json:"no_text"`
	TemplateStyle string           `json:"template_style,omitempty"`
	Recipients    []RecipientInput `json:"recipients"`
	ExpiresAt     *time.Time       `json:"expires_at,omitempty"`
}

// ResponseDetail is one recipient's row in an invitation detail view.
type ResponseDetail struct {
	ID             int        `json:"id"`
	RecipientName  string     `json:"recipient_name"`
	RecipientPhone string     `json:"recipient_phone"`
	Answer         Answer     `json:"answer,omitempty"`
	ResponseLink   string     `json:"response_link,omitempty"`
	ViewedAt       *time.Time `json:"viewed_at,omitempty"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
}

// Message is a note a recipient attached to their response.
type Message struct {
	ID         int       `json:"id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Statistics summarizes response activity for one invitation.
type Statistics struct {
	TotalSent      int     `json:"total_sent"`
	TotalResponded int     `json:"total_responded"`
	TotalYes       int     `json:"total_yes"`
	TotalNo        int     `json:"total_no"`
	TotalViewed    int     `json:"total_viewed"`
	ResponseRate   float64 `json:"response_rate"`
}

// InvitationDetail is the full detail view for one invitation.
type InvitationDetail struct {
	Invitation Invitation       `json:"invitation"`
	Responses  []ResponseDetail `json:"responses"`
	Messages   []Message        `json:"messages"`
	Statistics Statistics       `json:"statistics"`
}
