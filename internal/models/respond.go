package models

import "time"

// ResponseInvitation is the invitation summary shown on the public
// response page. It deliberately omits counters and creator identity
// beyond a display name.
type ResponseInvitation struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	Location    string     `json:"location,omitempty"`
	YesText     string     `json:"yes_text"`
	NoText      string     `json:"no_text"`
	CreatorName string     `json:"creator_name"`
}

// ResponsePage is the payload of GET /respond/{link}: everything a
// recipient needs to answer, fetched without authentication.
type ResponsePage struct {
	Invitation     ResponseInvitation `json:"invitation"`
	RecipientName  string             `json:"recipient_name"`
	HasResponded   bool               `json:"has_responded"`
	PreviousAnswer Answer             `json:"previous_answer,omitempty"`
}
