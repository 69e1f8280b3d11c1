package models

// DashboardStats is the aggregate view served by /analytics/dashboard.
type DashboardStats struct {
	TotalInvitations   int            `json:"total_invitations"`
	TotalResponsesSent int            `json:"total_responses_sent"`
	ResponseRate       float64        `json:"response_rate"`
	PendingResponses   int            `json:"pending_responses"`
	TotalAccepted      int            `json:"total_accepted"`
	TotalDeclined      int            `json:"total_declined"`
	UnreadMessages     int            `json:"unread_messages"`
	RecentActivity     map[string]int `json:"recent_activity,omitempty"`
}
