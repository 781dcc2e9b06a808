package model

import "time"

// SupportStatus enumerates the lifecycle of a support ticket. The
// values are lowercase on the wire and in the database.
type SupportStatus string

const (
	SupportOpen       SupportStatus = "open"
	SupportInProgress SupportStatus = "in_progress"
	SupportResolved   SupportStatus = "resolved"
	SupportClosed     SupportStatus = "closed"
)

// Terminal reports whether the ticket needs no further attention.
// Terminal transitions stamp ResolvedAt.
func (s SupportStatus) Terminal() bool {
	return s == SupportResolved || s == SupportClosed
}

// Support ticket priorities.
const (
	SupportPriorityLow    = "low"
	SupportPriorityMedium = "medium"
	SupportPriorityHigh   = "high"
)

// SupportTicket is a user's help request, worked by admins. It lives
// entirely outside the booking flows; nothing here touches capacity.
type SupportTicket struct {
	ID          uint64        // support_tickets.id
	UserID      uint64        // support_tickets.user_id
	Subject     string        // support_tickets.subject
	Description string        // support_tickets.description
	Category    string        // support_tickets.category
	Priority    string        // support_tickets.priority
	Status      SupportStatus // support_tickets.status
	Resolution  string        // support_tickets.resolution
	ResolvedAt  *time.Time    // support_tickets.resolved_at (nullable)
	CreatedAt   time.Time     // support_tickets.created_at
	UpdatedAt   time.Time     // support_tickets.updated_at
}
