// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into in-app
// notifications. Publishing is fire-and-forget: a broker outage never
// rolls back a committed booking or promotion.
package queue

// Queue names. One durable queue per event type keeps the consumer
// loop simple.
const (
	TicketsBookedQueue    = "tickets.booked"
	WaitlistPromotedQueue = "waitlist.promoted"
	TicketRefundedQueue   = "ticket.refunded"
)

// TicketsBookedEvent is published when a booking transaction commits.
// It carries enough information for downstream consumers to notify the
// buyer and the organizer without querying the primary database.
type TicketsBookedEvent struct {
	OrderNumber string   `json:"order_number"`
	EventID     uint64   `json:"event_id"`
	EventTitle  string   `json:"event_title"`
	OrganizerID uint64   `json:"organizer_id"`
	UserID      uint64   `json:"user_id"`
	UserName    string   `json:"user_name"`
	TicketIDs   []uint64 `json:"ticket_ids"`
	Quantity    int      `json:"quantity"`
	TierName    string   `json:"tier_name"`
	Amount      string   `json:"amount"`
	Currency    string   `json:"currency"`
	BookedAt    string   `json:"booked_at"`
}

// WaitlistPromotedEvent is published when a no-show frees a slot and a
// waitlisted user is promoted into it.
type WaitlistPromotedEvent struct {
	EventID          uint64 `json:"event_id"`
	EventTitle       string `json:"event_title"`
	OrganizerID      uint64 `json:"organizer_id"`
	PromotedUserID   uint64 `json:"promoted_user_id"`
	PromotedUserName string `json:"promoted_user_name"`
	WaitlistEntryID  uint64 `json:"waitlist_entry_id"`
	NewTicketID      uint64 `json:"new_ticket_id"`
	ReplacedTicketID uint64 `json:"replaced_ticket_id"`
	OrderNumber      string `json:"order_number"`
	PromotedAt       string `json:"promoted_at"`
}

// TicketRefundedEvent is published after a refund transaction commits.
type TicketRefundedEvent struct {
	EventID    uint64 `json:"event_id"`
	EventTitle string `json:"event_title"`
	UserID     uint64 `json:"user_id"`
	TicketID   uint64 `json:"ticket_id"`
	RefundID   string `json:"refund_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	RefundedAt string `json:"refunded_at"`
}
