package model

import "time"

// Notification types written by the queue consumer.
const (
	NotifyBookingConfirmed  = "booking_confirmed"
	NotifyWaitlistPromoted  = "waitlist_promoted"
	NotifyWaitlistReviewed  = "waitlist_reviewed"
	NotifyTicketRefunded    = "ticket_refunded"
	NotifyOrganizerActivity = "organizer_activity"
)

// Notification is an in-app notification row. Delivery is best-effort:
// rows are written by the background consumer after the originating
// transaction has committed, never inside it.
type Notification struct {
	ID        uint64     // notifications.id
	UserID    uint64     // notifications.user_id
	Type      string     // notifications.type
	Title     string     // notifications.title
	Message   string     // notifications.message
	Link      string     // notifications.link
	ReadAt    *time.Time // notifications.read_at (nullable)
	CreatedAt time.Time  // notifications.created_at
}
