package model

import "time"

// WaitlistStatus enumerates the states of a waitlist entry. The values
// are lowercase on the wire and in the database.
type WaitlistStatus string

const (
	WaitlistPending  WaitlistStatus = "pending"
	WaitlistApproved WaitlistStatus = "approved"
	WaitlistRejected WaitlistStatus = "rejected"
)

// WaitlistEntry is a user's place in the per-(event, tier) FIFO backlog.
// RequestedAt establishes the first-come-first-served order consulted by
// the promotion workflow. The (event, user, tier) triple is unique: a
// user may wait on several tiers of one event but cannot enter the same
// tier twice.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – event being waited on.
//  TierID      – tier being waited on.
//  UserID      – user who requested a spot.
//  Quantity    – requested ticket count (informational; promotion grants one).
//  Status      – see WaitlistStatus.
//  Notes       – free-form organizer/user notes.
//  RequestedAt – FIFO ordering timestamp.
//  UpdatedAt   – last update timestamp.
type WaitlistEntry struct {
	ID          uint64         // waitlist_entries.id
	EventID     uint64         // waitlist_entries.event_id
	TierID      uint64         // waitlist_entries.tier_id
	UserID      uint64         // waitlist_entries.user_id
	Quantity    uint32         // waitlist_entries.quantity
	Status      WaitlistStatus // waitlist_entries.status
	Notes       string         // waitlist_entries.notes
	RequestedAt time.Time      // waitlist_entries.requested_at
	UpdatedAt   time.Time      // waitlist_entries.updated_at
}
