package model

import "time"

// EventStatus enumerates the lifecycle states of an event. DRAFT and
// CANCELLED are always set manually; LIVE events age into ENDED once
// their end time has passed.
type EventStatus string

const (
	EventDraft     EventStatus = "DRAFT"
	EventPublished EventStatus = "PUBLISHED"
	EventLive      EventStatus = "LIVE"
	EventEnded     EventStatus = "ENDED"
	EventCancelled EventStatus = "CANCELLED"
)

// Event represents a bookable event owned by one organizer. Capacity is
// tracked with a denormalized counter: CurrentBookings must never exceed
// MaxAttendees outside of a transaction that is about to roll back. All
// mutations of CurrentBookings go through the ledger.
//
// Fields:
//  ID              – primary key identifier.
//  OrganizerID     – user who owns the event.
//  Title           – display title.
//  Description     – free-form description.
//  Venue           – where the event takes place.
//  StartsAt        – when the event begins.
//  EndsAt          – when the event ends (must be after StartsAt).
//  MaxAttendees    – hard capacity limit.
//  CurrentBookings – number of seats currently booked.
//  Status          – lifecycle state, see EventStatus.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Event struct {
	ID              uint64      // events.id
	OrganizerID     uint64      // events.organizer_id
	Title           string      // events.title
	Description     string      // events.description
	Venue           string      // events.venue
	StartsAt        time.Time   // events.starts_at
	EndsAt          time.Time   // events.ends_at
	MaxAttendees    uint32      // events.max_attendees
	CurrentBookings uint32      // events.current_bookings
	Status          EventStatus // events.status
	CreatedAt       time.Time   // events.created_at
	UpdatedAt       time.Time   // events.updated_at
}

// ComputedStatus returns the effective status of the event at the given
// instant. Manual DRAFT and CANCELLED states take precedence; a LIVE
// event whose end time has passed is reported as ENDED even before the
// background sweep has persisted the transition.
func (e *Event) ComputedStatus(now time.Time) EventStatus {
	switch e.Status {
	case EventDraft, EventCancelled:
		return e.Status
	case EventLive:
		if now.After(e.EndsAt) {
			return EventEnded
		}
		return EventLive
	default:
		return e.Status
	}
}

// CanPublish reports whether the event may transition to LIVE. An event
// whose end time has already passed cannot be published.
func (e *Event) CanPublish(now time.Time) bool {
	return !now.After(e.EndsAt)
}
