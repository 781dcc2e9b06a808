// Package ledger owns the consistency of the denormalized capacity
// counters: events.current_bookings and ticket_tiers.available. Every
// mutation path (booking, cancellation, refund, no-show, restore)
// funnels through Reserve/Release so no caller can bypass the
// invariants by writing a counter directly. The arithmetic is kept on a
// plain value type so the rules are testable without a database; the
// row locking and persistence live in ledger.go.
package ledger

import "errors"

// Sentinel errors surfaced to callers. Handlers translate them into
// HTTP statuses; services abort the enclosing transaction when one is
// returned.
var (
	// ErrCapacityExceeded means the event-level capacity would be
	// exceeded by the requested reservation or restore.
	ErrCapacityExceeded = errors.New("event capacity exceeded")

	// ErrTierSoldOut means tier-level availability is insufficient for
	// the requested quantity.
	ErrTierSoldOut = errors.New("ticket tier sold out")

	// ErrAlreadyReleased means a release was attempted for a slot that
	// was already given back; honoring it would double-increment
	// availability.
	ErrAlreadyReleased = errors.New("capacity already released")

	// ErrInvalidQuantity means the requested quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Counters is a snapshot of the contended capacity counters for one
// (event, tier) pair, loaded under a row lock. HasTier is false for
// general-admission operations that are bound only by event capacity.
//
// Invariants after every successful operation:
//
//	0 <= TierAvailable <= TierQuantity
//	0 <= CurrentBookings <= MaxAttendees
type Counters struct {
	MaxAttendees    int
	CurrentBookings int
	TierQuantity    int
	TierAvailable   int
	HasTier         bool
}

// Reserve takes qty slots: it decrements tier availability and
// increments event bookings. Both preconditions are checked before
// either counter moves, so a failed reserve leaves the snapshot
// untouched and the caller must abort the surrounding operation.
func (c *Counters) Reserve(qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if c.HasTier && c.TierAvailable < qty {
		return ErrTierSoldOut
	}
	if c.CurrentBookings+qty > c.MaxAttendees {
		return ErrCapacityExceeded
	}
	if c.HasTier {
		c.TierAvailable -= qty
	}
	c.CurrentBookings += qty
	return nil
}

// Release gives qty slots back: the inverse of Reserve. Releasing more
// than was ever reserved would push a counter past its bound, which
// indicates a double release; the snapshot is left untouched and
// ErrAlreadyReleased is returned.
func (c *Counters) Release(qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if c.HasTier && c.TierAvailable+qty > c.TierQuantity {
		return ErrAlreadyReleased
	}
	if c.CurrentBookings-qty < 0 {
		return ErrAlreadyReleased
	}
	if c.HasTier {
		c.TierAvailable += qty
	}
	c.CurrentBookings -= qty
	return nil
}

// Remaining returns how many slots the event can still accept.
func (c *Counters) Remaining() int {
	return c.MaxAttendees - c.CurrentBookings
}
