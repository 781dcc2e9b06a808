package ledger

import (
	"context"
	"database/sql"
)

// Ledger loads and persists capacity counters under row locks. All
// methods operate within a caller-supplied transaction: two concurrent
// operations against the same (event, tier) pair serialize on the
// SELECT ... FOR UPDATE of the event row, so they can never both
// observe the same pre-release availability and overrun capacity.
type Ledger struct {
	db *sql.DB
}

// New returns a Ledger bound to the given database.
func New(db *sql.DB) *Ledger { return &Ledger{db: db} }

// DB exposes the underlying handle so services can open the
// transaction the ledger participates in.
func (l *Ledger) DB() *sql.DB { return l.db }

// LockTx loads the counters for an event and, when tierID is non-nil,
// its tier, locking both rows for the remainder of the transaction.
// It returns sql.ErrNoRows when the event or tier does not exist;
// callers map that to their own not-found error.
func (l *Ledger) LockTx(ctx context.Context, tx *sql.Tx, eventID uint64, tierID *uint64) (*Counters, error) {
	c := &Counters{}
	const evQ = `SELECT max_attendees, current_bookings FROM events WHERE id = ? FOR UPDATE`
	if err := tx.QueryRowContext(ctx, evQ, eventID).Scan(&c.MaxAttendees, &c.CurrentBookings); err != nil {
		return nil, err
	}
	if tierID != nil {
		const tierQ = `SELECT quantity, available FROM ticket_tiers WHERE id = ? AND event_id = ? FOR UPDATE`
		if err := tx.QueryRowContext(ctx, tierQ, *tierID, eventID).Scan(&c.TierQuantity, &c.TierAvailable); err != nil {
			return nil, err
		}
		c.HasTier = true
	}
	return c, nil
}

// SaveTx writes the counters back to the locked rows. It must be
// called with the same (eventID, tierID) pair the snapshot was locked
// with, inside the same transaction.
func (l *Ledger) SaveTx(ctx context.Context, tx *sql.Tx, eventID uint64, tierID *uint64, c *Counters) error {
	const evQ = `UPDATE events SET current_bookings = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, evQ, c.CurrentBookings, eventID); err != nil {
		return err
	}
	if tierID != nil && c.HasTier {
		const tierQ = `UPDATE ticket_tiers SET available = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, tierQ, c.TierAvailable, *tierID); err != nil {
			return err
		}
	}
	return nil
}
