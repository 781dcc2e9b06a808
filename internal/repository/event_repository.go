package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Capstone-Eventify/Backend/internal/model"
)

// EventRepo provides CRUD operations for events. Capacity counters on
// the event row are never written here; the ledger owns them.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle for callers that open transactions.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventCols = `id, organizer_id, title, description, venue, starts_at, ends_at,
	max_attendees, current_bookings, status, created_at, updated_at`

func scanEvent(s interface {
	Scan(dest ...any) error
}) (*model.Event, error) {
	var e model.Event
	err := s.Scan(&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Venue, &e.StartsAt, &e.EndsAt,
		&e.MaxAttendees, &e.CurrentBookings, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event in DRAFT status with zero bookings and
// populates the generated ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events (organizer_id, title, description, venue, starts_at, ends_at, max_attendees, current_bookings, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`
	res, err := r.db.ExecContext(ctx, q, e.OrganizerID, e.Title, e.Description, e.Venue,
		e.StartsAt.UTC(), e.EndsAt.UTC(), e.MaxAttendees, e.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID returns the event with the given ID or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	return scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventCols+` FROM events WHERE id = ?`, id))
}

// GetByIDTx is GetByID within an existing transaction. It does not lock
// the row; counter mutations go through the ledger's locking load.
func (r *EventRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Event, error) {
	return scanEvent(tx.QueryRowContext(ctx, `SELECT `+eventCols+` FROM events WHERE id = ?`, id))
}

// Update rewrites the mutable descriptive fields of an event. The write
// runs with the event row locked so a capacity shrink cannot race a
// concurrent booking: max_attendees never drops below current_bookings,
// which every booking reads under the same lock. Counters and organizer
// are untouched.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var bookings uint32
	err = tx.QueryRowContext(ctx,
		`SELECT current_bookings FROM events WHERE id = ? FOR UPDATE`, e.ID).Scan(&bookings)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEventNotFound
	}
	if err != nil {
		return err
	}
	if e.MaxAttendees < bookings {
		return ErrConflict
	}

	const q = `UPDATE events SET title = ?, description = ?, venue = ?, starts_at = ?, ends_at = ?, max_attendees = ?, status = ?
	           WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, e.Title, e.Description, e.Venue,
		e.StartsAt.UTC(), e.EndsAt.UTC(), e.MaxAttendees, e.Status, e.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	e.CurrentBookings = bookings
	return nil
}

// Delete removes an event. Tiers, tickets and waitlist entries cascade
// at the schema level.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ListLive returns all events whose persisted status is LIVE and whose
// end time has not passed, newest start first. This is the public
// browse listing.
func (r *EventRepo) ListLive(ctx context.Context, now time.Time) ([]model.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE status = 'LIVE' AND ends_at > ? ORDER BY starts_at ASC`
	return r.list(ctx, q, now.UTC())
}

// ListByOrganizer returns all events owned by the given organizer,
// newest first.
func (r *EventRepo) ListByOrganizer(ctx context.Context, organizerID uint64) ([]model.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE organizer_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, organizerID)
}

func (r *EventRepo) list(ctx context.Context, q string, args ...any) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CloseExpired transitions every LIVE event whose end time has passed
// to ENDED and returns how many rows changed. The statement is
// idempotent, which lets the background sweep run on a timer without
// coordination.
func (r *EventRepo) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `UPDATE events SET status = 'ENDED' WHERE status = 'LIVE' AND ends_at <= ?`
	res, err := r.db.ExecContext(ctx, q, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
