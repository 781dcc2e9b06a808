package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/Capstone-Eventify/Backend/internal/model"
)

// WaitlistRepo provides data access to the waitlist_entries table. The
// table carries a unique index on (event_id, user_id, tier_id); the
// FIFO order of the queue is established by requested_at.
type WaitlistRepo struct {
	db *sql.DB
}

// NewWaitlistRepo returns a new WaitlistRepo bound to the given database.
func NewWaitlistRepo(db *sql.DB) *WaitlistRepo { return &WaitlistRepo{db: db} }

const waitlistCols = `id, event_id, tier_id, user_id, quantity, status, notes, requested_at, updated_at`

func scanWaitlist(s interface {
	Scan(dest ...any) error
}) (*model.WaitlistEntry, error) {
	var w model.WaitlistEntry
	err := s.Scan(&w.ID, &w.EventID, &w.TierID, &w.UserID, &w.Quantity, &w.Status, &w.Notes, &w.RequestedAt, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWaitlistNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create inserts a pending waitlist entry. The unique index rejects a
// second entry for the same (event, user, tier) triple; violations are
// reported as ErrAlreadyWaitlisted so the duplicate check holds even
// when two joins race.
func (r *WaitlistRepo) Create(ctx context.Context, w *model.WaitlistEntry) error {
	const q = `INSERT INTO waitlist_entries (event_id, tier_id, user_id, quantity, status, notes)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, w.EventID, w.TierID, w.UserID, w.Quantity, w.Status, w.Notes)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrAlreadyWaitlisted
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	return nil
}

// GetByID returns the entry with the given ID or ErrWaitlistNotFound.
func (r *WaitlistRepo) GetByID(ctx context.Context, id uint64) (*model.WaitlistEntry, error) {
	return scanWaitlist(r.db.QueryRowContext(ctx, `SELECT `+waitlistCols+` FROM waitlist_entries WHERE id = ?`, id))
}

// Exists reports whether a (event, user, tier) entry is already present.
func (r *WaitlistRepo) Exists(ctx context.Context, eventID, userID, tierID uint64) (bool, error) {
	const q = `SELECT 1 FROM waitlist_entries WHERE event_id = ? AND user_id = ? AND tier_id = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, eventID, userID, tierID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PendingByTierTx returns the pending entries for one (event, tier)
// pair in strict requested_at order, locking them for the remainder of
// the transaction. This is the sole dequeue path: the promotion
// workflow takes the head of the returned slice, so two concurrent
// no-shows cannot promote the same entry.
func (r *WaitlistRepo) PendingByTierTx(ctx context.Context, tx *sql.Tx, eventID, tierID uint64) ([]model.WaitlistEntry, error) {
	const q = `SELECT ` + waitlistCols + ` FROM waitlist_entries
	           WHERE event_id = ? AND tier_id = ? AND status = 'pending'
	           ORDER BY requested_at ASC, id ASC
	           FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, eventID, tierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.WaitlistEntry, 0)
	for rows.Next() {
		w, err := scanWaitlist(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateStatusTx rewrites an entry's status and notes within the
// provided transaction.
func (r *WaitlistRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.WaitlistStatus, notes string) error {
	const q = `UPDATE waitlist_entries SET status = ?, notes = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, status, notes, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrWaitlistNotFound
	}
	return nil
}

// UpdateStatus is UpdateStatusTx outside a transaction, for the manual
// organizer review path.
func (r *WaitlistRepo) UpdateStatus(ctx context.Context, id uint64, status model.WaitlistStatus, notes string) error {
	const q = `UPDATE waitlist_entries SET status = ?, notes = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, notes, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrWaitlistNotFound
	}
	return nil
}

// Delete removes an entry (user withdrawal or admin cleanup).
func (r *WaitlistRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM waitlist_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrWaitlistNotFound
	}
	return nil
}

// ListByEvent returns all entries for an event in FIFO order, for the
// organizer's review screen.
func (r *WaitlistRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.WaitlistEntry, error) {
	const q = `SELECT ` + waitlistCols + ` FROM waitlist_entries WHERE event_id = ? ORDER BY requested_at ASC`
	return r.list(ctx, q, eventID)
}

// ListByUser returns a user's own entries, newest first.
func (r *WaitlistRepo) ListByUser(ctx context.Context, userID uint64) ([]model.WaitlistEntry, error) {
	const q = `SELECT ` + waitlistCols + ` FROM waitlist_entries WHERE user_id = ? ORDER BY requested_at DESC`
	return r.list(ctx, q, userID)
}

func (r *WaitlistRepo) list(ctx context.Context, q string, args ...any) ([]model.WaitlistEntry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.WaitlistEntry, 0)
	for rows.Next() {
		w, err := scanWaitlist(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
