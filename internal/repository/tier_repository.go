package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Capstone-Eventify/Backend/internal/model"
)

// TierRepo provides CRUD operations for ticket tiers. The available
// counter is written exclusively by the ledger; this repository only
// seeds it at creation time.
type TierRepo struct {
	db *sql.DB
}

// NewTierRepo returns a new TierRepo bound to the given database.
func NewTierRepo(db *sql.DB) *TierRepo { return &TierRepo{db: db} }

const tierCols = `id, event_id, name, description, price, currency, quantity, available, is_active, created_at, updated_at`

func scanTier(s interface {
	Scan(dest ...any) error
}) (*model.TicketTier, error) {
	var t model.TicketTier
	err := s.Scan(&t.ID, &t.EventID, &t.Name, &t.Description, &t.Price, &t.Currency,
		&t.Quantity, &t.Available, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTierNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new tier with available seeded to the full quantity
// and populates the generated ID.
func (r *TierRepo) Create(ctx context.Context, t *model.TicketTier) error {
	const q = `INSERT INTO ticket_tiers (event_id, name, description, price, currency, quantity, available, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.EventID, t.Name, t.Description, t.Price, t.Currency,
		t.Quantity, t.Quantity, t.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	t.Available = t.Quantity
	return nil
}

// GetByID returns the tier with the given ID or ErrTierNotFound.
func (r *TierRepo) GetByID(ctx context.Context, id uint64) (*model.TicketTier, error) {
	return scanTier(r.db.QueryRowContext(ctx, `SELECT `+tierCols+` FROM ticket_tiers WHERE id = ?`, id))
}

// GetForEventTx loads a tier within a transaction, verifying it belongs
// to the given event. Used by booking and waitlist flows before the
// ledger locks the counter rows.
func (r *TierRepo) GetForEventTx(ctx context.Context, tx *sql.Tx, tierID, eventID uint64) (*model.TicketTier, error) {
	const q = `SELECT ` + tierCols + ` FROM ticket_tiers WHERE id = ? AND event_id = ?`
	return scanTier(tx.QueryRowContext(ctx, q, tierID, eventID))
}

// ListByEvent returns the tiers of an event. When activeOnly is set,
// soft-deleted tiers are filtered out.
func (r *TierRepo) ListByEvent(ctx context.Context, eventID uint64, activeOnly bool) ([]model.TicketTier, error) {
	q := `SELECT ` + tierCols + ` FROM ticket_tiers WHERE event_id = ?`
	if activeOnly {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY price ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tiers := make([]model.TicketTier, 0)
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tiers, nil
}

// Update rewrites the descriptive fields and, when the allocation grows,
// extends availability by the same amount. Shrinking quantity below the
// sold count (quantity - available) is rejected with ErrConflict. The
// whole adjustment runs in one transaction with the tier row locked so
// it cannot race a concurrent booking.
func (r *TierRepo) Update(ctx context.Context, t *model.TicketTier) error {
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

	var quantity, available int64
	err = tx.QueryRowContext(ctx,
		`SELECT quantity, available FROM ticket_tiers WHERE id = ? FOR UPDATE`, t.ID).
		Scan(&quantity, &available)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTierNotFound
	}
	if err != nil {
		return err
	}

	sold := quantity - available
	if int64(t.Quantity) < sold {
		return ErrConflict
	}
	newAvailable := int64(t.Quantity) - sold

	const q = `UPDATE ticket_tiers SET name = ?, description = ?, price = ?, currency = ?, quantity = ?, available = ?, is_active = ?
	           WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, t.Name, t.Description, t.Price, t.Currency,
		t.Quantity, newAvailable, t.IsActive, t.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	t.Available = uint32(newAvailable)
	return nil
}

// Deactivate soft-deletes a tier. Existing tickets keep their reference;
// new bookings and waitlist joins are refused for inactive tiers.
func (r *TierRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE ticket_tiers SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTierNotFound
	}
	return nil
}
