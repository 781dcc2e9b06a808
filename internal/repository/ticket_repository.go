package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Capstone-Eventify/Backend/internal/model"
)

// TicketRepo provides data access to the tickets table. Status
// transitions that affect capacity always happen inside a transaction
// together with the ledger's counter updates, which is why most
// mutating methods are Tx variants.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketCols = `id, event_id, attendee_id, tier_id, ticket_type, price, currency, status,
	order_number, qr_code, checked_in, checked_in_at, metadata, created_at, updated_at`

func scanTicket(s interface {
	Scan(dest ...any) error
}) (*model.Ticket, error) {
	var t model.Ticket
	var tierID sql.NullInt64
	var checkedInAt sql.NullTime
	var meta []byte
	err := s.Scan(&t.ID, &t.EventID, &t.AttendeeID, &tierID, &t.TicketType, &t.Price, &t.Currency, &t.Status,
		&t.OrderNumber, &t.QRCode, &t.CheckedIn, &checkedInAt, &meta, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	if tierID.Valid {
		id := uint64(tierID.Int64)
		t.TierID = &id
	}
	if checkedInAt.Valid {
		ts := checkedInAt.Time
		t.CheckedInAt = &ts
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &t.Meta); err != nil {
			return nil, fmt.Errorf("decode ticket metadata: %w", err)
		}
	}
	return &t, nil
}

// CreateTx inserts a ticket within the scope of an existing transaction
// and stamps its QR code with its own generated identifier, so a
// scanned code resolves with a primary key lookup. The caller must
// commit or roll back the transaction.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	meta, err := json.Marshal(t.Meta)
	if err != nil {
		return fmt.Errorf("encode ticket metadata: %w", err)
	}
	var tierID any
	if t.TierID != nil {
		tierID = *t.TierID
	}
	const q = `INSERT INTO tickets (event_id, attendee_id, tier_id, ticket_type, price, currency, status, order_number, qr_code, metadata)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, '', ?)`
	res, err := tx.ExecContext(ctx, q, t.EventID, t.AttendeeID, tierID, t.TicketType, t.Price, t.Currency,
		t.Status, t.OrderNumber, meta)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	t.QRCode = fmt.Sprintf("%d", t.ID)
	if _, err := tx.ExecContext(ctx, `UPDATE tickets SET qr_code = ? WHERE id = ?`, t.QRCode, t.ID); err != nil {
		return err
	}
	return nil
}

// GetByID returns the ticket with the given ID or ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	return scanTicket(r.db.QueryRowContext(ctx, `SELECT `+ticketCols+` FROM tickets WHERE id = ?`, id))
}

// GetForUpdateTx loads a ticket under a row lock so its status cannot
// change underneath the no-show, restore, cancel and refund workflows.
func (r *TicketRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets WHERE id = ? FOR UPDATE`
	return scanTicket(tx.QueryRowContext(ctx, q, id))
}

// UpdateStatusTx rewrites a ticket's status and metadata within the
// provided transaction. The metadata carries the provenance record for
// the transition (no-show, restore, promotion, refund).
func (r *TicketRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	meta, err := json.Marshal(t.Meta)
	if err != nil {
		return fmt.Errorf("encode ticket metadata: %w", err)
	}
	const q = `UPDATE tickets SET status = ?, metadata = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, t.Status, meta, t.ID); err != nil {
		return err
	}
	return nil
}

// SetCheckedIn marks a ticket as scanned in at the given instant.
func (r *TicketRepo) SetCheckedIn(ctx context.Context, id uint64, at time.Time) error {
	const q = `UPDATE tickets SET checked_in = 1, checked_in_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, at.UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// ListByAttendee returns all tickets held by a user, newest first.
func (r *TicketRepo) ListByAttendee(ctx context.Context, attendeeID uint64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets WHERE attendee_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, attendeeID)
}

// ListByEvent returns all tickets of an event, oldest first, for the
// organizer's attendee roster.
func (r *TicketRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets WHERE event_id = ? ORDER BY created_at ASC`
	return r.list(ctx, q, eventID)
}

func (r *TicketRepo) list(ctx context.Context, q string, args ...any) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}
