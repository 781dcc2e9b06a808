package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Capstone-Eventify/Backend/internal/model"
)

// SupportRepo provides data access to the support_tickets table.
type SupportRepo struct {
	db *sql.DB
}

// NewSupportRepo returns a new SupportRepo bound to the given database.
func NewSupportRepo(db *sql.DB) *SupportRepo { return &SupportRepo{db: db} }

const supportCols = `id, user_id, subject, description, category, priority, status, resolution, resolved_at, created_at, updated_at`

func scanSupport(s interface {
	Scan(dest ...any) error
}) (*model.SupportTicket, error) {
	var t model.SupportTicket
	var resolution sql.NullString
	var resolvedAt sql.NullTime
	err := s.Scan(&t.ID, &t.UserID, &t.Subject, &t.Description, &t.Category, &t.Priority,
		&t.Status, &resolution, &resolvedAt, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSupportNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Resolution = resolution.String
	if resolvedAt.Valid {
		t.ResolvedAt = &resolvedAt.Time
	}
	return &t, nil
}

// Create inserts an open ticket and populates the generated ID.
func (r *SupportRepo) Create(ctx context.Context, t *model.SupportTicket) error {
	const q = `INSERT INTO support_tickets (user_id, subject, description, category, priority, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.UserID, t.Subject, t.Description, t.Category, t.Priority, t.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID returns the ticket with the given ID or ErrSupportNotFound.
func (r *SupportRepo) GetByID(ctx context.Context, id uint64) (*model.SupportTicket, error) {
	return scanSupport(r.db.QueryRowContext(ctx, `SELECT `+supportCols+` FROM support_tickets WHERE id = ?`, id))
}

// ListByUser returns a user's own tickets, newest first.
func (r *SupportRepo) ListByUser(ctx context.Context, userID uint64) ([]model.SupportTicket, error) {
	const q = `SELECT ` + supportCols + ` FROM support_tickets WHERE user_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

// ListAll returns every ticket for the admin desk, newest first.
func (r *SupportRepo) ListAll(ctx context.Context) ([]model.SupportTicket, error) {
	const q = `SELECT ` + supportCols + ` FROM support_tickets ORDER BY created_at DESC`
	return r.list(ctx, q)
}

// Update rewrites the admin-managed fields of a ticket.
func (r *SupportRepo) Update(ctx context.Context, t *model.SupportTicket) error {
	const q = `UPDATE support_tickets SET status = ?, priority = ?, resolution = ?, resolved_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Status, t.Priority, t.Resolution, t.ResolvedAt, t.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSupportNotFound
	}
	return nil
}

func (r *SupportRepo) list(ctx context.Context, q string, args ...any) ([]model.SupportTicket, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.SupportTicket, 0)
	for rows.Next() {
		t, err := scanSupport(rows)
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
