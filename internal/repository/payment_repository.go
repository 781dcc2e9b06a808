package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Capstone-Eventify/Backend/internal/model"
)

// PaymentRepo provides data access to the payments table.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentCols = `id, user_id, event_id, ticket_id, amount, currency, gateway_ref, method, status, metadata, created_at, updated_at`

func scanPayment(s interface {
	Scan(dest ...any) error
}) (*model.Payment, error) {
	var p model.Payment
	var meta []byte
	err := s.Scan(&p.ID, &p.UserID, &p.EventID, &p.TicketID, &p.Amount, &p.Currency,
		&p.GatewayRef, &p.Method, &p.Status, &meta, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &p.Meta); err != nil {
			return nil, fmt.Errorf("decode payment metadata: %w", err)
		}
	}
	return &p, nil
}

// CreateTx inserts a payment row within the provided transaction and
// populates the generated ID.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	meta, err := json.Marshal(p.Meta)
	if err != nil {
		return fmt.Errorf("encode payment metadata: %w", err)
	}
	const q = `INSERT INTO payments (user_id, event_id, ticket_id, amount, currency, gateway_ref, method, status, metadata)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.UserID, p.EventID, p.TicketID, p.Amount, p.Currency,
		p.GatewayRef, p.Method, p.Status, meta)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID returns the payment with the given ID or ErrPaymentNotFound.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	return scanPayment(r.db.QueryRowContext(ctx, `SELECT `+paymentCols+` FROM payments WHERE id = ?`, id))
}

// FindForRefund locates the payment a refund request targets. Callers
// supply either a ticket ID or a payment ID (internal or gateway
// reference); the row must belong to the requesting user.
func (r *PaymentRepo) FindForRefund(ctx context.Context, userID uint64, ticketID uint64, paymentRef string) (*model.Payment, error) {
	if ticketID != 0 {
		const q = `SELECT ` + paymentCols + ` FROM payments WHERE ticket_id = ? AND user_id = ?`
		return scanPayment(r.db.QueryRowContext(ctx, q, ticketID, userID))
	}
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE (id = ? OR gateway_ref = ?) AND user_id = ?`
	return scanPayment(r.db.QueryRowContext(ctx, q, paymentRef, paymentRef, userID))
}

// GetForUpdateTx loads a payment under a row lock for the refund
// transaction.
func (r *PaymentRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE id = ? FOR UPDATE`
	return scanPayment(tx.QueryRowContext(ctx, q, id))
}

// UpdateStatusTx rewrites a payment's status and metadata within the
// provided transaction. The refund workflow uses it to stamp the
// refund provenance alongside the REFUNDED transition.
func (r *PaymentRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	meta, err := json.Marshal(p.Meta)
	if err != nil {
		return fmt.Errorf("encode payment metadata: %w", err)
	}
	const q = `UPDATE payments SET status = ?, metadata = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, p.Status, meta, p.ID); err != nil {
		return err
	}
	return nil
}

// ListByUser returns a user's payment history, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
