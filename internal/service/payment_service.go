package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/Capstone-Eventify/Backend/internal/gateway"
	"github.com/Capstone-Eventify/Backend/internal/ledger"
	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/monitoring"
	"github.com/Capstone-Eventify/Backend/internal/queue"
	"github.com/Capstone-Eventify/Backend/internal/repository"
)

// PaymentService runs the refund workflow and serves payment history.
// Refunds are gateway-first: the processor must confirm before any
// state changes, so a gateway failure leaves the payment untouched.
type PaymentService struct {
	db        *sql.DB
	ledger    *ledger.Ledger
	events    *repository.EventRepo
	tickets   *repository.TicketRepo
	payments  *repository.PaymentRepo
	gateway   gateway.Gateway
	publisher *queue.Publisher
}

// NewPaymentService wires a PaymentService.
func NewPaymentService(db *sql.DB, lg *ledger.Ledger, events *repository.EventRepo,
	tickets *repository.TicketRepo, payments *repository.PaymentRepo,
	gw gateway.Gateway, pub *queue.Publisher) *PaymentService {
	return &PaymentService{db: db, ledger: lg, events: events, tickets: tickets, payments: payments, gateway: gw, publisher: pub}
}

// RefundRequest identifies the payment to refund by the ticket it
// settled or by a payment reference (internal ID or gateway reference).
type RefundRequest struct {
	TicketID   uint64
	PaymentRef string
	Reason     string
}

// Refund reverses a payment: the gateway confirms first, then one
// transaction marks the payment and its ticket REFUNDED and releases
// the ticket's slot back to the event and tier.
func (s *PaymentService) Refund(ctx context.Context, userID uint64, req RefundRequest) (*model.Payment, error) {
	payment, err := s.payments.FindForRefund(ctx, userID, req.TicketID, req.PaymentRef)
	if err != nil {
		return nil, err
	}
	if payment.Status == model.PaymentRefunded {
		return nil, ErrAlreadyRefunded
	}
	if payment.GatewayRef == "" || !payment.Amount.IsPositive() {
		return nil, ErrNotRefundable
	}

	result, err := s.gateway.Refund(ctx, payment.GatewayRef, req.Reason)
	if err != nil {
		monitoring.TrackRefund("gateway_failed")
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	payment, err = s.payments.GetForUpdateTx(ctx, tx, payment.ID)
	if err != nil {
		return nil, err
	}
	if payment.Status == model.PaymentRefunded {
		return nil, ErrAlreadyRefunded
	}
	ticket, err := s.tickets.GetForUpdateTx(ctx, tx, payment.TicketID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetByIDTx(ctx, tx, payment.EventID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payment.Status = model.PaymentRefunded
	payment.Meta.Refund = &model.RefundRecord{
		RefundID:      result.RefundID,
		Reason:        req.Reason,
		GatewayReason: result.Reason,
		RequestedBy:   userID,
		RefundedAt:    now,
	}
	if err := s.payments.UpdateStatusTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	// A ticket already cancelled as a no-show or manually has given its
	// slot back; only an active ticket releases capacity here.
	release := ticket.Status.Releasable()
	ticket.Status = model.TicketRefunded
	if err := s.tickets.UpdateStatusTx(ctx, tx, ticket); err != nil {
		return nil, err
	}
	if release {
		counters, err := s.ledger.LockTx(ctx, tx, ticket.EventID, ticket.TierID)
		if err != nil {
			return nil, err
		}
		if err := counters.Release(1); err != nil {
			return nil, err
		}
		if err := s.ledger.SaveTx(ctx, tx, ticket.EventID, ticket.TierID, counters); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	monitoring.TrackRefund("refunded")

	_ = s.publisher.TicketRefunded(ctx, queue.TicketRefundedEvent{
		EventID:    event.ID,
		EventTitle: event.Title,
		UserID:     payment.UserID,
		TicketID:   ticket.ID,
		RefundID:   result.RefundID,
		Amount:     payment.Amount.String(),
		Currency:   payment.Currency,
		RefundedAt: now.Format(time.RFC3339),
	})
	return payment, nil
}

// Get returns one payment. Only the payer and admins may read it.
func (s *PaymentService) Get(ctx context.Context, actorID uint64, actorRole string, paymentID uint64) (*model.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != actorID && actorRole != model.RoleAdmin {
		return nil, repository.ErrForbidden
	}
	return payment, nil
}

// History returns the caller's payments, newest first.
func (s *PaymentService) History(ctx context.Context, userID uint64) ([]model.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}
