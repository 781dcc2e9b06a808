package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Capstone-Eventify/Backend/internal/gateway"
	"github.com/Capstone-Eventify/Backend/internal/ledger"
	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/monitoring"
	"github.com/Capstone-Eventify/Backend/internal/queue"
	"github.com/Capstone-Eventify/Backend/internal/repository"
	"github.com/Capstone-Eventify/Backend/internal/utils"
)

const (
	defaultCurrency   = "USD"
	generalTicketType = "General"
)

// BookingService runs the atomic purchase workflow: charge the payment
// gateway, then reserve capacity, create the tickets and record the
// payment in one database transaction.
type BookingService struct {
	db        *sql.DB
	ledger    *ledger.Ledger
	events    *repository.EventRepo
	tiers     *repository.TierRepo
	tickets   *repository.TicketRepo
	payments  *repository.PaymentRepo
	users     *repository.UserRepo
	gateway   gateway.Gateway
	publisher *queue.Publisher
}

// NewBookingService wires a BookingService.
func NewBookingService(db *sql.DB, lg *ledger.Ledger, events *repository.EventRepo, tiers *repository.TierRepo,
	tickets *repository.TicketRepo, payments *repository.PaymentRepo, users *repository.UserRepo,
	gw gateway.Gateway, pub *queue.Publisher) *BookingService {
	return &BookingService{
		db: db, ledger: lg, events: events, tiers: tiers,
		tickets: tickets, payments: payments, users: users,
		gateway: gw, publisher: pub,
	}
}

// BookingRequest carries one purchase. TierID is nil for general
// admission, which is bound only by event capacity and charges nothing.
type BookingRequest struct {
	EventID       uint64
	TierID        *uint64
	Quantity      int
	AttendeeName  string
	AttendeeEmail string
	PromoCode     string
	Discount      decimal.Decimal
}

// BookingResult is the committed outcome of a purchase.
type BookingResult struct {
	OrderNumber string
	Tickets     []model.Ticket
	Payment     *model.Payment
}

// ConfirmBooking executes the purchase workflow and records its
// outcome metric.
func (s *BookingService) ConfirmBooking(ctx context.Context, userID uint64, req BookingRequest) (*BookingResult, error) {
	started := time.Now()
	res, err := s.confirm(ctx, userID, req)
	switch {
	case err == nil:
		monitoring.TrackBooking("confirmed", len(res.Tickets), time.Since(started))
	case isBookingRejection(err):
		monitoring.TrackBooking("rejected", 0, time.Since(started))
	default:
		monitoring.TrackBooking("failed", 0, time.Since(started))
	}
	return res, err
}

// isBookingRejection separates expected caller-side refusals from
// infrastructure failures, for the outcome metric only.
func isBookingRejection(err error) bool {
	return errors.Is(err, ledger.ErrCapacityExceeded) ||
		errors.Is(err, ledger.ErrTierSoldOut) ||
		errors.Is(err, ledger.ErrInvalidQuantity) ||
		errors.Is(err, ErrEventNotBookable) ||
		errors.Is(err, ErrTierInactive) ||
		errors.Is(err, repository.ErrEventNotFound) ||
		errors.Is(err, repository.ErrTierNotFound)
}

func (s *BookingService) confirm(ctx context.Context, userID uint64, req BookingRequest) (*BookingResult, error) {
	if req.Quantity < 1 {
		return nil, ledger.ErrInvalidQuantity
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if event.ComputedStatus(now) != model.EventLive {
		return nil, ErrEventNotBookable
	}

	price := decimal.Zero
	currency := defaultCurrency
	ticketType := generalTicketType
	if req.TierID != nil {
		tier, err := s.tiers.GetByID(ctx, *req.TierID)
		if err != nil {
			return nil, err
		}
		if tier.EventID != event.ID {
			return nil, repository.ErrTierNotFound
		}
		if !tier.IsActive {
			return nil, ErrTierInactive
		}
		// Unlocked precheck so a clearly sold-out request fails before
		// the card is charged. The authoritative check happens under
		// the row locks below.
		if int(tier.Available) < req.Quantity {
			return nil, ledger.ErrTierSoldOut
		}
		price = tier.Price
		currency = tier.Currency
		ticketType = tier.Name
	}
	if int(event.CurrentBookings)+req.Quantity > int(event.MaxAttendees) {
		return nil, ledger.ErrCapacityExceeded
	}

	total := price.Mul(decimal.NewFromInt(int64(req.Quantity)))
	discount := req.Discount
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(total) {
		discount = total
	}
	total = total.Sub(discount)

	orderNumber, err := utils.NewOrderNumber()
	if err != nil {
		return nil, err
	}

	var gatewayRef string
	if total.IsPositive() {
		capture, err := s.gateway.Capture(ctx, total, currency, map[string]string{
			"order_number": orderNumber,
			"event_id":     fmt.Sprintf("%d", event.ID),
			"user_id":      fmt.Sprintf("%d", userID),
		})
		if err != nil {
			return nil, err
		}
		gatewayRef = capture.Reference
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.abortAfterCapture(err, gatewayRef)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	counters, err := s.ledger.LockTx(ctx, tx, event.ID, req.TierID)
	if errors.Is(err, sql.ErrNoRows) {
		if req.TierID != nil {
			return nil, s.abortAfterCapture(repository.ErrTierNotFound, gatewayRef)
		}
		return nil, s.abortAfterCapture(repository.ErrEventNotFound, gatewayRef)
	}
	if err != nil {
		return nil, s.abortAfterCapture(err, gatewayRef)
	}
	if err := counters.Reserve(req.Quantity); err != nil {
		return nil, s.abortAfterCapture(err, gatewayRef)
	}

	attendeeName := req.AttendeeName
	if attendeeName == "" {
		attendeeName = user.FullName()
	}
	attendeeEmail := req.AttendeeEmail
	if attendeeEmail == "" {
		attendeeEmail = user.Email
	}

	tickets := make([]model.Ticket, 0, req.Quantity)
	ticketIDs := make([]uint64, 0, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		t := model.Ticket{
			EventID:     event.ID,
			AttendeeID:  userID,
			TierID:      req.TierID,
			TicketType:  ticketType,
			Price:       price,
			Currency:    currency,
			Status:      model.TicketConfirmed,
			OrderNumber: orderNumber,
			Meta: model.TicketMeta{
				AttendeeName:  attendeeName,
				AttendeeEmail: attendeeEmail,
				PromoCode:     req.PromoCode,
			},
		}
		if err := s.tickets.CreateTx(ctx, tx, &t); err != nil {
			return nil, s.abortAfterCapture(err, gatewayRef)
		}
		tickets = append(tickets, t)
		ticketIDs = append(ticketIDs, t.ID)
	}

	payment := &model.Payment{
		UserID:     userID,
		EventID:    event.ID,
		TicketID:   ticketIDs[0],
		Amount:     total,
		Currency:   currency,
		GatewayRef: gatewayRef,
		Method:     model.MethodCard,
		Status:     model.PaymentCompleted,
		Meta: model.PaymentMeta{
			OrderNumber: orderNumber,
			Quantity:    req.Quantity,
			TicketIDs:   ticketIDs,
			PromoCode:   req.PromoCode,
		},
	}
	if discount.IsPositive() {
		d := discount
		payment.Meta.Discount = &d
	}
	if err := s.payments.CreateTx(ctx, tx, payment); err != nil {
		return nil, s.abortAfterCapture(err, gatewayRef)
	}

	if err := s.ledger.SaveTx(ctx, tx, event.ID, req.TierID, counters); err != nil {
		return nil, s.abortAfterCapture(err, gatewayRef)
	}
	if err := tx.Commit(); err != nil {
		return nil, s.abortAfterCapture(err, gatewayRef)
	}
	committed = true

	_ = s.publisher.TicketsBooked(ctx, queue.TicketsBookedEvent{
		OrderNumber: orderNumber,
		EventID:     event.ID,
		EventTitle:  event.Title,
		OrganizerID: event.OrganizerID,
		UserID:      userID,
		UserName:    user.FullName(),
		TicketIDs:   ticketIDs,
		Quantity:    req.Quantity,
		TierName:    ticketType,
		Amount:      total.String(),
		Currency:    currency,
		BookedAt:    now.Format(time.RFC3339),
	})

	return &BookingResult{OrderNumber: orderNumber, Tickets: tickets, Payment: payment}, nil
}

// abortAfterCapture annotates a post-capture failure with the gateway
// reference so the charge can be reconciled by hand. A rolled back
// transaction leaves counters and rows untouched, but the money has
// already moved.
func (s *BookingService) abortAfterCapture(err error, gatewayRef string) error {
	if gatewayRef == "" {
		return err
	}
	log.Printf("booking: transaction aborted after capture %s, manual refund required: %v", gatewayRef, err)
	return fmt.Errorf("%w (captured charge %s requires reconciliation)", err, gatewayRef)
}
