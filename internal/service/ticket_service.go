package service

import (
	"context"
	"database/sql"
	"log"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Capstone-Eventify/Backend/internal/ledger"
	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/monitoring"
	"github.com/Capstone-Eventify/Backend/internal/queue"
	"github.com/Capstone-Eventify/Backend/internal/repository"
	"github.com/Capstone-Eventify/Backend/internal/utils"
)

// TicketService runs the ticket lifecycle workflows: no-show marking
// with waitlist promotion, no-show restore, manual cancellation and
// check-in. Every capacity-affecting transition happens in one
// transaction with the ledger's counter rows locked.
type TicketService struct {
	db        *sql.DB
	ledger    *ledger.Ledger
	events    *repository.EventRepo
	tiers     *repository.TierRepo
	tickets   *repository.TicketRepo
	payments  *repository.PaymentRepo
	waitlist  *repository.WaitlistRepo
	users     *repository.UserRepo
	publisher *queue.Publisher
}

// NewTicketService wires a TicketService.
func NewTicketService(db *sql.DB, lg *ledger.Ledger, events *repository.EventRepo, tiers *repository.TierRepo,
	tickets *repository.TicketRepo, payments *repository.PaymentRepo, waitlist *repository.WaitlistRepo,
	users *repository.UserRepo, pub *queue.Publisher) *TicketService {
	return &TicketService{
		db: db, ledger: lg, events: events, tiers: tiers,
		tickets: tickets, payments: payments, waitlist: waitlist,
		users: users, publisher: pub,
	}
}

// canManage reports whether the actor may run organizer operations on
// the event. Admins may manage any event.
func canManage(event *model.Event, actorID uint64, actorRole string) bool {
	return actorRole == model.RoleAdmin || event.OrganizerID == actorID
}

// promotionTicket builds the replacement ticket for a waitlist
// promotion. It keeps the vacated slot's price and type so the roster
// and revenue figures stay consistent; the promotion itself charges
// nothing, which the zero-amount payment records.
func promotionTicket(vacated *model.Ticket, tier *model.TicketTier, user *model.User,
	entry *model.WaitlistEntry, orderNumber string, now time.Time) *model.Ticket {
	return &model.Ticket{
		EventID:     vacated.EventID,
		AttendeeID:  entry.UserID,
		TierID:      vacated.TierID,
		TicketType:  tier.Name,
		Price:       vacated.Price,
		Currency:    tier.Currency,
		Status:      model.TicketConfirmed,
		OrderNumber: orderNumber,
		Meta: model.TicketMeta{
			AttendeeName:  user.FullName(),
			AttendeeEmail: user.Email,
			Promotion: &model.PromotionRecord{
				WaitlistEntryID:  entry.ID,
				ReplacedTicketID: vacated.ID,
				PromotedAt:       now,
			},
		},
	}
}

// NoShowResult is the committed outcome of marking a no-show. Promoted
// and PromotedEntry are nil when the freed slot found no taker.
type NoShowResult struct {
	Ticket        *model.Ticket
	Promoted      *model.Ticket
	PromotedEntry *model.WaitlistEntry
}

// MarkNoShow cancels a ticket as a no-show and, in the same
// transaction, promotes the longest-waiting pending entry of the same
// tier into the freed slot. Releasing and re-reserving under one lock
// means the slot is never visible to a concurrent booking in between.
func (s *TicketService) MarkNoShow(ctx context.Context, actorID uint64, actorRole string, ticketID uint64) (*NoShowResult, error) {
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

	ticket, err := s.tickets.GetForUpdateTx(ctx, tx, ticketID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetByIDTx(ctx, tx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	if !canManage(event, actorID, actorRole) {
		return nil, repository.ErrForbidden
	}
	if !ticket.Status.Releasable() {
		return nil, ErrTicketNotActive
	}

	now := time.Now().UTC()
	ticket.Status = model.TicketCancelledNoShow
	ticket.Meta.NoShow = &model.NoShowRecord{MarkedBy: actorID, MarkedAt: now}
	if err := s.tickets.UpdateStatusTx(ctx, tx, ticket); err != nil {
		return nil, err
	}

	counters, err := s.ledger.LockTx(ctx, tx, event.ID, ticket.TierID)
	if err != nil {
		return nil, err
	}
	if err := counters.Release(1); err != nil {
		return nil, err
	}

	res := &NoShowResult{Ticket: ticket}
	var promotedUser *model.User
	if ticket.TierID != nil {
		entries, err := s.waitlist.PendingByTierTx(ctx, tx, event.ID, *ticket.TierID)
		if err != nil {
			return nil, err
		}
		if head := oldestPending(entries); head != nil {
			if err := counters.Reserve(1); err != nil {
				return nil, err
			}
			tier, err := s.tiers.GetForEventTx(ctx, tx, *ticket.TierID, event.ID)
			if err != nil {
				return nil, err
			}
			promotedUser, err = s.users.GetByIDTx(ctx, tx, head.UserID)
			if err != nil {
				return nil, err
			}
			orderNumber, err := utils.NewOrderNumber()
			if err != nil {
				return nil, err
			}

			promoted := promotionTicket(ticket, tier, promotedUser, head, orderNumber, now)
			if err := s.tickets.CreateTx(ctx, tx, promoted); err != nil {
				return nil, err
			}

			// Zero-charge payment so the promoted user's history and
			// the event's revenue accounting stay consistent.
			payment := &model.Payment{
				UserID:   head.UserID,
				EventID:  event.ID,
				TicketID: promoted.ID,
				Amount:   decimal.Zero,
				Currency: tier.Currency,
				Method:   model.MethodWaitlistPromotion,
				Status:   model.PaymentCompleted,
				Meta: model.PaymentMeta{
					OrderNumber: promoted.OrderNumber,
					Quantity:    1,
					TicketIDs:   []uint64{promoted.ID},
				},
			}
			if err := s.payments.CreateTx(ctx, tx, payment); err != nil {
				return nil, err
			}
			if err := s.waitlist.UpdateStatusTx(ctx, tx, head.ID, model.WaitlistApproved, "promoted after a no-show"); err != nil {
				return nil, err
			}
			res.Promoted = promoted
			res.PromotedEntry = head
		}
	}

	if err := s.ledger.SaveTx(ctx, tx, event.ID, ticket.TierID, counters); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	monitoring.TrackNoShow(res.Promoted != nil)

	if res.Promoted != nil {
		_ = s.publisher.WaitlistPromoted(ctx, queue.WaitlistPromotedEvent{
			EventID:          event.ID,
			EventTitle:       event.Title,
			OrganizerID:      event.OrganizerID,
			PromotedUserID:   res.Promoted.AttendeeID,
			PromotedUserName: promotedUser.FullName(),
			WaitlistEntryID:  res.PromotedEntry.ID,
			NewTicketID:      res.Promoted.ID,
			ReplacedTicketID: ticket.ID,
			OrderNumber:      res.Promoted.OrderNumber,
			PromotedAt:       now.Format(time.RFC3339),
		})
	}
	return res, nil
}

// RestoreNoShow reverts a no-show cancellation back to CONFIRMED. The
// slot must be re-reserved: if a waitlisted user was promoted into it
// or a new booking took it, the restore is refused.
func (s *TicketService) RestoreNoShow(ctx context.Context, actorID uint64, actorRole string, ticketID uint64) (*model.Ticket, error) {
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

	ticket, err := s.tickets.GetForUpdateTx(ctx, tx, ticketID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetByIDTx(ctx, tx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	if !canManage(event, actorID, actorRole) {
		return nil, repository.ErrForbidden
	}
	if !ticket.Status.Restorable() {
		return nil, ErrTicketNotRestorable
	}

	counters, err := s.ledger.LockTx(ctx, tx, event.ID, ticket.TierID)
	if err != nil {
		return nil, err
	}
	if err := counters.Reserve(1); err != nil {
		return nil, err
	}

	ticket.Status = model.TicketConfirmed
	ticket.Meta.NoShow = nil
	ticket.Meta.Restore = &model.RestoreRecord{RestoredBy: actorID, RestoredAt: time.Now().UTC()}
	if err := s.tickets.UpdateStatusTx(ctx, tx, ticket); err != nil {
		return nil, err
	}
	if err := s.ledger.SaveTx(ctx, tx, event.ID, ticket.TierID, counters); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	monitoring.TrackRestore()
	return ticket, nil
}

// Cancel performs a manual, terminal cancellation. The ticket holder,
// the event organizer and admins may cancel.
func (s *TicketService) Cancel(ctx context.Context, actorID uint64, actorRole string, ticketID uint64) (*model.Ticket, error) {
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

	ticket, err := s.tickets.GetForUpdateTx(ctx, tx, ticketID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetByIDTx(ctx, tx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	if ticket.AttendeeID != actorID && !canManage(event, actorID, actorRole) {
		return nil, repository.ErrForbidden
	}
	if !ticket.Status.Releasable() {
		return nil, ErrTicketNotActive
	}

	counters, err := s.ledger.LockTx(ctx, tx, event.ID, ticket.TierID)
	if err != nil {
		return nil, err
	}
	if err := counters.Release(1); err != nil {
		return nil, err
	}

	ticket.Status = model.TicketCancelledManual
	if err := s.tickets.UpdateStatusTx(ctx, tx, ticket); err != nil {
		return nil, err
	}
	if err := s.ledger.SaveTx(ctx, tx, event.ID, ticket.TierID, counters); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return ticket, nil
}

// CheckIn resolves a scanned QR code and stamps the ticket as checked
// in. QR codes carry the ticket's own identifier.
func (s *TicketService) CheckIn(ctx context.Context, actorID uint64, actorRole string, qrCode string) (*model.Ticket, error) {
	id, err := strconv.ParseUint(qrCode, 10, 64)
	if err != nil {
		return nil, repository.ErrTicketNotFound
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	if !canManage(event, actorID, actorRole) {
		return nil, repository.ErrForbidden
	}
	if ticket.Status != model.TicketConfirmed {
		return nil, ErrTicketNotActive
	}
	if ticket.CheckedIn {
		return nil, ErrAlreadyCheckedIn
	}
	now := time.Now().UTC()
	if err := s.tickets.SetCheckedIn(ctx, ticket.ID, now); err != nil {
		return nil, err
	}
	ticket.CheckedIn = true
	ticket.CheckedInAt = &now
	return ticket, nil
}

// Get returns one ticket. The holder, the organizer and admins may
// read it.
func (s *TicketService) Get(ctx context.Context, actorID uint64, actorRole string, ticketID uint64) (*model.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.AttendeeID == actorID {
		return ticket, nil
	}
	event, err := s.events.GetByID(ctx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	if !canManage(event, actorID, actorRole) {
		return nil, repository.ErrForbidden
	}
	return ticket, nil
}

// ListMine returns the caller's tickets.
func (s *TicketService) ListMine(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	return s.tickets.ListByAttendee(ctx, userID)
}

// Roster returns all tickets of an event for its organizer.
func (s *TicketService) Roster(ctx context.Context, actorID uint64, actorRole string, eventID uint64) ([]model.Ticket, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !canManage(event, actorID, actorRole) {
		return nil, repository.ErrForbidden
	}
	tickets, err := s.tickets.ListByEvent(ctx, eventID)
	if err != nil {
		log.Printf("roster: listing tickets for event %d failed: %v", eventID, err)
		return nil, err
	}
	return tickets, nil
}
