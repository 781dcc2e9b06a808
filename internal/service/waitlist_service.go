package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/repository"
)

// WaitlistService manages the per-(event, tier) FIFO backlog. The
// automatic dequeue lives in TicketService.MarkNoShow; this service
// covers joining, the organizer's manual review and withdrawal.
type WaitlistService struct {
	events        *repository.EventRepo
	tiers         *repository.TierRepo
	waitlist      *repository.WaitlistRepo
	notifications *repository.NotificationRepo
}

// NewWaitlistService wires a WaitlistService.
func NewWaitlistService(events *repository.EventRepo, tiers *repository.TierRepo,
	waitlist *repository.WaitlistRepo, notifications *repository.NotificationRepo) *WaitlistService {
	return &WaitlistService{events: events, tiers: tiers, waitlist: waitlist, notifications: notifications}
}

// oldestPending returns the entry that has waited longest, preferring
// the lower ID on equal timestamps. The promotion query already orders
// its result; scanning again keeps the pick correct even if a caller
// hands over an unordered slice.
func oldestPending(entries []model.WaitlistEntry) *model.WaitlistEntry {
	var head *model.WaitlistEntry
	for i := range entries {
		e := &entries[i]
		if e.Status != model.WaitlistPending {
			continue
		}
		if head == nil ||
			e.RequestedAt.Before(head.RequestedAt) ||
			(e.RequestedAt.Equal(head.RequestedAt) && e.ID < head.ID) {
			head = e
		}
	}
	return head
}

// Join places a user on a tier's waitlist. Availability is not a
// precondition: a user may queue while stock remains, the entry simply
// waits until a no-show frees a slot.
func (s *WaitlistService) Join(ctx context.Context, userID, eventID, tierID uint64, quantity uint32, notes string) (*model.WaitlistEntry, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.ComputedStatus(time.Now().UTC()) != model.EventLive {
		return nil, ErrEventNotBookable
	}
	tier, err := s.tiers.GetByID(ctx, tierID)
	if err != nil {
		return nil, err
	}
	if tier.EventID != eventID {
		return nil, repository.ErrTierNotFound
	}
	if !tier.IsActive {
		return nil, ErrTierInactive
	}
	if quantity < 1 {
		quantity = 1
	}
	entry := &model.WaitlistEntry{
		EventID:  eventID,
		TierID:   tierID,
		UserID:   userID,
		Quantity: quantity,
		Status:   model.WaitlistPending,
		Notes:    notes,
	}
	if err := s.waitlist.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Review lets the organizer approve or reject a pending entry by hand.
// Approval is an answer, not a ticket: capacity is only granted through
// the no-show promotion, so a manual approval never touches counters.
func (s *WaitlistService) Review(ctx context.Context, actorID uint64, actorRole string, entryID uint64, approve bool, notes string) (*model.WaitlistEntry, error) {
	entry, err := s.waitlist.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, entry.EventID)
	if err != nil {
		return nil, err
	}
	if !canManage(event, actorID, actorRole) {
		return nil, repository.ErrForbidden
	}
	if entry.Status != model.WaitlistPending {
		return nil, repository.ErrConflict
	}

	status := model.WaitlistRejected
	if approve {
		status = model.WaitlistApproved
	}
	if err := s.waitlist.UpdateStatus(ctx, entryID, status, notes); err != nil {
		return nil, err
	}
	entry.Status = status
	entry.Notes = notes

	n := &model.Notification{
		UserID:  entry.UserID,
		Type:    model.NotifyWaitlistReviewed,
		Title:   fmt.Sprintf("Waitlist request %s", status),
		Message: fmt.Sprintf("Your waitlist request for %q was %s by the organizer.", event.Title, status),
		Link:    fmt.Sprintf("/events/%d", event.ID),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		log.Printf("waitlist: review notification for entry %d failed: %v", entryID, err)
	}
	return entry, nil
}

// Withdraw removes an entry from the queue. The entry's owner and
// admins may withdraw in any review status; a reviewed entry is simply
// forgotten.
func (s *WaitlistService) Withdraw(ctx context.Context, actorID uint64, actorRole string, entryID uint64) error {
	entry, err := s.waitlist.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.UserID != actorID && actorRole != model.RoleAdmin {
		return repository.ErrForbidden
	}
	return s.waitlist.Delete(ctx, entryID)
}

// ListMine returns the caller's waitlist entries.
func (s *WaitlistService) ListMine(ctx context.Context, userID uint64) ([]model.WaitlistEntry, error) {
	return s.waitlist.ListByUser(ctx, userID)
}

// ListForEvent returns an event's queue in FIFO order for its
// organizer.
func (s *WaitlistService) ListForEvent(ctx context.Context, actorID uint64, actorRole string, eventID uint64) ([]model.WaitlistEntry, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !canManage(event, actorID, actorRole) {
		return nil, repository.ErrForbidden
	}
	return s.waitlist.ListByEvent(ctx, eventID)
}
