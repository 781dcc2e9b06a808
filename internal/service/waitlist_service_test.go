package service

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/repository"
)

func entry(id uint64, status model.WaitlistStatus, requestedAt time.Time) model.WaitlistEntry {
	return model.WaitlistEntry{ID: id, Status: status, RequestedAt: requestedAt}
}

func TestOldestPendingPicksEarliestRequest(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []model.WaitlistEntry{
		entry(3, model.WaitlistPending, base.Add(2*time.Hour)),
		entry(1, model.WaitlistPending, base),
		entry(2, model.WaitlistPending, base.Add(time.Hour)),
	}
	head := oldestPending(entries)
	require.NotNil(t, head)
	assert.Equal(t, uint64(1), head.ID)
}

func TestOldestPendingSkipsReviewedEntries(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []model.WaitlistEntry{
		entry(1, model.WaitlistApproved, base),
		entry(2, model.WaitlistRejected, base.Add(time.Minute)),
		entry(3, model.WaitlistPending, base.Add(time.Hour)),
	}
	head := oldestPending(entries)
	require.NotNil(t, head)
	assert.Equal(t, uint64(3), head.ID)
}

func TestOldestPendingBreaksTiesByID(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []model.WaitlistEntry{
		entry(7, model.WaitlistPending, at),
		entry(4, model.WaitlistPending, at),
	}
	head := oldestPending(entries)
	require.NotNil(t, head)
	assert.Equal(t, uint64(4), head.ID)
}

func TestOldestPendingEmptyQueue(t *testing.T) {
	assert.Nil(t, oldestPending(nil))
	assert.Nil(t, oldestPending([]model.WaitlistEntry{
		entry(1, model.WaitlistApproved, time.Now()),
	}))
}

func waitlistServiceOver(db *sql.DB) *WaitlistService {
	return NewWaitlistService(
		repository.NewEventRepo(db),
		repository.NewTierRepo(db),
		repository.NewWaitlistRepo(db),
		repository.NewNotificationRepo(db),
	)
}

func TestJoinAllowedWhileTicketsAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM events WHERE id = ?`)).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "organizer_id", "title", "description", "venue", "starts_at", "ends_at",
			"max_attendees", "current_bookings", "status", "created_at", "updated_at",
		}).AddRow(1, 10, "Summer Fest", "", "Main Hall", now, now.Add(4*time.Hour), 100, 10, "LIVE", now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM ticket_tiers WHERE id = ?`)).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "name", "description", "price", "currency", "quantity", "available",
			"is_active", "created_at", "updated_at",
		}).AddRow(2, 1, "VIP", "", "25.00", "USD", 50, 5, true, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO waitlist_entries`)).
		WillReturnResult(sqlmock.NewResult(42, 1))

	// The tier still has stock and the event has room; queuing early is
	// allowed, the entry simply waits for a no-show.
	got, err := waitlistServiceOver(db).Join(context.Background(), 9, 1, 2, 1, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.ID)
	assert.Equal(t, model.WaitlistPending, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawAllowsReviewedEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM waitlist_entries WHERE id = ?`)).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "tier_id", "user_id", "quantity", "status", "notes", "requested_at", "updated_at",
		}).AddRow(5, 1, 2, 9, 1, "approved", "", now, now))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM waitlist_entries WHERE id = ?`)).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Withdrawal is the owner's right in any review status.
	require.NoError(t, waitlistServiceOver(db).Withdraw(context.Background(), 9, model.RoleAttendee, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawRefusesStrangers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM waitlist_entries WHERE id = ?`)).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "tier_id", "user_id", "quantity", "status", "notes", "requested_at", "updated_at",
		}).AddRow(5, 1, 2, 9, 1, "pending", "", now, now))

	err = waitlistServiceOver(db).Withdraw(context.Background(), 77, model.RoleAttendee, 5)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}
