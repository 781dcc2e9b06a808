package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Capstone-Eventify/Backend/internal/model"
)

func updatableEvent(id uint64, maxAttendees uint32) *model.Event {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return &model.Event{
		ID:           id,
		OrganizerID:  1,
		Title:        "Summer Fest",
		Venue:        "Main Hall",
		StartsAt:     now,
		EndsAt:       now.Add(4 * time.Hour),
		MaxAttendees: maxAttendees,
		Status:       model.EventLive,
	}
}

func TestEventUpdateRejectsShrinkBelowBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// 100 seats are booked under the row lock; shrinking to 50 would
	// leave current_bookings above max_attendees, so the update must
	// roll back without touching the row.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT current_bookings FROM events WHERE id = ? FOR UPDATE`)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"current_bookings"}).AddRow(100))
	mock.ExpectRollback()

	err = NewEventRepo(db).Update(context.Background(), updatableEvent(7, 50))
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventUpdateWritesUnderRowLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT current_bookings FROM events WHERE id = ? FOR UPDATE`)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"current_bookings"}).AddRow(40))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE events SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e := updatableEvent(7, 60)
	require.NoError(t, NewEventRepo(db).Update(context.Background(), e))
	assert.Equal(t, uint32(40), e.CurrentBookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT current_bookings FROM events WHERE id = ? FOR UPDATE`)).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"current_bookings"}))
	mock.ExpectRollback()

	err = NewEventRepo(db).Update(context.Background(), updatableEvent(404, 10))
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
