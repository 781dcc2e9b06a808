package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Capstone-Eventify/Backend/internal/model"
)

func TestSupportCreatePopulatesID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO support_tickets`)).
		WithArgs(uint64(9), "Refund missing", "My refund never arrived.", "payments", "high", "open").
		WillReturnResult(sqlmock.NewResult(33, 1))

	ticket := &model.SupportTicket{
		UserID:      9,
		Subject:     "Refund missing",
		Description: "My refund never arrived.",
		Category:    "payments",
		Priority:    model.SupportPriorityHigh,
		Status:      model.SupportOpen,
	}
	require.NoError(t, NewSupportRepo(db).Create(context.Background(), ticket))
	assert.Equal(t, uint64(33), ticket.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupportUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE support_tickets SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewSupportRepo(db).Update(context.Background(), &model.SupportTicket{
		ID:     404,
		Status: model.SupportClosed,
	})
	assert.ErrorIs(t, err, ErrSupportNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
