package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Capstone-Eventify/Backend/internal/model"
)

func TestPromotionTicketKeepsVacatedPrice(t *testing.T) {
	tierID := uint64(3)
	now := time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC)
	vacated := &model.Ticket{
		ID:         11,
		EventID:    1,
		AttendeeID: 5,
		TierID:     &tierID,
		TicketType: "VIP",
		Price:      decimal.RequireFromString("75.50"),
		Currency:   "USD",
		Status:     model.TicketCancelledNoShow,
	}
	tier := &model.TicketTier{ID: tierID, EventID: 1, Name: "VIP", Currency: "USD"}
	user := &model.User{ID: 9, FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"}
	entry := &model.WaitlistEntry{ID: 21, EventID: 1, TierID: tierID, UserID: 9}

	promoted := promotionTicket(vacated, tier, user, entry, "ORD-1-AAAAAAAAA", now)

	// The replacement holds the same slot: same price and type, new
	// attendee, no charge beyond the original holder's payment.
	assert.True(t, vacated.Price.Equal(promoted.Price), "promoted price %s", promoted.Price)
	assert.Equal(t, "VIP", promoted.TicketType)
	assert.Equal(t, model.TicketConfirmed, promoted.Status)
	assert.Equal(t, uint64(9), promoted.AttendeeID)
	assert.Equal(t, "Grace Hopper", promoted.Meta.AttendeeName)

	require.NotNil(t, promoted.Meta.Promotion)
	assert.Equal(t, uint64(21), promoted.Meta.Promotion.WaitlistEntryID)
	assert.Equal(t, uint64(11), promoted.Meta.Promotion.ReplacedTicketID)
	assert.Equal(t, now, promoted.Meta.Promotion.PromotedAt)
}
