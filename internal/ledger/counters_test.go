package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tierCounters(maxAttendees, bookings, quantity, available int) *Counters {
	return &Counters{
		MaxAttendees:    maxAttendees,
		CurrentBookings: bookings,
		TierQuantity:    quantity,
		TierAvailable:   available,
		HasTier:         true,
	}
}

func TestReserveTierSoldOut(t *testing.T) {
	// quantity=10, available=2: reserving 3 must fail and leave counters alone.
	c := tierCounters(100, 8, 10, 2)
	err := c.Reserve(3)
	require.ErrorIs(t, err, ErrTierSoldOut)
	assert.Equal(t, 2, c.TierAvailable)
	assert.Equal(t, 8, c.CurrentBookings)
}

func TestReserveCapacityExceeded(t *testing.T) {
	// Event is full even though the tier still has availability.
	c := tierCounters(100, 100, 50, 10)
	err := c.Reserve(1)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 10, c.TierAvailable)
	assert.Equal(t, 100, c.CurrentBookings)
}

func TestReserveWithoutTier(t *testing.T) {
	c := &Counters{MaxAttendees: 5, CurrentBookings: 4}
	require.NoError(t, c.Reserve(1))
	assert.Equal(t, 5, c.CurrentBookings)
	require.ErrorIs(t, c.Reserve(1), ErrCapacityExceeded)
}

func TestReserveInvalidQuantity(t *testing.T) {
	c := tierCounters(10, 0, 10, 10)
	assert.ErrorIs(t, c.Reserve(0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Reserve(-2), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Release(0), ErrInvalidQuantity)
}

func TestReleaseInverseOfReserve(t *testing.T) {
	c := tierCounters(100, 40, 50, 10)
	require.NoError(t, c.Reserve(4))
	require.NoError(t, c.Release(4))
	assert.Equal(t, 40, c.CurrentBookings)
	assert.Equal(t, 10, c.TierAvailable)
}

func TestReleaseNotIdempotent(t *testing.T) {
	// Releasing past the tier allocation is a double release: it must
	// fail and must not further increment availability.
	c := tierCounters(100, 1, 10, 9)
	require.NoError(t, c.Release(1))
	assert.Equal(t, 10, c.TierAvailable)
	assert.Equal(t, 0, c.CurrentBookings)

	err := c.Release(1)
	require.ErrorIs(t, err, ErrAlreadyReleased)
	assert.Equal(t, 10, c.TierAvailable)
	assert.Equal(t, 0, c.CurrentBookings)
}

func TestReleaseBelowZeroBookings(t *testing.T) {
	c := &Counters{MaxAttendees: 10, CurrentBookings: 0}
	err := c.Release(1)
	require.ErrorIs(t, err, ErrAlreadyReleased)
	assert.Equal(t, 0, c.CurrentBookings)
}

// TestInvariantsHoldOverSequences drives the counters through a long
// mixed sequence of reserves and releases and checks the bounds after
// every step, whether the step succeeded or not.
func TestInvariantsHoldOverSequences(t *testing.T) {
	c := tierCounters(30, 0, 20, 20)
	steps := []struct {
		reserve bool
		qty     int
	}{
		{true, 5}, {true, 10}, {false, 3}, {true, 8}, {false, 20},
		{true, 2}, {false, 1}, {true, 25}, {false, 2}, {true, 1},
		{false, 50}, {true, 20}, {false, 9}, {true, 3},
	}
	for i, s := range steps {
		if s.reserve {
			_ = c.Reserve(s.qty)
		} else {
			_ = c.Release(s.qty)
		}
		assert.GreaterOrEqual(t, c.TierAvailable, 0, "step %d", i)
		assert.LessOrEqual(t, c.TierAvailable, c.TierQuantity, "step %d", i)
		assert.GreaterOrEqual(t, c.CurrentBookings, 0, "step %d", i)
		assert.LessOrEqual(t, c.CurrentBookings, c.MaxAttendees, "step %d", i)
	}
}

// TestNoShowWithoutPromotion mirrors the workflow math: a no-show with
// no waitlisted user frees exactly one slot on both counters.
func TestNoShowWithoutPromotion(t *testing.T) {
	c := tierCounters(100, 60, 50, 5)
	require.NoError(t, c.Release(1))
	assert.Equal(t, 59, c.CurrentBookings)
	assert.Equal(t, 6, c.TierAvailable)
}

// TestNoShowWithPromotionNetsToZero mirrors the promotion path: the
// release and the re-reserve on behalf of the waitlisted user cancel
// out, leaving both counters unchanged.
func TestNoShowWithPromotionNetsToZero(t *testing.T) {
	c := tierCounters(100, 60, 50, 5)
	require.NoError(t, c.Release(1))
	require.NoError(t, c.Reserve(1))
	assert.Equal(t, 60, c.CurrentBookings)
	assert.Equal(t, 5, c.TierAvailable)
}

// TestRestoreAtFullCapacity mirrors the restore re-check: when the
// freed slot has since been sold the event is full again and the
// restore's reserve must fail.
func TestRestoreAtFullCapacity(t *testing.T) {
	c := tierCounters(100, 99, 50, 1)
	// Direct purchase takes the last slot before the restore runs.
	require.NoError(t, c.Reserve(1))
	require.Equal(t, 100, c.CurrentBookings)

	err := c.Reserve(1)
	require.ErrorIs(t, err, ErrTierSoldOut)

	// Event-level check also trips when the tier still has stock.
	c.TierAvailable = 3
	err = c.Reserve(1)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 100, c.CurrentBookings)
}

func TestRemaining(t *testing.T) {
	c := tierCounters(100, 73, 50, 2)
	assert.Equal(t, 27, c.Remaining())
}
