package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputedStatusManualStatesWin(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := Event{Status: EventDraft, EndsAt: now.Add(-time.Hour)}
	assert.Equal(t, EventDraft, past.ComputedStatus(now))

	cancelled := Event{Status: EventCancelled, EndsAt: now.Add(-time.Hour)}
	assert.Equal(t, EventCancelled, cancelled.ComputedStatus(now))
}

func TestComputedStatusLiveAgesIntoEnded(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	running := Event{Status: EventLive, EndsAt: now.Add(time.Hour)}
	assert.Equal(t, EventLive, running.ComputedStatus(now))

	over := Event{Status: EventLive, EndsAt: now.Add(-time.Minute)}
	assert.Equal(t, EventEnded, over.ComputedStatus(now))

	// The persisted status is untouched; only the view changes.
	assert.Equal(t, EventLive, over.Status)
}

func TestComputedStatusPassesThroughOtherStates(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	e := Event{Status: EventEnded, EndsAt: now.Add(time.Hour)}
	assert.Equal(t, EventEnded, e.ComputedStatus(now))
}

func TestCanPublish(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	upcoming := Event{EndsAt: now.Add(time.Hour)}
	assert.True(t, upcoming.CanPublish(now))

	over := Event{EndsAt: now.Add(-time.Hour)}
	assert.False(t, over.CanPublish(now))
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).FullName())
	assert.Equal(t, "Lovelace", (&User{LastName: "Lovelace"}).FullName())
}
