package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatusReleasable(t *testing.T) {
	cases := []struct {
		status TicketStatus
		want   bool
	}{
		{TicketPending, true},
		{TicketConfirmed, true},
		{TicketCancelledNoShow, false},
		{TicketCancelledManual, false},
		{TicketRefunded, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.status.Releasable(), "status %s", c.status)
	}
}

func TestTicketStatusRestorable(t *testing.T) {
	cases := []struct {
		status TicketStatus
		want   bool
	}{
		{TicketPending, false},
		{TicketConfirmed, false},
		{TicketCancelledNoShow, true},
		{TicketCancelledManual, false},
		{TicketRefunded, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.status.Restorable(), "status %s", c.status)
	}
}
