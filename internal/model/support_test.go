package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportStatusTerminal(t *testing.T) {
	cases := []struct {
		status SupportStatus
		want   bool
	}{
		{SupportOpen, false},
		{SupportInProgress, false},
		{SupportResolved, true},
		{SupportClosed, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.status.Terminal(), "status %s", c.status)
	}
}
