package utils

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{13,}-[0-9A-Z]{9}$`)

func TestNewOrderNumberFormat(t *testing.T) {
	n, err := NewOrderNumber()
	require.NoError(t, err)
	assert.Regexp(t, orderNumberPattern, n)

	// Timestamp component must be close to now.
	parts := strings.Split(n, "-")
	require.Len(t, parts, 3)
	ms, err := strconv.ParseInt(parts[1], 10, 64)
	require.NoError(t, err)
	delta := time.Since(time.UnixMilli(ms))
	assert.Less(t, delta.Abs(), time.Minute)
}

func TestNewOrderNumberUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		n, err := NewOrderNumber()
		require.NoError(t, err)
		_, dup := seen[n]
		require.False(t, dup, "duplicate order number %s", n)
		seen[n] = struct{}{}
	}
}
