package gateway

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRefundReason(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ReasonRequestedByCustomer},
		{"changed my mind", ReasonRequestedByCustomer},
		{"card was used FRAUDulently", ReasonFraudulent},
		{"Unauthorized charge on my account", ReasonFraudulent},
		{"duplicate purchase", ReasonDuplicate},
		{"charged double", ReasonDuplicate},
		{"event cancelled", ReasonRequestedByCustomer},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MapRefundReason(c.in), "reason %q", c.in)
	}
}

func TestOfflineGatewayCaptureThenRefund(t *testing.T) {
	g := NewOfflineGateway()
	ctx := context.Background()

	rec, err := g.Capture(ctx, decimal.NewFromInt(120), "USD", nil)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Reference)

	res, err := g.Refund(ctx, rec.Reference, "duplicate order")
	require.NoError(t, err)
	assert.Equal(t, rec.Reference, res.Reference)
	assert.Equal(t, ReasonDuplicate, res.Reason)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(120)))
}

func TestOfflineGatewayRefundUnknownReference(t *testing.T) {
	g := NewOfflineGateway()
	_, err := g.Refund(context.Background(), "ch_missing", "whatever")
	require.ErrorIs(t, err, ErrUpstream)
}
