package gateway

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// OfflineGateway is an in-process Gateway used in development and test
// environments. It records captures in memory so refunds can be
// validated against them, mimicking the processor's behavior of
// rejecting refunds for unknown references.
type OfflineGateway struct {
	mu       sync.Mutex
	captures map[string]*Capture
}

// NewOfflineGateway returns an empty offline gateway.
func NewOfflineGateway() *OfflineGateway {
	return &OfflineGateway{captures: make(map[string]*Capture)}
}

// Capture records a charge and returns a synthetic reference.
func (g *OfflineGateway) Capture(_ context.Context, amount decimal.Decimal, currency string, _ map[string]string) (*Capture, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount", ErrUpstream)
	}
	ref, err := syntheticRef("ch")
	if err != nil {
		return nil, err
	}
	rec := &Capture{
		Reference:  ref,
		Amount:     amount,
		Currency:   currency,
		CapturedAt: time.Now().UTC(),
	}
	g.mu.Lock()
	g.captures[ref] = rec
	g.mu.Unlock()
	return rec, nil
}

// Refund confirms a refund for a previously captured reference.
func (g *OfflineGateway) Refund(_ context.Context, reference, reason string) (*RefundResult, error) {
	g.mu.Lock()
	rec, ok := g.captures[reference]
	g.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown reference %s", ErrUpstream, reference)
	}
	id, err := syntheticRef("re")
	if err != nil {
		return nil, err
	}
	return &RefundResult{
		RefundID:   id,
		Reference:  reference,
		Amount:     rec.Amount,
		Currency:   rec.Currency,
		Reason:     MapRefundReason(reason),
		RefundedAt: time.Now().UTC(),
	}, nil
}

func syntheticRef(prefix string) (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return prefix + "_" + hex.EncodeToString(buf), nil
}
