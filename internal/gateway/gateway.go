// Package gateway defines the narrow payment capability the booking and
// refund flows depend on. The real processor sits behind this interface;
// the core never speaks the gateway's wire protocol itself.
package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUpstream wraps any failure reported by the payment processor.
// Refunds surface it to the caller because the state transition is
// blocked until the gateway confirms.
var ErrUpstream = errors.New("payment gateway failure")

// Refund reason codes accepted by the processor.
const (
	ReasonRequestedByCustomer = "requested_by_customer"
	ReasonFraudulent          = "fraudulent"
	ReasonDuplicate           = "duplicate"
)

// Capture is the result of a confirmed charge.
type Capture struct {
	Reference  string          // processor reference for the charge
	Amount     decimal.Decimal // amount captured
	Currency   string          // ISO currency code
	CapturedAt time.Time
}

// RefundResult is the processor's confirmation of a refund.
type RefundResult struct {
	RefundID   string
	Reference  string // the original capture reference
	Amount     decimal.Decimal
	Currency   string
	Reason     string // mapped processor reason
	RefundedAt time.Time
}

// Gateway is the payment capability consumed by the core. Capture is
// assumed to have happened before the booking transaction runs; Refund
// blocks the refund transaction until the processor confirms.
type Gateway interface {
	Capture(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*Capture, error)
	Refund(ctx context.Context, reference, reason string) (*RefundResult, error)
}

// MapRefundReason folds a free-form user reason into one of the
// processor's accepted codes. Anything that does not look fraudulent
// or duplicated is treated as a customer request.
func MapRefundReason(reason string) string {
	if reason == "" {
		return ReasonRequestedByCustomer
	}
	lower := strings.ToLower(reason)
	if strings.Contains(lower, "fraud") || strings.Contains(lower, "unauthorized") {
		return ReasonFraudulent
	}
	if strings.Contains(lower, "duplicate") || strings.Contains(lower, "double") {
		return ReasonDuplicate
	}
	return ReasonRequestedByCustomer
}
