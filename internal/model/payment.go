package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus enumerates the states of a payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment methods. A waitlist promotion produces a zero-charge payment
// record so the promoted user's payment history and the event's revenue
// accounting stay consistent.
const (
	MethodCard              = "card"
	MethodWaitlistPromotion = "waitlist_promotion"
)

// RefundRecord captures refund provenance on a payment.
type RefundRecord struct {
	RefundID      string    `json:"refund_id"`
	Reason        string    `json:"reason"`
	GatewayReason string    `json:"gateway_reason"`
	RequestedBy   uint64    `json:"requested_by"`
	RefundedAt    time.Time `json:"refunded_at"`
}

// PaymentMeta is the structured audit trail attached to a payment,
// serialized as a JSON column. It links the payment to the order it
// settled.
type PaymentMeta struct {
	OrderNumber string           `json:"order_number"`
	Quantity    int              `json:"quantity"`
	TicketIDs   []uint64         `json:"ticket_ids"`
	PromoCode   string           `json:"promo_code,omitempty"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
	Refund      *RefundRecord    `json:"refund,omitempty"`
}

// Payment records one settled purchase. It is linked to the first
// ticket of the order; the full ticket set is carried in Meta.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – buyer.
//  EventID    – event the tickets admit to.
//  TicketID   – first ticket of the order.
//  Amount     – total amount charged.
//  Currency   – ISO currency code.
//  GatewayRef – external payment gateway reference (empty for promotions).
//  Method     – payment method tag.
//  Status     – see PaymentStatus.
//  Meta       – structured order linkage, see PaymentMeta.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Payment struct {
	ID         uint64          // payments.id
	UserID     uint64          // payments.user_id
	EventID    uint64          // payments.event_id
	TicketID   uint64          // payments.ticket_id
	Amount     decimal.Decimal // payments.amount
	Currency   string          // payments.currency
	GatewayRef string          // payments.gateway_ref
	Method     string          // payments.method
	Status     PaymentStatus   // payments.status
	Meta       PaymentMeta     // payments.metadata (JSON)
	CreatedAt  time.Time       // payments.created_at
	UpdatedAt  time.Time       // payments.updated_at
}
