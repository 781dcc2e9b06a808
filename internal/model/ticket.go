package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketStatus enumerates the explicit lifecycle states of a ticket.
// The two cancellation states are deliberately distinct: a no-show
// cancellation may be restored by the organizer while capacity allows,
// a manual cancellation is terminal.
type TicketStatus string

const (
	TicketPending         TicketStatus = "PENDING"
	TicketConfirmed       TicketStatus = "CONFIRMED"
	TicketCancelledNoShow TicketStatus = "CANCELLED_NO_SHOW"
	TicketCancelledManual TicketStatus = "CANCELLED_MANUAL"
	TicketRefunded        TicketStatus = "REFUNDED"
)

// Releasable reports whether a ticket in this status still charges
// capacity, i.e. cancelling or refunding it must release one slot.
// Tickets that were already cancelled or refunded are not releasable
// again; releasing them twice would double-increment availability.
func (s TicketStatus) Releasable() bool {
	return s == TicketPending || s == TicketConfirmed
}

// Restorable reports whether a ticket may be brought back to CONFIRMED
// through the no-show restore operation. Only no-show cancellations
// qualify; manual cancellations and refunds are terminal.
func (s TicketStatus) Restorable() bool {
	return s == TicketCancelledNoShow
}

// NoShowRecord is stamped onto a ticket when an organizer marks the
// attendee as a no-show.
type NoShowRecord struct {
	MarkedBy uint64    `json:"marked_by"`
	MarkedAt time.Time `json:"marked_at"`
}

// RestoreRecord is stamped onto a ticket when a no-show cancellation is
// reverted.
type RestoreRecord struct {
	RestoredBy uint64    `json:"restored_by"`
	RestoredAt time.Time `json:"restored_at"`
}

// PromotionRecord is stamped onto a ticket created by promoting a
// waitlist entry into the slot vacated by a no-show.
type PromotionRecord struct {
	WaitlistEntryID  uint64    `json:"waitlist_entry_id"`
	ReplacedTicketID uint64    `json:"replaced_ticket_id"`
	PromotedAt       time.Time `json:"promoted_at"`
}

// TicketMeta is the structured audit trail attached to a ticket. It is
// serialized as a JSON column. The provenance records are tagged
// variants: at most one of NoShow/Restore applies to a cancelled or
// restored ticket, Promotion only appears on tickets created by the
// waitlist promotion workflow.
type TicketMeta struct {
	AttendeeName  string           `json:"attendee_name,omitempty"`
	AttendeeEmail string           `json:"attendee_email,omitempty"`
	PromoCode     string           `json:"promo_code,omitempty"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	NoShow        *NoShowRecord    `json:"no_show,omitempty"`
	Restore       *RestoreRecord   `json:"restore,omitempty"`
	Promotion     *PromotionRecord `json:"promotion,omitempty"`
}

// Ticket represents one attendee's admission to an event. Tickets from
// the same purchase share an order number. The QR code of a ticket is
// its own identifier, so scanning resolves to a direct primary key
// lookup.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – event this ticket admits to.
//  AttendeeID  – user holding the ticket.
//  TierID      – tier the ticket was sold from (nullable for general admission).
//  TicketType  – tier name at purchase time, or "General".
//  Price       – price paid per ticket.
//  Currency    – ISO currency code.
//  Status      – lifecycle state, see TicketStatus.
//  OrderNumber – order grouping token, unique per purchase.
//  QRCode      – check-in code; equals the ticket ID once issued.
//  CheckedIn   – whether the attendee was scanned in.
//  CheckedInAt – when the attendee was scanned in (nullable).
//  Meta        – structured provenance, see TicketMeta.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Ticket struct {
	ID          uint64          // tickets.id
	EventID     uint64          // tickets.event_id
	AttendeeID  uint64          // tickets.attendee_id
	TierID      *uint64         // tickets.tier_id (nullable)
	TicketType  string          // tickets.ticket_type
	Price       decimal.Decimal // tickets.price
	Currency    string          // tickets.currency
	Status      TicketStatus    // tickets.status
	OrderNumber string          // tickets.order_number
	QRCode      string          // tickets.qr_code
	CheckedIn   bool            // tickets.checked_in
	CheckedInAt *time.Time      // tickets.checked_in_at (nullable)
	Meta        TicketMeta      // tickets.metadata (JSON)
	CreatedAt   time.Time       // tickets.created_at
	UpdatedAt   time.Time       // tickets.updated_at
}
