package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketTier is a priced ticket category within an event. Quantity is the
// immutable allocation; Available is the mutable remaining count and is
// only ever changed through the ledger so that
// 0 <= Available <= Quantity holds after every operation.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – event this tier belongs to.
//  Name        – tier name shown to buyers (e.g. "VIP").
//  Description – optional description.
//  Price       – price per ticket.
//  Currency    – ISO currency code, uppercase.
//  Quantity    – total allocation for this tier.
//  Available   – remaining unsold count.
//  IsActive    – soft-deletion flag; inactive tiers cannot be booked.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type TicketTier struct {
	ID          uint64          // ticket_tiers.id
	EventID     uint64          // ticket_tiers.event_id
	Name        string          // ticket_tiers.name
	Description string          // ticket_tiers.description
	Price       decimal.Decimal // ticket_tiers.price
	Currency    string          // ticket_tiers.currency
	Quantity    uint32          // ticket_tiers.quantity
	Available   uint32          // ticket_tiers.available
	IsActive    bool            // ticket_tiers.is_active
	CreatedAt   time.Time       // ticket_tiers.created_at
	UpdatedAt   time.Time       // ticket_tiers.updated_at
}
