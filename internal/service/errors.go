// Package service implements the application workflows on top of the
// repositories and the capacity ledger. Each mutating workflow opens
// its own transaction, funnels every counter change through the ledger
// and publishes its domain event only after the commit.
package service

import "errors"

// Workflow sentinels. Handlers translate them into HTTP statuses.
var (
	// ErrEventNotBookable means the event is not in a state that
	// accepts bookings or waitlist joins (draft, cancelled or ended).
	ErrEventNotBookable = errors.New("event is not open for booking")

	// ErrTierInactive means the targeted tier was soft-deleted.
	ErrTierInactive = errors.New("ticket tier is inactive")

	// ErrTicketNotActive means the ticket is not in a state the
	// requested transition applies to, e.g. cancelling an already
	// cancelled ticket or checking in a refunded one.
	ErrTicketNotActive = errors.New("ticket is not active")

	// ErrTicketNotRestorable means the ticket is not a no-show
	// cancellation; manual cancellations and refunds are terminal.
	ErrTicketNotRestorable = errors.New("ticket is not a no-show cancellation")

	// ErrAlreadyCheckedIn means the QR code was scanned before.
	ErrAlreadyCheckedIn = errors.New("ticket already checked in")

	// ErrAlreadyRefunded means the payment was refunded before.
	ErrAlreadyRefunded = errors.New("payment already refunded")

	// ErrNotRefundable means the payment has nothing to refund, such
	// as a zero-charge waitlist promotion.
	ErrNotRefundable = errors.New("payment cannot be refunded")
)
