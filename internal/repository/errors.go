// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios with errors.Is instead of string matching.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they neither own nor administer. Handlers translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// Not-found sentinels, one per aggregate. Handlers translate these into
// HTTP 404 responses.
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrTierNotFound         = errors.New("ticket tier not found")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrWaitlistNotFound     = errors.New("waitlist entry not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrSupportNotFound      = errors.New("support ticket not found")
)

// ErrEmailTaken is returned when registering with an email that already
// has an account.
var ErrEmailTaken = errors.New("email already registered")

// ErrAlreadyWaitlisted is returned when a user tries to join the same
// (event, tier) waitlist twice.
var ErrAlreadyWaitlisted = errors.New("already on waitlist for this tier")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as shrinking a tier allocation
// below the number of tickets already sold. Handlers translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
