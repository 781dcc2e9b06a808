// Package handler defines the HTTP handlers. Handlers bind and
// validate request bodies, delegate to services and repositories, and
// translate sentinel errors into HTTP statuses.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Capstone-Eventify/Backend/internal/gateway"
	"github.com/Capstone-Eventify/Backend/internal/ledger"
	"github.com/Capstone-Eventify/Backend/internal/middleware"
	"github.com/Capstone-Eventify/Backend/internal/repository"
	"github.com/Capstone-Eventify/Backend/internal/service"
)

// actor returns the authenticated caller's ID and role as stored by the
// JWT middleware.
func actor(c echo.Context) (uint64, string, error) {
	id, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok || id == 0 {
		return 0, "", errors.New("missing user identity in context")
	}
	role, _ := c.Get(middleware.CtxRole).(string)
	return id, role, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// writeErr maps a sentinel error to its HTTP status. Unknown errors are
// logged and reported as a generic 500 so internals never leak.
func writeErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})

	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrTierNotFound),
		errors.Is(err, repository.ErrTicketNotFound),
		errors.Is(err, repository.ErrPaymentNotFound),
		errors.Is(err, repository.ErrWaitlistNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrNotificationNotFound),
		errors.Is(err, repository.ErrSupportNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})

	case errors.Is(err, ledger.ErrCapacityExceeded),
		errors.Is(err, ledger.ErrTierSoldOut),
		errors.Is(err, ledger.ErrAlreadyReleased),
		errors.Is(err, repository.ErrEmailTaken),
		errors.Is(err, repository.ErrAlreadyWaitlisted),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrAlreadyRefunded),
		errors.Is(err, service.ErrAlreadyCheckedIn),
		errors.Is(err, service.ErrTicketNotActive),
		errors.Is(err, service.ErrTicketNotRestorable),
		errors.Is(err, service.ErrNotRefundable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})

	case errors.Is(err, ledger.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})

	case errors.Is(err, service.ErrEventNotBookable),
		errors.Is(err, service.ErrTierInactive):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})

	case errors.Is(err, gateway.ErrUpstream):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway failure"})
	}

	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
