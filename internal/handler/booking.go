package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Capstone-Eventify/Backend/internal/service"
)

// BookingHandler exposes the purchase endpoint.
type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

type bookReq struct {
	EventID       uint64  `json:"event_id"`
	TierID        *uint64 `json:"tier_id"`
	Quantity      int     `json:"quantity"`
	AttendeeName  string  `json:"attendee_name"`
	AttendeeEmail string  `json:"attendee_email"`
	PromoCode     string  `json:"promo_code"`
	Discount      string  `json:"discount"`
}

type bookResp struct {
	OrderNumber string       `json:"order_number"`
	Tickets     []ticketResp `json:"tickets"`
	Payment     paymentResp  `json:"payment"`
}

// Book runs the atomic purchase workflow for the caller.
func (h *BookingHandler) Book(c echo.Context) error {
	uid, _, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id required"})
	}
	discount := decimal.Zero
	if req.Discount != "" {
		d, err := decimal.NewFromString(req.Discount)
		if err != nil || d.IsNegative() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid discount"})
		}
		discount = d
	}

	res, err := h.Bookings.ConfirmBooking(c.Request().Context(), uid, service.BookingRequest{
		EventID:       req.EventID,
		TierID:        req.TierID,
		Quantity:      req.Quantity,
		AttendeeName:  req.AttendeeName,
		AttendeeEmail: req.AttendeeEmail,
		PromoCode:     req.PromoCode,
		Discount:      discount,
	})
	if err != nil {
		return writeErr(c, err)
	}

	out := bookResp{OrderNumber: res.OrderNumber, Payment: paymentToResp(res.Payment)}
	for i := range res.Tickets {
		out.Tickets = append(out.Tickets, ticketToResp(&res.Tickets[i]))
	}
	return c.JSON(http.StatusCreated, out)
}
