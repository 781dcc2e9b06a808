package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/service"
)

// TicketHandler exposes the ticket lifecycle endpoints.
type TicketHandler struct {
	Tickets *service.TicketService
}

func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	return &TicketHandler{Tickets: tickets}
}

type ticketResp struct {
	ID          uint64     `json:"id"`
	EventID     uint64     `json:"event_id"`
	AttendeeID  uint64     `json:"attendee_id"`
	TierID      *uint64    `json:"tier_id,omitempty"`
	TicketType  string     `json:"ticket_type"`
	Price       string     `json:"price"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	OrderNumber string     `json:"order_number"`
	QRCode      string     `json:"qr_code"`
	CheckedIn   bool       `json:"checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ticketToResp(t *model.Ticket) ticketResp {
	return ticketResp{
		ID:          t.ID,
		EventID:     t.EventID,
		AttendeeID:  t.AttendeeID,
		TierID:      t.TierID,
		TicketType:  t.TicketType,
		Price:       t.Price.String(),
		Currency:    t.Currency,
		Status:      string(t.Status),
		OrderNumber: t.OrderNumber,
		QRCode:      t.QRCode,
		CheckedIn:   t.CheckedIn,
		CheckedInAt: t.CheckedInAt,
		CreatedAt:   t.CreatedAt,
	}
}

// ListMine returns the caller's tickets.
func (h *TicketHandler) ListMine(c echo.Context) error {
	uid, _, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tickets, err := h.Tickets.ListMine(c.Request().Context(), uid)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]ticketResp, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketToResp(&tickets[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": out})
}

// Get returns one ticket for its holder or the event organizer.
func (h *TicketHandler) Get(c echo.Context) error {
	uid, role, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	t, err := h.Tickets.Get(c.Request().Context(), uid, role, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, ticketToResp(t))
}

// Cancel performs a manual, terminal cancellation.
func (h *TicketHandler) Cancel(c echo.Context) error {
	uid, role, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	t, err := h.Tickets.Cancel(c.Request().Context(), uid, role, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, ticketToResp(t))
}

type noShowResp struct {
	Ticket   ticketResp  `json:"ticket"`
	Promoted *ticketResp `json:"promoted,omitempty"`
}

// NoShow cancels a ticket as a no-show and reports the waitlist
// promotion it triggered, if any.
func (h *TicketHandler) NoShow(c echo.Context) error {
	uid, role, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	res, err := h.Tickets.MarkNoShow(c.Request().Context(), uid, role, id)
	if err != nil {
		return writeErr(c, err)
	}
	out := noShowResp{Ticket: ticketToResp(res.Ticket)}
	if res.Promoted != nil {
		p := ticketToResp(res.Promoted)
		out.Promoted = &p
	}
	return c.JSON(http.StatusOK, out)
}

// Restore reverts a no-show cancellation while capacity allows.
func (h *TicketHandler) Restore(c echo.Context) error {
	uid, role, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	t, err := h.Tickets.RestoreNoShow(c.Request().Context(), uid, role, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, ticketToResp(t))
}

type checkInReq struct {
	QRCode string `json:"qr_code"`
}

// CheckIn resolves a scanned QR code and stamps the ticket.
func (h *TicketHandler) CheckIn(c echo.Context) error {
	uid, role, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkInReq
	if err := c.Bind(&req); err != nil || req.QRCode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "qr_code required"})
	}
	t, err := h.Tickets.CheckIn(c.Request().Context(), uid, role, req.QRCode)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, ticketToResp(t))
}

// Roster returns all tickets of an owned event.
func (h *TicketHandler) Roster(c echo.Context) error {
	uid, role, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	tickets, err := h.Tickets.Roster(c.Request().Context(), uid, role, eventID)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]ticketResp, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketToResp(&tickets[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": out})
}
