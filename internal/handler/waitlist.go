package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/service"
)

// WaitlistHandler exposes the waitlist endpoints.
type WaitlistHandler struct {
	Waitlist *service.WaitlistService
}

func NewWaitlistHandler(waitlist *service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{Waitlist: waitlist}
}

type waitlistResp struct {
	ID          uint64    `json:"id"`
	EventID     uint64    `json:"event_id"`
	TierID      uint64    `json:"tier_id"`
	UserID      uint64    `json:"user_id"`
	Quantity    uint32    `json:"quantity"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

func waitlistToResp(w *model.WaitlistEntry) waitlistResp {
	return waitlistResp{
		ID:          w.ID,
		EventID:     w.EventID,
		TierID:      w.TierID,
		UserID:      w.UserID,
		Quantity:    w.Quantity,
		Status:      string(w.Status),
		Notes:       w.Notes,
		RequestedAt: w.RequestedAt,
	}
}

type joinReq struct {
	EventID  uint64 `json:"event_id"`
	TierID   uint64 `json:"tier_id"`
	Quantity uint32 `json:"quantity"`
	Notes    string `json:"notes"`
}

// Join places the caller on a tier's queue.
func (h *WaitlistHandler) Join(c echo.Context) error {
	uid, _, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req joinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 || req.TierID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and tier_id required"})
	}
	entry, err := h.Waitlist.Join(c.Request().Context(), uid, req.EventID, req.TierID, req.Quantity, req.Notes)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, waitlistToResp(entry))
}

type reviewReq struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// Review lets the organizer answer a pending entry by hand.
func (h *WaitlistHandler) Review(c echo.Context) error {
	uid, role, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	entry, err := h.Waitlist.Review(c.Request().Context(), uid, role, id, req.Approve, req.Notes)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, waitlistToResp(entry))
}

// Withdraw removes the caller's own pending entry.
func (h *WaitlistHandler) Withdraw(c echo.Context) error {
	uid, role, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	if err := h.Waitlist.Withdraw(c.Request().Context(), uid, role, id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine returns the caller's entries.
func (h *WaitlistHandler) ListMine(c echo.Context) error {
	uid, _, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entries, err := h.Waitlist.ListMine(c.Request().Context(), uid)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]waitlistResp, 0, len(entries))
	for i := range entries {
		out = append(out, waitlistToResp(&entries[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": out})
}

// ListForEvent returns an owned event's queue in FIFO order.
func (h *WaitlistHandler) ListForEvent(c echo.Context) error {
	uid, role, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	entries, err := h.Waitlist.ListForEvent(c.Request().Context(), uid, role, eventID)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]waitlistResp, 0, len(entries))
	for i := range entries {
		out = append(out, waitlistToResp(&entries[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": out})
}
