package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/repository"
)

// EventHandler bundles dependencies for the event CRUD endpoints.
type EventHandler struct {
	Events *repository.EventRepo
	Tiers  *repository.TierRepo
}

func NewEventHandler(events *repository.EventRepo, tiers *repository.TierRepo) *EventHandler {
	return &EventHandler{Events: events, Tiers: tiers}
}

type eventReq struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Venue        string    `json:"venue"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	MaxAttendees uint32    `json:"max_attendees"`
}

type eventResp struct {
	ID              uint64     `json:"id"`
	OrganizerID     uint64     `json:"organizer_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Venue           string     `json:"venue"`
	StartsAt        time.Time  `json:"starts_at"`
	EndsAt          time.Time  `json:"ends_at"`
	MaxAttendees    uint32     `json:"max_attendees"`
	CurrentBookings uint32     `json:"current_bookings"`
	Remaining       uint32     `json:"remaining"`
	Status          string     `json:"status"`
	Tiers           []tierResp `json:"tiers,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// eventToResp renders an event with its computed status, so a LIVE
// event past its end time reads ENDED even before the sweep persisted
// the transition.
func eventToResp(e *model.Event, now time.Time) eventResp {
	remaining := uint32(0)
	if e.MaxAttendees > e.CurrentBookings {
		remaining = e.MaxAttendees - e.CurrentBookings
	}
	return eventResp{
		ID:              e.ID,
		OrganizerID:     e.OrganizerID,
		Title:           e.Title,
		Description:     e.Description,
		Venue:           e.Venue,
		StartsAt:        e.StartsAt,
		EndsAt:          e.EndsAt,
		MaxAttendees:    e.MaxAttendees,
		CurrentBookings: e.CurrentBookings,
		Remaining:       remaining,
		Status:          string(e.ComputedStatus(now)),
		CreatedAt:       e.CreatedAt,
	}
}

func (r eventReq) validate() string {
	if r.Title == "" {
		return "title required"
	}
	if r.StartsAt.IsZero() || r.EndsAt.IsZero() {
		return "starts_at/ends_at required"
	}
	if !r.EndsAt.After(r.StartsAt) {
		return "ends_at must be after starts_at"
	}
	if r.MaxAttendees < 1 {
		return "max_attendees must be positive"
	}
	return ""
}

// Create inserts a DRAFT event owned by the caller.
func (h *EventHandler) Create(c echo.Context) error {
	uid, _, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	e := &model.Event{
		OrganizerID:  uid,
		Title:        req.Title,
		Description:  req.Description,
		Venue:        req.Venue,
		StartsAt:     req.StartsAt.UTC(),
		EndsAt:       req.EndsAt.UTC(),
		MaxAttendees: req.MaxAttendees,
		Status:       model.EventDraft,
	}
	if err := h.Events.Create(c.Request().Context(), e); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, eventToResp(e, time.Now().UTC()))
}

// loadOwned fetches an event and verifies the caller may manage it.
func (h *EventHandler) loadOwned(c echo.Context) (*model.Event, error) {
	uid, role, err := actor(c)
	if err != nil {
		return nil, repository.ErrForbidden
	}
	id, err := pathID(c, "id")
	if err != nil {
		return nil, repository.ErrEventNotFound
	}
	e, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin && e.OrganizerID != uid {
		return nil, repository.ErrForbidden
	}
	return e, nil
}

// Update rewrites the descriptive fields of an owned event. Shrinking
// capacity below the booked count is refused.
func (h *EventHandler) Update(c echo.Context) error {
	e, err := h.loadOwned(c)
	if err != nil {
		return writeErr(c, err)
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	e.Title = req.Title
	e.Description = req.Description
	e.Venue = req.Venue
	e.StartsAt = req.StartsAt.UTC()
	e.EndsAt = req.EndsAt.UTC()
	e.MaxAttendees = req.MaxAttendees
	if err := h.Events.Update(c.Request().Context(), e); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, eventToResp(e, time.Now().UTC()))
}

// Publish takes an event LIVE so it can be browsed and booked.
func (h *EventHandler) Publish(c echo.Context) error {
	e, err := h.loadOwned(c)
	if err != nil {
		return writeErr(c, err)
	}
	now := time.Now().UTC()
	if e.Status == model.EventCancelled || !e.CanPublish(now) {
		return writeErr(c, repository.ErrConflict)
	}
	e.Status = model.EventLive
	if err := h.Events.Update(c.Request().Context(), e); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, eventToResp(e, now))
}

// Cancel sets the terminal CANCELLED status.
func (h *EventHandler) Cancel(c echo.Context) error {
	e, err := h.loadOwned(c)
	if err != nil {
		return writeErr(c, err)
	}
	e.Status = model.EventCancelled
	if err := h.Events.Update(c.Request().Context(), e); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, eventToResp(e, time.Now().UTC()))
}

// Delete removes an event. Events with bookings must be cancelled
// instead so ticket holders keep their records.
func (h *EventHandler) Delete(c echo.Context) error {
	e, err := h.loadOwned(c)
	if err != nil {
		return writeErr(c, err)
	}
	if e.CurrentBookings > 0 {
		return writeErr(c, repository.ErrConflict)
	}
	if err := h.Events.Delete(c.Request().Context(), e.ID); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns one event with its active tiers. Draft events are only
// visible to their organizer.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	e, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	now := time.Now().UTC()
	if e.ComputedStatus(now) == model.EventDraft {
		uid, role, err := actor(c)
		if err != nil || (role != model.RoleAdmin && e.OrganizerID != uid) {
			return writeErr(c, repository.ErrEventNotFound)
		}
	}
	resp := eventToResp(e, now)
	tiers, err := h.Tiers.ListByEvent(c.Request().Context(), e.ID, true)
	if err != nil {
		return writeErr(c, err)
	}
	for i := range tiers {
		resp.Tiers = append(resp.Tiers, tierToResp(&tiers[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// ListLive is the public browse listing.
func (h *EventHandler) ListLive(c echo.Context) error {
	now := time.Now().UTC()
	events, err := h.Events.ListLive(c.Request().Context(), now)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]eventResp, 0, len(events))
	for i := range events {
		out = append(out, eventToResp(&events[i], now))
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out})
}

// ListMine returns the caller's events in every status.
func (h *EventHandler) ListMine(c echo.Context) error {
	uid, _, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	events, err := h.Events.ListByOrganizer(c.Request().Context(), uid)
	if err != nil {
		return writeErr(c, err)
	}
	now := time.Now().UTC()
	out := make([]eventResp, 0, len(events))
	for i := range events {
		out = append(out, eventToResp(&events[i], now))
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out})
}
