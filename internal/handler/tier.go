package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/repository"
)

// TierHandler bundles dependencies for the ticket tier endpoints.
type TierHandler struct {
	Events *repository.EventRepo
	Tiers  *repository.TierRepo
}

func NewTierHandler(events *repository.EventRepo, tiers *repository.TierRepo) *TierHandler {
	return &TierHandler{Events: events, Tiers: tiers}
}

type tierReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	Quantity    uint32 `json:"quantity"`
	IsActive    *bool  `json:"is_active"`
}

type tierResp struct {
	ID          uint64    `json:"id"`
	EventID     uint64    `json:"event_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Currency    string    `json:"currency"`
	Quantity    uint32    `json:"quantity"`
	Available   uint32    `json:"available"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func tierToResp(t *model.TicketTier) tierResp {
	return tierResp{
		ID:          t.ID,
		EventID:     t.EventID,
		Name:        t.Name,
		Description: t.Description,
		Price:       t.Price.String(),
		Currency:    t.Currency,
		Quantity:    t.Quantity,
		Available:   t.Available,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
	}
}

func (r tierReq) parse() (price decimal.Decimal, currency string, msg string) {
	if r.Name == "" {
		return price, "", "name required"
	}
	if r.Quantity < 1 {
		return price, "", "quantity must be positive"
	}
	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() {
		return price, "", "invalid price"
	}
	currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return price, "", "invalid currency"
	}
	return price, currency, ""
}

// ownedEvent fetches the parent event and verifies ownership.
func (h *TierHandler) ownedEvent(c echo.Context, eventID uint64) (*model.Event, error) {
	uid, role, err := actor(c)
	if err != nil {
		return nil, repository.ErrForbidden
	}
	e, err := h.Events.GetByID(c.Request().Context(), eventID)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin && e.OrganizerID != uid {
		return nil, repository.ErrForbidden
	}
	return e, nil
}

// Create adds a tier to an owned event. Availability starts at the full
// allocation.
func (h *TierHandler) Create(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if _, err := h.ownedEvent(c, eventID); err != nil {
		return writeErr(c, err)
	}
	var req tierReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	price, currency, msg := req.parse()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	t := &model.TicketTier{
		EventID:     eventID,
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Currency:    currency,
		Quantity:    req.Quantity,
		IsActive:    true,
	}
	if err := h.Tiers.Create(c.Request().Context(), t); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, tierToResp(t))
}

// Update rewrites a tier. Growing the allocation extends availability;
// shrinking below the sold count is refused.
func (h *TierHandler) Update(c echo.Context) error {
	tierID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tier id"})
	}
	t, err := h.Tiers.GetByID(c.Request().Context(), tierID)
	if err != nil {
		return writeErr(c, err)
	}
	if _, err := h.ownedEvent(c, t.EventID); err != nil {
		return writeErr(c, err)
	}
	var req tierReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	price, currency, msg := req.parse()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	t.Name = req.Name
	t.Description = req.Description
	t.Price = price
	t.Currency = currency
	t.Quantity = req.Quantity
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if err := h.Tiers.Update(c.Request().Context(), t); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, tierToResp(t))
}

// Deactivate soft-deletes a tier; existing tickets keep their
// reference.
func (h *TierHandler) Deactivate(c echo.Context) error {
	tierID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tier id"})
	}
	t, err := h.Tiers.GetByID(c.Request().Context(), tierID)
	if err != nil {
		return writeErr(c, err)
	}
	if _, err := h.ownedEvent(c, t.EventID); err != nil {
		return writeErr(c, err)
	}
	if err := h.Tiers.Deactivate(c.Request().Context(), tierID); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns an event's active tiers.
func (h *TierHandler) List(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	tiers, err := h.Tiers.ListByEvent(c.Request().Context(), eventID, true)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]tierResp, 0, len(tiers))
	for i := range tiers {
		out = append(out, tierToResp(&tiers[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"tiers": out})
}
