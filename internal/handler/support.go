package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/repository"
)

// SupportHandler exposes the help-desk endpoints. Tickets are created
// by any authenticated user and worked by admins.
type SupportHandler struct {
	Support *repository.SupportRepo
}

func NewSupportHandler(support *repository.SupportRepo) *SupportHandler {
	return &SupportHandler{Support: support}
}

type supportCreateReq struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

type supportUpdateReq struct {
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	Resolution string `json:"resolution"`
}

type supportResp struct {
	ID          uint64     `json:"id"`
	UserID      uint64     `json:"user_id"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Resolution  string     `json:"resolution,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func supportToResp(t *model.SupportTicket) supportResp {
	return supportResp{
		ID:          t.ID,
		UserID:      t.UserID,
		Subject:     t.Subject,
		Description: t.Description,
		Category:    t.Category,
		Priority:    t.Priority,
		Status:      string(t.Status),
		Resolution:  t.Resolution,
		ResolvedAt:  t.ResolvedAt,
		CreatedAt:   t.CreatedAt,
	}
}

func parseSupportStatus(s string) (model.SupportStatus, bool) {
	status := model.SupportStatus(strings.ToLower(s))
	switch status {
	case model.SupportOpen, model.SupportInProgress, model.SupportResolved, model.SupportClosed:
		return status, true
	}
	return "", false
}

// Create opens a ticket for the caller.
func (h *SupportHandler) Create(c echo.Context) error {
	uid, _, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req supportCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Subject == "" || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject and description required"})
	}
	if req.Category == "" {
		req.Category = "general"
	}
	if req.Priority == "" {
		req.Priority = model.SupportPriorityMedium
	}

	t := &model.SupportTicket{
		UserID:      uid,
		Subject:     req.Subject,
		Description: req.Description,
		Category:    strings.ToLower(req.Category),
		Priority:    strings.ToLower(req.Priority),
		Status:      model.SupportOpen,
	}
	if err := h.Support.Create(c.Request().Context(), t); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, supportToResp(t))
}

// ListMine returns the caller's tickets.
func (h *SupportHandler) ListMine(c echo.Context) error {
	uid, _, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tickets, err := h.Support.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]supportResp, 0, len(tickets))
	for i := range tickets {
		out = append(out, supportToResp(&tickets[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": out})
}

// ListAll returns every ticket for the admin desk.
func (h *SupportHandler) ListAll(c echo.Context) error {
	tickets, err := h.Support.ListAll(c.Request().Context())
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]supportResp, 0, len(tickets))
	for i := range tickets {
		out = append(out, supportToResp(&tickets[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": out})
}

// Get returns one ticket for its owner or an admin.
func (h *SupportHandler) Get(c echo.Context) error {
	uid, role, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	t, err := h.Support.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	if t.UserID != uid && role != model.RoleAdmin {
		return writeErr(c, repository.ErrForbidden)
	}
	return c.JSON(http.StatusOK, supportToResp(t))
}

// Update lets an admin progress a ticket. A transition into a terminal
// status stamps the resolution time.
func (h *SupportHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	t, err := h.Support.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeErr(c, err)
	}
	var req supportUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != "" {
		status, ok := parseSupportStatus(req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		t.Status = status
	}
	if req.Priority != "" {
		t.Priority = strings.ToLower(req.Priority)
	}
	if req.Resolution != "" {
		t.Resolution = req.Resolution
	}
	if t.Status.Terminal() && t.ResolvedAt == nil {
		now := time.Now().UTC()
		t.ResolvedAt = &now
	}
	if err := h.Support.Update(c.Request().Context(), t); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, supportToResp(t))
}
