package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/repository"
)

// NotificationHandler exposes the in-app notification endpoints.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(notifications *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{Notifications: notifications}
}

type notificationResp struct {
	ID        uint64     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      string     `json:"link,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func notificationToResp(n *model.Notification) notificationResp {
	return notificationResp{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	uid, _, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Notifications.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]notificationResp, 0, len(items))
	for i := range items {
		out = append(out, notificationToResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": out})
}

// MarkRead stamps one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	uid, _, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	if err := h.Notifications.MarkRead(c.Request().Context(), id, uid, time.Now()); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
