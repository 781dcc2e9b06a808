package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/service"
)

// PaymentHandler exposes refund and payment history endpoints.
type PaymentHandler struct {
	Payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: payments}
}

type paymentResp struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	EventID     uint64    `json:"event_id"`
	TicketID    uint64    `json:"ticket_id"`
	OrderNumber string    `json:"order_number"`
	Quantity    int       `json:"quantity"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	RefundID    string    `json:"refund_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func paymentToResp(p *model.Payment) paymentResp {
	out := paymentResp{
		ID:          p.ID,
		UserID:      p.UserID,
		EventID:     p.EventID,
		TicketID:    p.TicketID,
		OrderNumber: p.Meta.OrderNumber,
		Quantity:    p.Meta.Quantity,
		Amount:      p.Amount.String(),
		Currency:    p.Currency,
		Method:      p.Method,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
	}
	if p.Meta.Refund != nil {
		out.RefundID = p.Meta.Refund.RefundID
	}
	return out
}

type refundReq struct {
	TicketID   uint64 `json:"ticket_id"`
	PaymentRef string `json:"payment_ref"`
	Reason     string `json:"reason"`
}

// Refund reverses one of the caller's payments.
func (h *PaymentHandler) Refund(c echo.Context) error {
	uid, _, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req refundReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TicketID == 0 && req.PaymentRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_id or payment_ref required"})
	}
	p, err := h.Payments.Refund(c.Request().Context(), uid, service.RefundRequest{
		TicketID:   req.TicketID,
		PaymentRef: req.PaymentRef,
		Reason:     req.Reason,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, paymentToResp(p))
}

// Get returns one payment for its payer.
func (h *PaymentHandler) Get(c echo.Context) error {
	uid, role, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	p, err := h.Payments.Get(c.Request().Context(), uid, role, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, paymentToResp(p))
}

// History returns the caller's payments, newest first.
func (h *PaymentHandler) History(c echo.Context) error {
	uid, _, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	payments, err := h.Payments.History(c.Request().Context(), uid)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]paymentResp, 0, len(payments))
	for i := range payments {
		out = append(out, paymentToResp(&payments[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": out})
}
