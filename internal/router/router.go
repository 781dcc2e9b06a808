// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Capstone-Eventify/Backend/internal/handler"
	"github.com/Capstone-Eventify/Backend/internal/middleware"
	"github.com/Capstone-Eventify/Backend/internal/model"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Events        *handler.EventHandler
	Tiers         *handler.TierHandler
	Bookings      *handler.BookingHandler
	Tickets       *handler.TicketHandler
	Payments      *handler.PaymentHandler
	Waitlist      *handler.WaitlistHandler
	Notifications *handler.NotificationHandler
	Support       *handler.SupportHandler
}

// Register mounts all routes. The cache middleware is applied only to
// the public browse endpoints; everything mutating stays uncached.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Unauthenticated session endpoints.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	// Public browse endpoints, response-cached.
	browse := e.Group("/v1", cache)
	browse.GET("/events", h.Events.ListLive)
	browse.GET("/events/:id", h.Events.Get)
	browse.GET("/events/:id/tiers", h.Tiers.List)

	// Everything below requires a valid access token.
	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(jwtSecret))
	api.Use(middleware.RequireRole(model.RoleAttendee, model.RoleOrganizer, model.RoleAdmin))

	api.GET("/me", h.Auth.Me)

	api.POST("/bookings", h.Bookings.Book)

	api.GET("/tickets", h.Tickets.ListMine)
	api.GET("/tickets/:id", h.Tickets.Get)
	api.POST("/tickets/:id/cancel", h.Tickets.Cancel)

	api.POST("/payments/refund", h.Payments.Refund)
	api.GET("/payments", h.Payments.History)
	api.GET("/payments/:id", h.Payments.Get)

	api.POST("/waitlist", h.Waitlist.Join)
	api.GET("/waitlist", h.Waitlist.ListMine)
	api.DELETE("/waitlist/:id", h.Waitlist.Withdraw)

	api.GET("/notifications", h.Notifications.List)
	api.POST("/notifications/:id/read", h.Notifications.MarkRead)

	api.POST("/support-tickets", h.Support.Create)
	api.GET("/support-tickets", h.Support.ListMine)
	api.GET("/support-tickets/:id", h.Support.Get)

	// Organizer operations; admins pass too.
	org := api.Group("", middleware.RequireRole(model.RoleOrganizer, model.RoleAdmin))
	org.GET("/events/mine", h.Events.ListMine)
	org.POST("/events", h.Events.Create)
	org.PUT("/events/:id", h.Events.Update)
	org.DELETE("/events/:id", h.Events.Delete)
	org.POST("/events/:id/publish", h.Events.Publish)
	org.POST("/events/:id/cancel", h.Events.Cancel)

	org.POST("/events/:id/tiers", h.Tiers.Create)
	org.PUT("/tiers/:id", h.Tiers.Update)
	org.DELETE("/tiers/:id", h.Tiers.Deactivate)

	org.GET("/events/:id/attendees", h.Tickets.Roster)
	org.GET("/events/:id/waitlist", h.Waitlist.ListForEvent)
	org.POST("/waitlist/:id/review", h.Waitlist.Review)

	org.POST("/tickets/:id/no-show", h.Tickets.NoShow)
	org.POST("/tickets/:id/restore", h.Tickets.Restore)
	org.POST("/tickets/check-in", h.Tickets.CheckIn)

	// Admin help desk.
	admin := api.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/support-tickets/all", h.Support.ListAll)
	admin.PUT("/support-tickets/:id", h.Support.Update)
}
