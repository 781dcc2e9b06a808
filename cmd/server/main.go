package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Capstone-Eventify/Backend/internal/config"
	"github.com/Capstone-Eventify/Backend/internal/database"
	"github.com/Capstone-Eventify/Backend/internal/gateway"
	"github.com/Capstone-Eventify/Backend/internal/handler"
	"github.com/Capstone-Eventify/Backend/internal/ledger"
	"github.com/Capstone-Eventify/Backend/internal/middleware"
	"github.com/Capstone-Eventify/Backend/internal/queue"
	"github.com/Capstone-Eventify/Backend/internal/repository"
	"github.com/Capstone-Eventify/Backend/internal/router"
	"github.com/Capstone-Eventify/Backend/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories.
	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)
	tiers := repository.NewTierRepo(db)
	tickets := repository.NewTicketRepo(db)
	payments := repository.NewPaymentRepo(db)
	waitlist := repository.NewWaitlistRepo(db)
	notifications := repository.NewNotificationRepo(db)
	support := repository.NewSupportRepo(db)

	// Core collaborators.
	lg := ledger.New(db)
	gw := gateway.NewOfflineGateway()
	publisher := queue.NewPublisher(cfg.AMQPURL)

	// Services.
	bookings := service.NewBookingService(db, lg, events, tiers, tickets, payments, users, gw, publisher)
	ticketSvc := service.NewTicketService(db, lg, events, tiers, tickets, payments, waitlist, users, publisher)
	paymentSvc := service.NewPaymentService(db, lg, events, tickets, payments, gw, publisher)
	waitlistSvc := service.NewWaitlistService(events, tiers, waitlist, notifications)

	// Background workers.
	consumer := queue.NewConsumer(cfg.AMQPURL, notifications)
	go consumer.Start(ctx)
	sweeper := service.NewSweeper(events, time.Duration(cfg.SweepMinutes)*time.Minute)
	go sweeper.Run(ctx)

	// Redis is optional; rate limiting and browse caching degrade to
	// no-ops without it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, users),
		Events:        handler.NewEventHandler(events, tiers),
		Tiers:         handler.NewTierHandler(events, tiers),
		Bookings:      handler.NewBookingHandler(bookings),
		Tickets:       handler.NewTicketHandler(ticketSvc),
		Payments:      handler.NewPaymentHandler(paymentSvc),
		Waitlist:      handler.NewWaitlistHandler(waitlistSvc),
		Notifications: handler.NewNotificationHandler(notifications),
		Support:       handler.NewSupportHandler(support),
	}, cfg.JWTSecret, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
