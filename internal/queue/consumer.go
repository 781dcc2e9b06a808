package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Capstone-Eventify/Backend/internal/model"
	"github.com/Capstone-Eventify/Backend/internal/repository"
)

// Consumer listens to the notification queues and materializes each
// message into in-app notification rows. It runs a reconnect loop with
// exponential backoff and keeps the server operating through broker
// outages; processing errors are logged and the offending message is
// rejected without requeue to avoid tight loops.
type Consumer struct {
	url           string
	notifications *repository.NotificationRepo
}

// NewConsumer returns a Consumer writing through the given repository.
func NewConsumer(url string, notifications *repository.NotificationRepo) *Consumer {
	return &Consumer{url: brokerURL(url), notifications: notifications}
}

// Start runs the consume loop until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			log.Printf("notify-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("notify-consumer: consume loop ended: %v; reconnecting", err)
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("notify-consumer: set QoS failed: %v", err)
	}

	queues := []string{TicketsBookedQueue, WaitlistPromotedQueue, TicketRefundedQueue}
	deliveries := make(chan delivery)
	done := make(chan struct{})
	defer close(done)
	for _, name := range queues {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		go forward(name, msgs, deliveries, done)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case dv, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handle(ctx, dv.queue, dv.d.Body); err != nil {
				log.Printf("notify-consumer: handle %s failed: %v", dv.queue, err)
				_ = dv.d.Nack(false, false)
				continue
			}
			_ = dv.d.Ack(false)
		}
	}
}

type delivery struct {
	queue string
	d     amqp.Delivery
}

// forward relays one queue's deliveries into the shared channel. The
// done channel unblocks a send in flight once the consume loop has
// returned, so a forwarder never outlives its loop.
func forward(queueName string, msgs <-chan amqp.Delivery, out chan<- delivery, done <-chan struct{}) {
	for d := range msgs {
		select {
		case out <- delivery{queue: queueName, d: d}:
		case <-done:
			return
		}
	}
}

func (c *Consumer) handle(ctx context.Context, queueName string, body []byte) error {
	switch queueName {
	case TicketsBookedQueue:
		var ev TicketsBookedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		return c.handleBooked(ctx, ev)
	case WaitlistPromotedQueue:
		var ev WaitlistPromotedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		return c.handlePromoted(ctx, ev)
	case TicketRefundedQueue:
		var ev TicketRefundedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		return c.handleRefunded(ctx, ev)
	default:
		return fmt.Errorf("unknown queue %s", queueName)
	}
}

func (c *Consumer) handleBooked(ctx context.Context, ev TicketsBookedEvent) error {
	n := &model.Notification{
		UserID:  ev.UserID,
		Type:    model.NotifyBookingConfirmed,
		Title:   "Booking confirmed",
		Message: fmt.Sprintf("Your order %s for %q is confirmed (%d ticket(s), %s %s).", ev.OrderNumber, ev.EventTitle, ev.Quantity, ev.Amount, ev.Currency),
		Link:    fmt.Sprintf("/events/%d", ev.EventID),
	}
	if err := c.notifications.Create(ctx, n); err != nil {
		return err
	}
	org := &model.Notification{
		UserID:  ev.OrganizerID,
		Type:    model.NotifyOrganizerActivity,
		Title:   "Tickets sold",
		Message: fmt.Sprintf("%s bought %d ticket(s) for %q (order %s).", ev.UserName, ev.Quantity, ev.EventTitle, ev.OrderNumber),
		Link:    fmt.Sprintf("/events/%d/attendees", ev.EventID),
	}
	return c.notifications.Create(ctx, org)
}

func (c *Consumer) handlePromoted(ctx context.Context, ev WaitlistPromotedEvent) error {
	n := &model.Notification{
		UserID:  ev.PromotedUserID,
		Type:    model.NotifyWaitlistPromoted,
		Title:   "You're in!",
		Message: fmt.Sprintf("A spot opened up for %q and your waitlist request was promoted to a confirmed ticket (order %s).", ev.EventTitle, ev.OrderNumber),
		Link:    fmt.Sprintf("/tickets/%d", ev.NewTicketID),
	}
	if err := c.notifications.Create(ctx, n); err != nil {
		return err
	}
	org := &model.Notification{
		UserID:  ev.OrganizerID,
		Type:    model.NotifyOrganizerActivity,
		Title:   "Waitlist promotion",
		Message: fmt.Sprintf("%s was promoted from the waitlist for %q.", ev.PromotedUserName, ev.EventTitle),
		Link:    fmt.Sprintf("/events/%d/waitlist", ev.EventID),
	}
	return c.notifications.Create(ctx, org)
}

func (c *Consumer) handleRefunded(ctx context.Context, ev TicketRefundedEvent) error {
	n := &model.Notification{
		UserID:  ev.UserID,
		Type:    model.NotifyTicketRefunded,
		Title:   "Refund processed",
		Message: fmt.Sprintf("Your refund of %s %s for %q was processed (ref %s).", ev.Amount, ev.Currency, ev.EventTitle, ev.RefundID),
		Link:    fmt.Sprintf("/events/%d", ev.EventID),
	}
	return c.notifications.Create(ctx, n)
}
