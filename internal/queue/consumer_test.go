package queue

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardRelaysDeliveries(t *testing.T) {
	msgs := make(chan amqp.Delivery, 1)
	out := make(chan delivery, 1)
	done := make(chan struct{})

	msgs <- amqp.Delivery{Body: []byte("payload")}
	close(msgs)

	finished := make(chan struct{})
	go func() {
		forward(TicketsBookedQueue, msgs, out, done)
		close(finished)
	}()

	select {
	case dv := <-out:
		assert.Equal(t, TicketsBookedQueue, dv.queue)
		assert.Equal(t, []byte("payload"), dv.d.Body)
	case <-time.After(time.Second):
		t.Fatal("delivery was not forwarded")
	}
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not return after its source closed")
	}
}

func TestForwardStopsWithPendingSend(t *testing.T) {
	msgs := make(chan amqp.Delivery, 1)
	out := make(chan delivery) // nobody reads, the send blocks
	done := make(chan struct{})

	msgs <- amqp.Delivery{}

	finished := make(chan struct{})
	go func() {
		forward(TicketsBookedQueue, msgs, out, done)
		close(finished)
	}()

	close(done)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("forwarder kept blocking after the consume loop ended")
	}
	require.Len(t, out, 0)
}
