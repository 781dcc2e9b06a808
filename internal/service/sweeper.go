package service

import (
	"context"
	"log"
	"time"

	"github.com/Capstone-Eventify/Backend/internal/monitoring"
	"github.com/Capstone-Eventify/Backend/internal/repository"
)

// Sweeper ages LIVE events into ENDED on a timer. The underlying
// statement is idempotent, so overlapping or restarted sweeps are
// harmless. Reads between sweeps stay correct because handlers report
// the computed status.
type Sweeper struct {
	events   *repository.EventRepo
	interval time.Duration
}

// NewSweeper returns a Sweeper running at the given interval, with an
// hourly default.
func NewSweeper(events *repository.EventRepo, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{events: events, interval: interval}
}

// Run sweeps once immediately and then on every tick until the context
// is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.events.CloseExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("status sweep: %v", err)
		return
	}
	monitoring.TrackEventsClosed(n)
	if n > 0 {
		log.Printf("status sweep: closed %d event(s)", n)
	}
}
