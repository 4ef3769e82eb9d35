package scheduler

import (
	"context"
	"time"

	"quotehub_backend/platform/logger"
)

const defaultSweepInterval = time.Hour

// ExpirySweeper periodically enqueues an expiry sweep task. The sweep itself
// runs on the worker so a crashed ticker never loses a run mid-flight.
type ExpirySweeper struct {
	client   *Client
	log      *logger.Logger
	interval time.Duration
}

// NewExpirySweeper creates the sweeper with the given tick interval
func NewExpirySweeper(client *Client, log *logger.Logger, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &ExpirySweeper{client: client, log: log, interval: interval}
}

// Run enqueues a sweep immediately and then on every tick until the context
// is cancelled.
func (s *ExpirySweeper) Run(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}

	s.enqueue(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueue(ctx)
		}
	}
}

func (s *ExpirySweeper) enqueue(ctx context.Context) {
	err := s.client.EnqueueExpirySweep(ctx, QuoteExpirySweepPayload{RequestedAt: time.Now()})
	if err != nil {
		s.log.Warn("failed to enqueue expiry sweep", "error", err)
		return
	}
	s.log.Debug("expiry sweep enqueued")
}
