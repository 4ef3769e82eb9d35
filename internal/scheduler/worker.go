package scheduler

import (
	"context"
	"fmt"
	"time"

	"quotehub_backend/internal/config"
	"quotehub_backend/internal/events"
	quotesservice "quotehub_backend/internal/quotes/service"
	"quotehub_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes background tasks from Redis
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	quotes *quotesservice.Service
	bus    events.Bus
	log    *logger.Logger
}

// NewWorker creates an asynq server wired to the task handlers
func NewWorker(cfg *config.Config, quotes *quotesservice.Service, bus events.Bus, log *logger.Logger) (*Worker, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(cfg.RedisURL, cfg.RedisTLSInsecure)
	if err != nil {
		return nil, err
	}

	queue := cfg.AsynqQueueName
	if queue == "" {
		queue = "default"
	}
	concurrency := cfg.AsynqConcurrency
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		quotes: quotes,
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskQuoteExpirySweep, w.handleQuoteExpirySweep)

	return w, nil
}

func (w *Worker) handleQuoteExpirySweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseQuoteExpirySweepPayload(task)
	if err != nil {
		return err
	}

	start := time.Now()
	expired, err := w.quotes.ExpireOverdue(ctx)
	if err != nil {
		return fmt.Errorf("expiry sweep: %w", err)
	}

	w.log.SweepResult(expired, float64(time.Since(start).Milliseconds()))
	w.log.Debug("expiry sweep completed", "requestedAt", payload.RequestedAt)
	return nil
}

// Run starts the worker and blocks until the context is cancelled
func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return nil
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()

	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return nil
	case err := <-errCh:
		return err
	}
}
