// Command sweeper runs the background worker and the quote expiry scheduler
// as a standalone process, for deployments that keep background load off the
// API instances.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"quotehub_backend/internal/config"
	"quotehub_backend/internal/db"
	"quotehub_backend/internal/events"
	"quotehub_backend/internal/quotes/repository"
	"quotehub_backend/internal/quotes/service"
	"quotehub_backend/internal/scheduler"
	"quotehub_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting sweeper", "env", cfg.Env, "interval", cfg.SweepInterval.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	events.RegisterAuditLogger(eventBus, log)
	quotesService := service.New(repository.New(pool), nil, eventBus, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer client.Close()

	worker, err := scheduler.NewWorker(cfg, quotesService, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	sweeper := scheduler.NewExpirySweeper(client, log, cfg.SweepInterval)
	go sweeper.Run(ctx)

	if err := worker.Run(ctx); err != nil {
		log.Error("worker error", "error", err)
		panic("worker error: " + err.Error())
	}
	log.Info("sweeper stopped")
}
