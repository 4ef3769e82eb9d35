package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quotehub_backend/internal/adapters"
	"quotehub_backend/internal/catalog"
	"quotehub_backend/internal/config"
	"quotehub_backend/internal/conversion"
	"quotehub_backend/internal/db"
	"quotehub_backend/internal/events"
	apphttp "quotehub_backend/internal/http"
	"quotehub_backend/internal/inventory"
	"quotehub_backend/internal/quotes"
	quotesrepo "quotehub_backend/internal/quotes/repository"
	"quotehub_backend/internal/scheduler"
	"quotehub_backend/platform/logger"
	"quotehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	events.RegisterAuditLogger(eventBus, log)
	val := validator.New()
	if err := val.RegisterValidation("currency", validator.CurrencyCode); err != nil {
		log.Error("failed to register validations", "error", err)
		panic("failed to register validations: " + err.Error())
	}

	// Domain modules
	catalogModule := catalog.NewModule(pool, val)
	inventoryModule := inventory.NewModule(pool, val)

	catalogReader := adapters.NewCatalogProductReader(catalogModule.Repository())
	quotesModule := quotes.NewModule(pool, catalogReader, eventBus, val, log)

	// Conversion reads quotes and inventory through ports so the orchestrator
	// stays decoupled from both modules.
	quoteRepo := quotesrepo.New(pool)
	conversionModule := conversion.NewModule(
		adapters.NewConversionQuoteReader(quoteRepo),
		adapters.NewConversionInventoryReader(inventoryModule.Service()),
		adapters.NewConversionOrderCreator(inventoryModule.Service()),
		adapters.NewConversionNoteAppender(quoteRepo),
		eventBus,
		val,
		log,
		cfg.SourceLocation,
	)

	g, gctx := errgroup.WithContext(ctx)

	// Background expiry sweeps run through Redis when configured.
	if cfg.RedisURL != "" {
		sweepClient, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		defer sweepClient.Close()

		worker, err := scheduler.NewWorker(cfg, quotesModule.Service(), eventBus, log)
		if err != nil {
			log.Error("failed to initialize scheduler worker", "error", err)
			panic("failed to initialize scheduler worker: " + err.Error())
		}
		g.Go(func() error {
			return worker.Run(gctx)
		})

		sweeper := scheduler.NewExpirySweeper(sweepClient, log, cfg.SweepInterval)
		g.Go(func() error {
			sweeper.Run(gctx)
			return nil
		})
		log.Info("expiry sweeper started", "interval", cfg.SweepInterval.String())
	} else {
		log.Warn("REDIS_URL not configured; expiry sweeps disabled")
	}

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: pool,
		Modules: []apphttp.Module{
			catalogModule,
			inventoryModule,
			quotesModule,
			conversionModule,
		},
	}

	engine := apphttp.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("shutdown complete")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}
