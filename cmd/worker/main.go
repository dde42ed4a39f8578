package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"

	"github.com/ghuser/grocerylist/pkg/config"
	"github.com/ghuser/grocerylist/pkg/database"
	"github.com/ghuser/grocerylist/pkg/events"
	"github.com/ghuser/grocerylist/pkg/logger"
	"github.com/ghuser/grocerylist/pkg/telemetry"
	"github.com/ghuser/grocerylist/services/grocery/application/subscribers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg).With("component", "worker")

	// Only the postgres store publishes events.
	if !cfg.UsesPostgres() {
		log.Error("worker requires the postgres store backend", "store", cfg.StoreBackend)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close() //nolint:errcheck

	eventBus, err := events.New(pool.DB(), log, events.Options{ConsumerGroup: cfg.ServiceName + "-worker"})
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	itemEvents, err := subscribers.NewItemEvents(otel.Meter(cfg.ServiceName+"/worker"), log)
	if err != nil {
		log.Error("failed to create item event metrics", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	if err := itemEvents.Register(eventBus); err != nil {
		log.Error("failed to register event handlers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	log.Info("worker started")
	if err := eventBus.Run(ctx); err != nil {
		log.Error("event router stopped", "error", err)
	}
	log.Info("worker stopped")
}
