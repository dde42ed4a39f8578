package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ghuser/grocerylist/migrations/grocery"
	"github.com/ghuser/grocerylist/pkg/config"
	"github.com/ghuser/grocerylist/pkg/logger"
	"github.com/ghuser/grocerylist/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg).With("component", "migrate")

	if err := migrator.RunMigrations(context.Background(), cfg.DatabaseURL, grocery.FS, log); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
}
