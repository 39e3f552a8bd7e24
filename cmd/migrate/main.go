// Command migrate applies the embedded database migrations and exits. It is
// meant for deployments that run the server with DATABASE_AUTO_MIGRATE=false.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/pollylang/pollylang-backend/internal/adapter/postgres"
	"github.com/pollylang/pollylang-backend/internal/app"
	"github.com/pollylang/pollylang-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(os.Stderr, cfg.Log)
	if !cfg.Database.Enabled() {
		logger.Error("DATABASE_DSN is not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		logger.Error("migrate failed", slog.String("error", err.Error()))
		pool.Close()
		os.Exit(1)
	}

	logger.Info("migrations completed", slog.Int("applied", len(applied)), slog.Any("versions", applied))
}
