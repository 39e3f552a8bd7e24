// Command server runs the pollylang HTTP API.
//
// Configuration comes from CONFIG_PATH (YAML) and environment variables;
// GROQ_API_KEY is required. Without DATABASE_DSN the dialogue endpoints
// still work but accounts and saves answer 503.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/pollylang/pollylang-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
