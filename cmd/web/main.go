package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront_backend/internal/app"
	"storefront_backend/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.NewCommand().Run(ctx, os.Args); err != nil {
		logger.Fatal("storefront exited with error", "error", err)
	}
}
