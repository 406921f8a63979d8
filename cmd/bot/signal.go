package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// WaitForShutdown blocks until SIGINT or SIGTERM arrives or ctx is done.
func WaitForShutdown(ctx context.Context) {
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer signal.Stop(sc)

	select {
	case <-sc:
		slog.Info("Shutdown signal received")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down")
	}
}
