package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/soocke/frame-aide/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	level := new(slog.LevelVar)
	logger := NewLogger(level, os.Stderr)

	if err := app.Execute(ctx, os.Args[1:], os.Stdout, logger, level); err != nil {
		logger.Error("frameaide", "error", err)
		stop()
		os.Exit(1)
	}
}
