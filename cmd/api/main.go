package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/markdave123-py/fatura-gateway/internal/app"
	"github.com/markdave123-py/fatura-gateway/internal/config"
	"github.com/markdave123-py/fatura-gateway/internal/observability"
)

func main() {
	// Handle SIGINT/SIGTERM for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "fatura-gateway",
	})

	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer application.Close()

	if application.Capability != nil {
		logger.Info().Str("engine", application.Capability.Source()).Msg("fatura-gateway is running")
	}

	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		application.Close()
		os.Exit(1)
	}
	logger.Info().Msg("shut down cleanly")
}
