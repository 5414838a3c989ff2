package main

import (
	"context"
	"os/signal"
	"syscall"

	"hotel/config"
	"hotel/di"
	"hotel/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := di.InitializeWorker()

	defer func() {
		if err := w.Brokers.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event brokers")
		}
	}()

	log.Info().Str("broker", cfg.EventBroker).Msg("notification worker started")

	if err := w.Run(ctx); err != nil {
		log.Error().Err(err).Msg("notification worker stopped")

		return
	}

	log.Info().Msg("notification worker stopped")
}
