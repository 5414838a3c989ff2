package di

import (
	"errors"

	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/postgres"
	"hotel/infras/rabbitmq"
	"hotel/internal/domains/booking/number"
	"hotel/internal/domains/notification/worker"
	"hotel/transport/http"
	"hotel/transport/http/middleware"
	"hotel/transport/http/router"

	"github.com/rs/zerolog/log"
)

// Brokers groups the event broker clients so they are closed together on shutdown.
type Brokers struct {
	Kafka    kafka.Client
	RabbitMQ rabbitmq.Client
}

func (b Brokers) Close() error {
	return errors.Join(b.Kafka.Close(), b.RabbitMQ.Close())
}

// Worker is the notification worker together with the brokers it consumes from.
type Worker struct {
	worker.Worker
	Brokers Brokers
}

func newNumberGenerator(cfg *config.Config) number.Generator {
	return number.NewGenerator(cfg.Booking.NumberPrefix)
}

func newHTTP(cfg *config.Config, r router.Router, app middleware.AppMiddleware, auth middleware.Auth, brokers Brokers, db *postgres.Connection) *http.HTTP {
	server := http.New(cfg, r, app, auth)

	server.OnShutdown(func() {
		if err := brokers.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event brokers")
		}
	})

	server.OnShutdown(func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database connections")
		}
	})

	return server
}

func newWorker(w worker.Worker, brokers Brokers) *Worker {
	return &Worker{
		Worker:  w,
		Brokers: brokers,
	}
}
