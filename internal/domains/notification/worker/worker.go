// Package worker turns booking events into guest notifications.
package worker

import (
	"context"
	"errors"

	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/rabbitmq"
	"hotel/internal/domains/booking/events"
	"hotel/internal/domains/booking/service"
	"hotel/shared/failure"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const defaultConsumerGroup = "hotel-notifications"

type Worker interface {
	// Run consumes booking events until ctx is done.
	Run(ctx context.Context) error
}

type worker struct {
	cfg      *config.Config
	kafka    kafka.Client
	rabbitmq rabbitmq.Client
	bookings service.Booking
}

func New(cfg *config.Config, kafkaClient kafka.Client, rabbitClient rabbitmq.Client, bookings service.Booking) Worker {
	return &worker{
		cfg:      cfg,
		kafka:    kafkaClient,
		rabbitmq: rabbitClient,
		bookings: bookings,
	}
}

func (w *worker) Run(ctx context.Context) error {
	if w.cfg.EventBroker == config.EventBrokerRabbitMQ {
		log.Info().Str("queue", w.cfg.RabbitMQ.Queue).Msg("notification worker consuming rabbitmq")

		return w.rabbitmq.Consume(ctx, []string{events.KeyBookingCreated}, w.handleDelivery) //nolint:wrapcheck
	}

	group := w.cfg.Kafka.ConsumerGroup
	if group == "" {
		group = defaultConsumerGroup
	}

	log.Info().Str("topic", w.cfg.Kafka.Topic).Str("group", group).Msg("notification worker consuming kafka")

	w.kafka.Consume(ctx, group, w.cfg.Kafka.Topic, w.handleMessage)

	return nil
}

func (w *worker) handleMessage(ctx context.Context, msg kafkaGo.Message) error {
	event, err := kafka.Decode[events.BookingEvent](msg)
	if err != nil {
		log.Error().Err(err).Int64("offset", msg.Offset).Msg("dropping malformed booking event")

		return nil
	}

	return w.handle(ctx, event)
}

func (w *worker) handleDelivery(ctx context.Context, delivery amqp.Delivery) error {
	event, err := events.Decode(delivery.Body)
	if err != nil {
		log.Error().Err(err).Str("key", delivery.RoutingKey).Msg("dropping malformed booking event")

		return nil
	}

	return w.handle(ctx, event)
}

// handle returns an error only for failures worth redelivering.
func (w *worker) handle(ctx context.Context, event events.BookingEvent) error {
	switch event.Type {
	case events.KeyBookingCreated:
		err := w.bookings.DeliverConfirmation(ctx, event.BookingID)

		var fail *failure.Failure
		if errors.As(err, &fail) && fail.Kind == failure.KindNotFound {
			log.Warn().Str("booking_id", event.BookingID).Msg("booking of event no longer exists")

			return nil
		}

		return err //nolint:wrapcheck
	default:
		log.Debug().Str("type", event.Type).Msg("skipping booking event")
	}

	return nil
}
