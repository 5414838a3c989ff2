package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=../mocks/events_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/rabbitmq"
	"hotel/internal/domains/booking/model"
	"hotel/shared/timezone"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	KeyBookingCreated   = "booking.created"
	KeyBookingCancelled = "booking.cancelled"
)

// BookingEvent is the message announced after a booking write commits.
type BookingEvent struct {
	Type          string          `json:"type"`
	BookingID     string          `json:"booking_id"`
	BookingNumber string          `json:"booking_number"`
	RoomID        string          `json:"room_id"`
	GuestEmail    string          `json:"guest_email"`
	CheckIn       string          `json:"check_in"`
	CheckOut      string          `json:"check_out"`
	Status        model.Status    `json:"status"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func NewBookingEvent(key string, booking model.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:          key,
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		RoomID:        booking.RoomID,
		GuestEmail:    booking.GuestEmail,
		CheckIn:       timezone.FormatDate(booking.CheckIn),
		CheckOut:      timezone.FormatDate(booking.CheckOut),
		Status:        booking.Status,
		TotalPrice:    booking.TotalPrice,
		OccurredAt:    at,
	}
}

func Decode(body []byte) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("decode booking event: %w", err)
	}

	return event, nil
}

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
}

// Publish keys the message by booking id so events of one booking stay ordered within a partition.
func (p *kafkaPublisher) Publish(ctx context.Context, event BookingEvent) error {
	return p.client.SendMessages(ctx, p.topic, kafka.Message{Key: event.BookingID, Value: event}) //nolint:wrapcheck
}

type rabbitPublisher struct {
	client rabbitmq.Client
}

func (p *rabbitPublisher) Publish(ctx context.Context, event BookingEvent) error {
	return p.client.PublishJSON(ctx, event.Type, event) //nolint:wrapcheck
}

// NewPublisher selects the broker named by EVENT_BROKER, kafka when unset.
func NewPublisher(cfg *config.Config, kafkaClient kafka.Client, rabbitClient rabbitmq.Client) Publisher {
	if cfg.EventBroker == config.EventBrokerRabbitMQ {
		log.Info().Str("exchange", cfg.RabbitMQ.Exchange).Msg("booking events published to rabbitmq")

		return &rabbitPublisher{client: rabbitClient}
	}

	log.Info().Str("topic", cfg.Kafka.Topic).Msg("booking events published to kafka")

	return &kafkaPublisher{client: kafkaClient, topic: cfg.Kafka.Topic}
}
