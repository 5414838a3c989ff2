package rabbitmq

//go:generate go run go.uber.org/mock/mockgen -source=./rabbitmq.go -destination=./mocks/rabbitmq_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/shared/constant"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName      = "rabbitmq"
	otelAttrExchange   = "messaging.destination"
	otelAttrRoutingKey = "messaging.rabbitmq.routing_key"

	exchangeKind = "topic"
)

var ErrNotConfigured = errors.New("rabbitmq url is not configured")

// Handler processes one delivery. The delivery is acked when it returns nil and requeued otherwise.
type Handler func(ctx context.Context, delivery amqp.Delivery) error

type Client interface {
	PublishJSON(ctx context.Context, key string, value any) (err error)
	Consume(ctx context.Context, keys []string, handler Handler) error
	Close() error
}

// client dials lazily so a process that never touches the broker does not need it to be reachable.
type client struct {
	config *config.Config
	otel   otel.Otel

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func New(config *config.Config, ot otel.Otel) Client {
	return &client{
		config: config,
		otel:   ot,
	}
}

func (c *client) channel() (*amqp.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil && !c.ch.IsClosed() {
		return c.ch, nil
	}

	if c.config.RabbitMQ.URL == constant.Empty {
		return nil, ErrNotConfigured
	}

	if c.conn == nil || c.conn.IsClosed() {
		conn, err := amqp.Dial(c.config.RabbitMQ.URL)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}

		c.conn = conn
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err = ch.ExchangeDeclare(c.config.RabbitMQ.Exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()

		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	log.Info().Str("exchange", c.config.RabbitMQ.Exchange).Msg("RabbitMQ channel opened")

	c.ch = ch

	return ch, nil
}

func (c *client) PublishJSON(ctx context.Context, key string, value any) (err error) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+".PublishJSON")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelAttrExchange:   c.config.RabbitMQ.Exchange,
		otelAttrRoutingKey: key,
	})

	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ch, err := c.channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, c.config.RabbitMQ.Exchange, key, false, false, amqp.Publishing{
		ContentType:  constant.ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to publish message to RabbitMQ.")

		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// Consume declares the configured queue, binds it to keys and blocks until ctx is done or the channel closes.
func (c *client) Consume(ctx context.Context, keys []string, handler Handler) error {
	ch, err := c.channel()
	if err != nil {
		return err
	}

	queue, err := ch.QueueDeclare(c.config.RabbitMQ.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range keys {
		if err = ch.QueueBind(queue.Name, key, c.config.RabbitMQ.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if c.config.RabbitMQ.Prefetch > 0 {
		if err = ch.Qos(c.config.RabbitMQ.Prefetch, 0, false); err != nil {
			return fmt.Errorf("set qos: %w", err)
		}
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue.Name, constant.Empty, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue.Name, err)
	}

	log.Info().Str("queue", queue.Name).Strs("keys", keys).Msg("RabbitMQ consumer started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Consumer context done.")

			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}

			c.handle(ctx, delivery, handler)
		}
	}
}

func (c *client) handle(ctx context.Context, delivery amqp.Delivery, handler Handler) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+".Consume")
	defer scope.End()

	scope.SetAttribute(otelAttrRoutingKey, delivery.RoutingKey)

	if err := handler(ctx, delivery); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", delivery.RoutingKey).Msg("Failed to handle RabbitMQ delivery.")

		_ = delivery.Nack(false, !delivery.Redelivered)

		return
	}

	if err := delivery.Ack(false); err != nil {
		log.Error().Err(err).Str("key", delivery.RoutingKey).Msg("Failed to ack RabbitMQ delivery.")
	}
}

func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil {
		_ = c.ch.Close()
		c.ch = nil
	}

	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil

		if err != nil && !errors.Is(err, amqp.ErrClosed) {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}

	return nil
}
