package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type rmqPublisher struct {
	conn     *amqp091.Connection
	exchange string
	logger   *zap.Logger
}

// NewPublisher connects to RabbitMQ and declares a durable topic exchange.
func NewPublisher(url, exchange string, logger *zap.Logger) (Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		exchange, "topic", true, false, false, false, nil,
	); err != nil {
		conn.Close()
		return nil, err
	}

	return &rmqPublisher{
		conn:     conn,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (p *rmqPublisher) Publish(ctx context.Context, key string, env Envelope) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if env.Meta.ID == "" {
		env.Meta.ID = uuid.NewString()
	}
	if env.Meta.OccurredAt.IsZero() {
		env.Meta.OccurredAt = time.Now()
	}

	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(
		ctx, p.exchange, key, false, false,
		amqp091.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp091.Persistent,
			MessageId:     env.Meta.ID,
			CorrelationId: env.Meta.CorrelationID,
			Timestamp:     env.Meta.OccurredAt,
			Body:          body,
		},
	)
	if err == nil {
		p.logger.Debug("Published event",
			zap.String("key", key),
			zap.String("exchange", p.exchange))
	}
	return err
}

func (p *rmqPublisher) Close() error {
	return p.conn.Close()
}

// nopPublisher drops every event; used when event publishing is disabled.
type nopPublisher struct{}

func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, string, Envelope) error { return nil }
func (nopPublisher) Close() error                                    { return nil }
