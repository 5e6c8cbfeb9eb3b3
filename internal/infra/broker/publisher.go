package broker

import (
	"context"
	"log/slog"
	"sync"

	"turf-reservation/internal/pkg/config"
	"turf-reservation/internal/pkg/errs"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Message is one outbox row on its way to the exchange.
type Message struct {
	ID      uuid.UUID
	Topic   string
	Payload []byte
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// AMQPPublisher publishes persistent JSON messages to a durable topic exchange, routed by topic.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "open channel")
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.Wrapf(err, "declare exchange %s", exchange)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.PublishWithContext(ctx, p.exchange, msg.Topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID.String(),
		Body:         msg.Payload,
	})
	if err != nil {
		return errs.Wrapf(err, "publish %s", msg.Topic)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// LogPublisher stands in when no broker is configured; events are only logged.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "event published",
		"message_id", msg.ID,
		"topic", msg.Topic,
		"bytes", len(msg.Payload))
	return nil
}

func (LogPublisher) Close() error { return nil }

// New picks the AMQP publisher when the broker is enabled.
func New(cfg config.BrokerConfig) (Publisher, error) {
	if !cfg.Enabled {
		slog.Info("broker disabled, events will only be logged")
		return LogPublisher{}, nil
	}
	return NewAMQPPublisher(cfg.URL, cfg.Exchange)
}
