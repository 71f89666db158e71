package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes JSON events to a durable topic exchange
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewAMQPPublisher dials the broker and declares the exchange
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	if url == "" {
		return nil, fmt.Errorf("amqp url is required")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish sends the event with its type as routing key
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := toPublishing(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// Close closes the channel and connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}
	return nil
}

func toPublishing(event Event) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
		Headers: amqp.Table{
			"event_type": string(event.Type),
			"student_id": event.StudentID,
		},
	}, nil
}

// Config selects a publisher
type Config struct {
	AMQPURL  string `yaml:"amqp_url" json:"amqp_url"`
	Exchange string `yaml:"exchange" json:"exchange"`
}

// Open returns an AMQPPublisher when a URL is configured, otherwise NoopPublisher
func Open(cfg Config) (Publisher, error) {
	if cfg.AMQPURL == "" {
		return NoopPublisher{}, nil
	}
	return NewAMQPPublisher(cfg.AMQPURL, cfg.Exchange)
}
