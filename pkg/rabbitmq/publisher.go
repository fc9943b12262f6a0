package rabbitmq

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ExchangeName = "diet.events"

const publishTimeout = 10 * time.Second

// Publisher publishes messages to the diet events exchange.
type Publisher struct {
	channel *amqp.Channel
}

// NewPublisher creates a new publisher and declares the topic exchange.
func NewPublisher(conn *Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareExchange(ch); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", ExchangeName, err)
	}

	return &Publisher{channel: ch}, nil
}

// Publish sends a persistent JSON message with the given routing key.
func (p *Publisher) Publish(ctx context.Context, routingKey string, body []byte, correlationID string) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	log.Printf("[Publisher] Publishing event: routing_key=%s correlation_id=%s", routingKey, correlationID)

	return p.channel.PublishWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: correlationID,
			Body:          body,
			DeliveryMode:  amqp.Persistent,
			Timestamp:     time.Now(),
		},
	)
}

// Close closes the publisher channel.
func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}
