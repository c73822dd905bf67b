package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// channelPublisher is the slice of *amqp.Channel the publisher needs.
type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher serializes domain events to JSON and publishes them on the
// user_events exchange. Publishing is fire-and-forget: no broker ack is
// awaited, no persistence flag is set, and a failed publish is not retried.
//
// The publisher is safe for concurrent use; a mutex serializes writes on the
// shared channel, since the client library does not make a single channel
// safe for concurrent publishers.
type Publisher struct {
	client *Client
	mu     sync.Mutex
}

// NewPublisher creates a publisher on the given client. The broker is not
// contacted until the first Publish call.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends one event under the given routing key. The connection is
// established synchronously on first use; if the broker is unreachable the
// error wraps ErrConnectivity and the event is lost (at-most-once).
func (p *Publisher) Publish(ctx context.Context, routingKey string, event any, correlationID string) error {
	ch, err := p.client.EnsureReady()
	if err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}

	return p.publishOn(ctx, ch, routingKey, body, correlationID)
}

func (p *Publisher) publishOn(ctx context.Context, ch channelPublisher, routingKey string, body []byte, correlationID string) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	log.Printf("[Publisher] Publishing event: routing_key=%s correlation_id=%s", routingKey, correlationID)

	return ch.PublishWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: correlationID,
			Timestamp:     time.Now(),
			Body:          body,
		},
	)
}
