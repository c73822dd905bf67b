package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Topology on the consuming side: a durable queue bound to the shared topic
// exchange with a wildcard pattern, plus a dead-letter queue for the
// ack-after-process mode.
const (
	QueueName      = "order_user_queue"
	DLQName        = "dlq.order_user_queue"
	BindingPattern = "user.*"
)

// Outcome classifies the processing result of a single delivery.
type Outcome int

const (
	OutcomeHandled Outcome = iota
	OutcomeIgnored
	OutcomeMalformed
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHandled:
		return "handled"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OutcomeSink receives the result of every delivery, so operational
// visibility does not depend on grepping handler logs.
type OutcomeSink func(outcome Outcome, routingKey string, err error)

// LogSink is the default OutcomeSink, writing to the standard logger.
func LogSink(outcome Outcome, routingKey string, err error) {
	if err != nil {
		log.Printf("[Consumer] outcome=%s routing_key=%s error=%v", outcome, routingKey, err)
		return
	}
	log.Printf("[Consumer] outcome=%s routing_key=%s", outcome, routingKey)
}

// UserDeletedHandler applies the compensating update for a deleted user.
type UserDeletedHandler interface {
	HandleUserDeleted(ctx context.Context, event models.UserDeletedEvent) error
}

// ConsumerConfig holds configuration for setting up the consumer.
type ConsumerConfig struct {
	// AckAfterProcess switches from acknowledging on receipt (the default,
	// which loses the event if the handler fails afterwards) to
	// acknowledging after the handler succeeds, dead-lettering on failure.
	AckAfterProcess bool
	ConsumerName    string
}

// Consumer binds order_user_queue to the user_events exchange and dispatches
// deliveries to the handler by routing key. Only user.deleted is handled;
// every other key matched by the wildcard binding is received and ignored.
type Consumer struct {
	client  *Client
	handler UserDeletedHandler
	cfg     ConsumerConfig
	sink    OutcomeSink
}

// NewConsumer creates a consumer. The broker is not contacted until Start.
func NewConsumer(client *Client, handler UserDeletedHandler, cfg ConsumerConfig) *Consumer {
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = "order-service"
	}
	return &Consumer{client: client, handler: handler, cfg: cfg, sink: LogSink}
}

// SetOutcomeSink replaces the default log sink.
func (c *Consumer) SetOutcomeSink(sink OutcomeSink) {
	c.sink = sink
}

// Start declares the queue topology and begins consuming. It returns once
// the subscription is established; deliveries are then processed one at a
// time on a background goroutine until ctx is cancelled or the channel
// closes. A broker that is unreachable at startup surfaces as an error
// wrapping ErrConnectivity.
func (c *Consumer) Start(ctx context.Context) error {
	ch, err := c.client.EnsureReady()
	if err != nil {
		return err
	}

	// Declare the DLQ first so the main queue can reference it.
	_, err = ch.QueueDeclare(
		DLQName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", DLQName, err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    "", // default exchange
		"x-dead-letter-routing-key": DLQName,
	}
	_, err = ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		args,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", QueueName, err)
	}

	if err := ch.QueueBind(QueueName, BindingPattern, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", QueueName, err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	autoAck := !c.cfg.AckAfterProcess
	deliveries, err := ch.Consume(
		QueueName,
		c.cfg.ConsumerName,
		autoAck,
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", QueueName, err)
	}

	go c.loop(ctx, deliveries, autoAck)

	log.Printf("[%s] Consumer started, listening on queue: %s (ack_after_process=%t)",
		c.cfg.ConsumerName, QueueName, c.cfg.AckAfterProcess)
	return nil
}

func (c *Consumer) loop(ctx context.Context, deliveries <-chan amqp.Delivery, autoAck bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Printf("[%s] Delivery channel closed", c.cfg.ConsumerName)
				return
			}

			outcome, err := c.dispatch(ctx, d)

			if !autoAck {
				switch outcome {
				case OutcomeMalformed, OutcomeFailed:
					// No requeue: the broker routes the message to the DLQ.
					_ = d.Nack(false, false)
				default:
					_ = d.Ack(false)
				}
			}

			c.sink(outcome, d.RoutingKey, err)
		}
	}
}

// dispatch routes one delivery through the closed set of event kinds.
func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery) (Outcome, error) {
	switch models.KindForRoutingKey(d.RoutingKey) {
	case models.KindUserDeleted:
		var event models.UserDeletedEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			return OutcomeMalformed, fmt.Errorf("unmarshal %s: %w", d.RoutingKey, err)
		}
		if err := c.handler.HandleUserDeleted(ctx, event); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeHandled, nil
	case models.KindUserCreated:
		// The order service takes its user snapshot synchronously at order
		// creation; the created event carries nothing it needs.
		return OutcomeIgnored, nil
	default:
		return OutcomeIgnored, nil
	}
}
