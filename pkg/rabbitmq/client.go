package rabbitmq

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the topic exchange shared by the user and order services.
const ExchangeName = "user_events"

const dialTimeout = 10 * time.Second

// ErrConnectivity reports that the broker could not be reached. Callers
// decide whether to retry; the client itself does not.
var ErrConnectivity = errors.New("rabbitmq unreachable")

// Client owns the AMQP connection and channel for one process. It dials
// lazily on first use and declares the exchange topology idempotently; the
// resulting channel is retained for the lifetime of the service until Close.
type Client struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewClient configures a client for the given AMQP URL. It does not connect.
func NewClient(url string) *Client {
	return &Client{url: url}
}

// EnsureReady returns a live channel, dialing the broker and declaring the
// user_events topic exchange if that has not happened yet. Safe to call
// repeatedly and from concurrent goroutines; re-declaring existing topology
// is a no-op on the broker side.
func (c *Client) EnsureReady() (*amqp.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || c.conn.IsClosed() {
		conn, err := amqp.DialConfig(c.url, amqp.Config{
			Dial: amqp.DefaultDial(dialTimeout),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
		}
		c.conn = conn
		c.ch = nil
		log.Println("Connected to RabbitMQ")
	}

	if c.ch == nil || c.ch.IsClosed() {
		ch, err := c.conn.Channel()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
		}

		err = ch.ExchangeDeclare(
			ExchangeName,
			"topic",
			true,  // durable
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("declare exchange %s: %w", ExchangeName, err)
		}
		c.ch = ch
	}

	return c.ch, nil
}

// Close releases the channel and then the connection. Safe on a client that
// never connected or was already closed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	if c.ch != nil && !c.ch.IsClosed() {
		if err := c.ch.Close(); err != nil {
			firstErr = err
		}
	}
	c.ch = nil

	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.conn = nil

	return firstErr
}
