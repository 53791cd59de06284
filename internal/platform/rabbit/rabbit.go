package rabbit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connection is a long-lived AMQP connection shared by publishers and
// consumers within one process. The channel is re-established lazily on next
// use after a closure; nothing monitors the connection proactively.
type Connection struct {
	mu      sync.Mutex
	url     string
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

// NewConnection prepares a connection handle without dialing. The first call
// to Channel performs the dial, so a broker that is down at startup does not
// keep the process from booting.
func NewConnection(url string, logger *slog.Logger) *Connection {
	return &Connection{url: url, logger: logger}
}

// Channel returns an open channel, dialing and re-opening as needed.
func (c *Connection) Channel(ctx context.Context) (*amqp.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil && !c.channel.IsClosed() {
		return c.channel, nil
	}

	if c.conn == nil || c.conn.IsClosed() {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		c.conn = conn
		c.logger.Info("connected to rabbitmq")
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	c.channel = ch

	return ch, nil
}

// Connected reports whether the broker connection is currently open.
func (c *Connection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Close shuts the channel and connection down.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var closeErr error
	if c.channel != nil && !c.channel.IsClosed() {
		if err := c.channel.Close(); err != nil {
			closeErr = fmt.Errorf("close rabbitmq channel: %w", err)
		}
		c.channel = nil
	}
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("close rabbitmq connection: %w", err)
		}
		c.conn = nil
	}
	return closeErr
}
