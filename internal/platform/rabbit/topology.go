package rabbit

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueBinding ties a durable queue to the exchange under one routing key.
type QueueBinding struct {
	Queue      string
	RoutingKey string
}

// Topology describes a topic exchange and its bound queues.
type Topology struct {
	Exchange string
	Bindings []QueueBinding
}

// Declare sets up the exchange, queues, and bindings. Broker-level declares
// are idempotent, so this runs unconditionally at startup.
func (c *Connection) Declare(ctx context.Context, t Topology) error {
	ch, err := c.Channel(ctx)
	if err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(t.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", t.Exchange, err)
	}

	for _, b := range t.Bindings {
		if _, err := ch.QueueDeclare(b.Queue, true, false, false, false, amqp.Table{}); err != nil {
			return fmt.Errorf("declare queue %s: %w", b.Queue, err)
		}
		if err := ch.QueueBind(b.Queue, b.RoutingKey, t.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.Queue, b.RoutingKey, err)
		}
	}

	return nil
}
