package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"matricula/internal/platform/rabbit"
)

// Publisher pushes messages onto the topic exchange. Routing happens at the
// broker: the message's kind becomes the routing key, and the queue bindings
// decide where it lands.
type Publisher struct {
	conn     *rabbit.Connection
	exchange string
	logger   *slog.Logger
	metrics  *Metrics
}

// NewPublisher wires a publisher to the shared connection.
func NewPublisher(conn *rabbit.Connection, exchange string, logger *slog.Logger, metrics *Metrics) *Publisher {
	return &Publisher{conn: conn, exchange: exchange, logger: logger, metrics: metrics}
}

// Publish sends one persistent message to the exchange under the kind's
// routing key.
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification message: %w", err)
	}

	ch, err := p.conn.Channel(ctx)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, p.exchange, msg.Kind.RoutingKey(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.MessageID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	p.metrics.Queued.Inc()
	p.logger.Debug("notification queued",
		"routing_key", msg.Kind.RoutingKey(),
		"message_id", msg.MessageID,
	)
	return nil
}
