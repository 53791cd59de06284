// Package consumer drains one notification queue and turns each message into
// an outbound email.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"matricula/internal/notification"
	"matricula/internal/platform/rabbit"
)

// Deliverer sends the email for one message.
type Deliverer interface {
	Deliver(ctx context.Context, msg notification.Message) error
}

// Consumer consumes a single queue with manual acknowledgements. A message is
// acked only after the email goes out; a failed delivery is rejected without
// requeue, so with no dead-letter configured on the queue the message is
// gone. Undecodable payloads are likewise rejected without requeue.
type Consumer struct {
	conn    *rabbit.Connection
	queue   string
	mailer  Deliverer
	logger  *slog.Logger
	metrics *notification.Metrics
	backoff time.Duration
}

// New builds a consumer for one queue.
func New(conn *rabbit.Connection, queue string, m Deliverer, logger *slog.Logger, metrics *notification.Metrics) *Consumer {
	return &Consumer{
		conn:    conn,
		queue:   queue,
		mailer:  m,
		logger:  logger,
		metrics: metrics,
		backoff: 2 * time.Second,
	}
}

// Run consumes until the context is cancelled, re-establishing the delivery
// stream whenever the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := c.consume(ctx); err != nil {
			c.logger.Warn("queue consume interrupted",
				"queue", c.queue,
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff):
		}
	}
}

func (c *Consumer) consume(ctx context.Context) error {
	ch, err := c.conn.Channel(ctx)
	if err != nil {
		return err
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	c.logger.Info("consuming queue", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery stream for %s closed", c.queue)
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var msg notification.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.metrics.Discarded.Inc()
		c.logger.Error("discarding undecodable notification",
			"queue", c.queue,
			"message_id", d.MessageId,
			"error", err,
		)
		if err := d.Nack(false, false); err != nil {
			c.logger.Error("nack failed", "queue", c.queue, "error", err)
		}
		return
	}

	if err := c.mailer.Deliver(ctx, msg); err != nil {
		c.metrics.Failed.Inc()
		c.logger.Error("notification delivery failed",
			"queue", c.queue,
			"recipient", msg.Recipient,
			"message_id", msg.MessageID,
			"error", err,
		)
		if err := d.Nack(false, false); err != nil {
			c.logger.Error("nack failed", "queue", c.queue, "error", err)
		}
		return
	}

	c.metrics.Sent.Inc()
	c.logger.Info("notification sent",
		"queue", c.queue,
		"recipient", msg.Recipient,
		"kind", msg.Kind,
		"message_id", msg.MessageID,
	)
	if err := d.Ack(false); err != nil {
		c.logger.Error("ack failed", "queue", c.queue, "error", err)
	}
}
