package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the transport-level record handed to consumers.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

// Handler processes one message. Returning nil commits the record's offset;
// returning an error makes the loop retry the same record after a backoff,
// so transient failures delay the partition instead of losing the record.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// ConsumerConfig tunes the poll loop.
type ConsumerConfig struct {
	Brokers     []string
	Group       string
	Topic       string
	StartDelay  time.Duration
	PollTimeout time.Duration
	Backoff     time.Duration
}

// Consumer is a single-threaded poll loop with manual offset commits. Offsets
// are committed one record at a time, only after the handler succeeds.
type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
	cfg     ConsumerConfig
}

// NewConsumer joins the consumer group with auto-commit disabled.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 2 * time.Second
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}

	return &Consumer{client: client, handler: handler, logger: logger, cfg: cfg}, nil
}

// Run polls until ctx is cancelled. The initial delay keeps the consumer from
// racing topic provisioning at process startup.
func (c *Consumer) Run(ctx context.Context) error {
	if c.cfg.StartDelay > 0 {
		select {
		case <-time.After(c.cfg.StartDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pollCtx, cancel := context.WithTimeout(ctx, c.cfg.PollTimeout)
		fetches := c.client.PollFetches(pollCtx)
		cancel()

		if fetches.IsClientClosed() {
			return nil
		}

		// A fetch can carry records alongside partition errors; records the
		// client already returned are never redelivered within a session, so
		// they must be drained even when the fetch reports errors.
		if c.fetchFailed(fetches) && fetches.Empty() {
			c.sleep(ctx)
			continue
		}

		iter := fetches.RecordIter()
		for !iter.Done() {
			rec := iter.Next()
			msg := &Message{
				Topic:     rec.Topic,
				Partition: rec.Partition,
				Offset:    rec.Offset,
				Key:       rec.Key,
				Value:     rec.Value,
				Timestamp: rec.Timestamp,
			}

			commit := func(ctx context.Context) error {
				return c.client.CommitRecords(ctx, rec)
			}
			if err := c.process(ctx, msg, commit); err != nil {
				return err
			}
		}
	}
}

// process delivers one record, retrying until the handler succeeds and its
// offset is committed. Abandoning a record here would skip it for good: the
// client never redelivers it within the session, and committing a later
// offset would seal the loss across restarts. Only ctx cancellation stops
// the retries.
func (c *Consumer) process(ctx context.Context, msg *Message, commit func(context.Context) error) error {
	for {
		if err := c.handler.Handle(ctx, msg); err != nil {
			c.logger.Error("message handling failed, will retry",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
			if err := c.sleep(ctx); err != nil {
				return err
			}
			continue
		}
		break
	}

	for {
		if err := commit(ctx); err != nil {
			c.logger.Error("offset commit failed, will retry",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
			if err := c.sleep(ctx); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

// fetchFailed logs broker-level fetch errors and reports whether any occurred.
// Context deadlines are the normal outcome of an empty bounded poll.
func (c *Consumer) fetchFailed(fetches kgo.Fetches) bool {
	failed := false
	fetches.EachError(func(topic string, partition int32, err error) {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Error("kafka fetch error", "topic", topic, "partition", partition, "error", err)
		failed = true
	})
	return failed
}

func (c *Consumer) sleep(ctx context.Context) error {
	select {
	case <-time.After(c.cfg.Backoff):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close leaves the consumer group and releases the connection.
func (c *Consumer) Close() {
	c.client.Close()
}
