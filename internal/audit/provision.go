package audit

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"matricula/internal/platform/kafka"
)

// Topology describes the audit topics to provision at startup.
type Topology struct {
	Topic               string
	DeadLetterTopic     string
	Partitions          int32
	Retention           time.Duration
	DeadLetterRetention time.Duration
}

// TopicSpecs expands the topology into concrete provisioning specs: the
// primary topic with snappy compression and the single-partition dead-letter
// topic with its longer retention. The dead-letter topic is provisioned but
// nothing publishes to it yet.
func (t Topology) TopicSpecs() []kafka.TopicSpec {
	return []kafka.TopicSpec{
		{
			Name:              t.Topic,
			Partitions:        t.Partitions,
			ReplicationFactor: 1,
			Configs: map[string]*string{
				"retention.ms":     ptr(strconv.FormatInt(t.Retention.Milliseconds(), 10)),
				"compression.type": ptr("snappy"),
			},
		},
		{
			Name:              t.DeadLetterTopic,
			Partitions:        1,
			ReplicationFactor: 1,
			Configs: map[string]*string{
				"retention.ms": ptr(strconv.FormatInt(t.DeadLetterRetention.Milliseconds(), 10)),
			},
		},
	}
}

// EnsureTopology provisions the audit topics within the given timeout. A
// failure is logged and swallowed: the host process keeps serving without
// provisioned topics.
func EnsureTopology(ctx context.Context, brokers []string, t Topology, timeout time.Duration, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := kafka.EnsureTopics(ctx, brokers, logger, t.TopicSpecs()...); err != nil {
		logger.Error("audit topic provisioning failed, continuing without it", "error", err)
		return
	}
	logger.Info("audit topics provisioned", "topic", t.Topic, "dead_letter_topic", t.DeadLetterTopic)
}

func ptr(s string) *string {
	return &s
}
