package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// TopicSpec describes one topic to provision.
type TopicSpec struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
	Configs           map[string]*string
}

// EnsureTopics creates each missing topic and re-reads metadata to confirm it
// exists. Already-present topics are left untouched, so the call is idempotent.
func EnsureTopics(ctx context.Context, brokers []string, logger *slog.Logger, specs ...TopicSpec) error {
	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return fmt.Errorf("connect for topic provisioning: %w", err)
	}
	defer client.Close()

	adm := kadm.NewClient(client)

	existing, err := adm.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}

	for _, spec := range specs {
		if existing.Has(spec.Name) {
			logger.Info("topic already exists", "topic", spec.Name)
			continue
		}

		_, err := adm.CreateTopic(ctx, spec.Partitions, spec.ReplicationFactor, spec.Configs, spec.Name)
		if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", spec.Name, err)
		}
		logger.Info("topic created",
			"topic", spec.Name,
			"partitions", spec.Partitions,
			"replication_factor", spec.ReplicationFactor,
		)
	}

	// Confirm all requested topics are visible after creation.
	confirmed, err := adm.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("confirm topics: %w", err)
	}
	for _, spec := range specs {
		if !confirmed.Has(spec.Name) {
			return fmt.Errorf("topic %s missing after provisioning", spec.Name)
		}
	}

	return nil
}
