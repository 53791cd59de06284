// Package consumer materializes log-topic records into the relational audit
// store.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"matricula/internal/audit"
	"matricula/internal/platform/kafka"
)

// Sink handles one log record at a time. The surrounding poll loop commits
// the offset only after Handle returns nil, so a crash between the store
// write and the commit reprocesses the record; the append-only store absorbs
// the duplicate as a new row.
type Sink struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *audit.Metrics
}

// NewSink builds a sink over the audit store.
func NewSink(store audit.Store, logger *slog.Logger, metrics *audit.Metrics) *Sink {
	return &Sink{store: store, logger: logger, metrics: metrics}
}

// Handle decodes and persists one record. Undecodable payloads are dropped
// with a log entry and committed so they cannot wedge the partition.
func (s *Sink) Handle(ctx context.Context, msg *kafka.Message) error {
	var m audit.Message
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		// TODO: publish undecodable records to the provisioned dead-letter topic.
		s.metrics.Dropped.Inc()
		s.logger.Error("dropping undecodable audit record",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	row := audit.LogRow{
		ID:            uuid.New(),
		EventType:     m.EventType,
		EntityName:    m.EntityName,
		EntityID:      m.EntityID,
		Action:        m.Action,
		Actor:         m.Actor,
		Timestamp:     m.Timestamp,
		OldValues:     m.OldValues,
		NewValues:     m.NewValues,
		CorrelationID: m.CorrelationID,
		RecordedAt:    time.Now().UTC(),
	}

	if err := s.store.Append(ctx, row); err != nil {
		return fmt.Errorf("append audit row: %w", err)
	}

	s.metrics.Persisted.Inc()
	s.logger.Debug("audit record persisted",
		"entity_id", row.EntityID,
		"action", row.Action,
		"correlation_id", row.CorrelationID,
	)
	return nil
}
