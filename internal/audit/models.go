// Package audit carries every enrollment state change onto a durable,
// partitioned log and materializes it into an append-only relational trail.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is the wire form accepted by the audit ingestion endpoints and
// written to the log topic. Consumers tolerate unknown and missing fields.
type Message struct {
	EventType     string    `json:"eventType"`
	EntityName    string    `json:"entityName"`
	EntityID      string    `json:"entityId"`
	Action        string    `json:"action"`
	Actor         string    `json:"actor"`
	Timestamp     time.Time `json:"timestamp"`
	OldValues     string    `json:"oldValues,omitempty"`
	NewValues     string    `json:"newValues,omitempty"`
	CorrelationID string    `json:"correlationId"`
}

// PartitionKey groups all events for one entity onto the same partition,
// which is what guarantees per-entity ordering on the log.
func (m Message) PartitionKey() string {
	return m.EntityName + ":" + m.EntityID
}

// LogRow is the persisted form of a Message. Rows are append-only: a
// reprocessed message becomes a new row with a fresh surrogate id, never an
// update.
type LogRow struct {
	ID            uuid.UUID `json:"id"`
	EventType     string    `json:"eventType"`
	EntityName    string    `json:"entityName"`
	EntityID      string    `json:"entityId"`
	Action        string    `json:"action"`
	Actor         string    `json:"actor"`
	Timestamp     time.Time `json:"timestamp"`
	OldValues     string    `json:"oldValues,omitempty"`
	NewValues     string    `json:"newValues,omitempty"`
	CorrelationID string    `json:"correlationId"`
	RecordedAt    time.Time `json:"recordedAt"`
}

// Page filters the read-back query.
type Page struct {
	Page      int
	PageSize  int
	EventType string
}

// Store is the append-only audit trail. List returns the requested page plus
// the total row count for the filter.
type Store interface {
	Append(ctx context.Context, row LogRow) error
	List(ctx context.Context, page Page) ([]LogRow, int, error)
}
