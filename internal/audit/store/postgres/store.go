// Package postgres persists the audit trail in the audit_events table.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"matricula/internal/audit"
)

// Store implements audit.Store on PostgreSQL. Rows are append-only: Append
// always inserts a new surrogate-id row, so reprocessed messages become
// duplicates rather than conflicts.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one audit row.
func (s *Store) Append(ctx context.Context, row audit.LogRow) error {
	query := `
		INSERT INTO audit_events (
			id, event_type, entity_name, entity_id, action, actor,
			occurred_at, old_values, new_values, correlation_id, recorded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.ExecContext(ctx, query,
		row.ID,
		row.EventType,
		row.EntityName,
		row.EntityID,
		row.Action,
		row.Actor,
		row.Timestamp,
		row.OldValues,
		row.NewValues,
		row.CorrelationID,
		row.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit row: %w", err)
	}
	return nil
}

// List returns one page of rows, newest first, plus the filtered total.
func (s *Store) List(ctx context.Context, page audit.Page) ([]audit.LogRow, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM audit_events WHERE ($1 = '' OR event_type = $1)`
	if err := s.db.QueryRowContext(ctx, countQuery, page.EventType).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit rows: %w", err)
	}

	query := `
		SELECT id, event_type, entity_name, entity_id, action, actor,
			   occurred_at, old_values, new_values, correlation_id, recorded_at
		FROM audit_events
		WHERE ($1 = '' OR event_type = $1)
		ORDER BY recorded_at DESC, id
		LIMIT $2 OFFSET $3
	`

	offset := (page.Page - 1) * page.PageSize
	rows, err := s.db.QueryContext(ctx, query, page.EventType, page.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit rows: %w", err)
	}
	defer rows.Close()

	var out []audit.LogRow
	for rows.Next() {
		var row audit.LogRow
		err := rows.Scan(
			&row.ID,
			&row.EventType,
			&row.EntityName,
			&row.EntityID,
			&row.Action,
			&row.Actor,
			&row.Timestamp,
			&row.OldValues,
			&row.NewValues,
			&row.CorrelationID,
			&row.RecordedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audit row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate audit rows: %w", err)
	}

	return out, total, nil
}
