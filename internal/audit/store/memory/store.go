// Package memory provides an in-memory audit store for tests.
package memory

import (
	"context"
	"sync"

	"matricula/internal/audit"
)

// Store keeps rows in append order.
type Store struct {
	mu   sync.Mutex
	rows []audit.LogRow
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Append adds a row. Duplicates are accepted; the trail is append-only.
func (s *Store) Append(_ context.Context, row audit.LogRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return nil
}

// List returns the requested page in append order plus the filtered total.
func (s *Store) List(_ context.Context, page audit.Page) ([]audit.LogRow, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var filtered []audit.LogRow
	for _, row := range s.rows {
		if page.EventType != "" && row.EventType != page.EventType {
			continue
		}
		filtered = append(filtered, row)
	}

	total := len(filtered)
	start := (page.Page - 1) * page.PageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}

	out := make([]audit.LogRow, end-start)
	copy(out, filtered[start:end])
	return out, total, nil
}

// All returns every stored row; test helper.
func (s *Store) All() []audit.LogRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]audit.LogRow, len(s.rows))
	copy(out, s.rows)
	return out
}
