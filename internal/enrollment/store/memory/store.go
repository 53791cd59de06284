// Package memory provides an in-memory enrollment store for tests and local
// development.
package memory

import (
	"context"
	"sync"

	"matricula/internal/enrollment"
	"matricula/pkg/sentinel"
)

type key struct {
	studentID int64
	careerID  int64
}

// Store keeps enrollment records in a map guarded by a mutex.
type Store struct {
	mu      sync.Mutex
	records map[key]enrollment.EnrollmentRecord
}

// New creates an empty store.
func New() *Store {
	return &Store{records: make(map[key]enrollment.EnrollmentRecord)}
}

// Find returns a copy of the record or sentinel.ErrNotFound.
func (s *Store) Find(_ context.Context, studentID, careerID int64) (*enrollment.EnrollmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key{studentID, careerID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}

// Create inserts a new record; a duplicate key is a conflict.
func (s *Store) Create(_ context.Context, rec *enrollment.EnrollmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{rec.StudentID, rec.CareerID}
	if _, ok := s.records[k]; ok {
		return sentinel.ErrConflict
	}
	s.records[k] = *rec
	return nil
}

// Update overwrites an existing record; missing keys are not found.
func (s *Store) Update(_ context.Context, rec *enrollment.EnrollmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{rec.StudentID, rec.CareerID}
	if _, ok := s.records[k]; !ok {
		return sentinel.ErrNotFound
	}
	s.records[k] = *rec
	return nil
}
