// Package postgres persists enrollment records in the student_careers table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"matricula/internal/enrollment"
	"matricula/pkg/sentinel"
)

// Store implements enrollment.Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Find returns the record for the key or sentinel.ErrNotFound.
func (s *Store) Find(ctx context.Context, studentID, careerID int64) (*enrollment.EnrollmentRecord, error) {
	query := `
		SELECT student_id, career_id, enrolled_at, active
		FROM student_careers
		WHERE student_id = $1 AND career_id = $2
	`

	var rec enrollment.EnrollmentRecord
	err := s.db.QueryRowContext(ctx, query, studentID, careerID).Scan(
		&rec.StudentID,
		&rec.CareerID,
		&rec.EnrolledAt,
		&rec.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query enrollment: %w", err)
	}
	return &rec, nil
}

// Create inserts a new record.
func (s *Store) Create(ctx context.Context, rec *enrollment.EnrollmentRecord) error {
	query := `
		INSERT INTO student_careers (student_id, career_id, enrolled_at, active)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.ExecContext(ctx, query, rec.StudentID, rec.CareerID, rec.EnrolledAt, rec.Active)
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields in place. Last write wins; no row lock
// or version check is taken.
func (s *Store) Update(ctx context.Context, rec *enrollment.EnrollmentRecord) error {
	query := `
		UPDATE student_careers
		SET enrolled_at = $3, active = $4
		WHERE student_id = $1 AND career_id = $2
	`

	res, err := s.db.ExecContext(ctx, query, rec.StudentID, rec.CareerID, rec.EnrolledAt, rec.Active)
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
