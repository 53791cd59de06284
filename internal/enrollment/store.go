package enrollment

import "context"

// Store owns the EnrollmentRecord rows. Find returns sentinel.ErrNotFound
// when no record exists for the key.
//
// Concurrent writes to the same key are last-write-wins: no row lock or
// version check is taken.
type Store interface {
	Find(ctx context.Context, studentID, careerID int64) (*EnrollmentRecord, error)
	Create(ctx context.Context, rec *EnrollmentRecord) error
	Update(ctx context.Context, rec *EnrollmentRecord) error
}
