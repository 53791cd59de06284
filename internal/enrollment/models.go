package enrollment

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentRecord links a student to a career. There is at most one record
// per (StudentID, CareerID); unenrolling deactivates the record in place and
// re-enrolling reactivates it, so history is never deleted.
type EnrollmentRecord struct {
	StudentID  int64     `json:"studentId"`
	CareerID   int64     `json:"careerId"`
	EnrolledAt time.Time `json:"enrollmentDate"`
	Active     bool      `json:"isActive"`
}

// EventType identifies the two state transitions the record can emit.
type EventType string

const (
	EventStudentEnrolled   EventType = "StudentEnrolled"
	EventStudentUnenrolled EventType = "StudentUnenrolled"
)

// Event is the immutable fact emitted after a committed state transition. It
// is a transient carrier consumed exactly once by the dispatcher, never
// persisted itself.
type Event struct {
	ID           uuid.UUID
	Type         EventType
	OccurredAt   time.Time
	StudentID    int64
	CareerID     int64
	StudentName  string
	StudentEmail string
	CareerName   string
	FacultyName  string
	Actor        string
	// Reenrollment marks an enrollment that reactivated a prior record
	// rather than creating one; the notification wording differs.
	Reenrollment bool
}
