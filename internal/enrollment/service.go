package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"matricula/internal/enrollment/directory"
	"matricula/pkg/sentinel"
)

// Dispatcher forwards a committed domain event to the downstream pipelines.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event) error
}

// Service orchestrates the enrollment transaction: it validates
// preconditions, mutates the record, and dispatches the resulting event
// synchronously within the request.
type Service struct {
	store      Store
	students   directory.StudentDirectory
	careers    directory.CareerDirectory
	dispatcher Dispatcher
	minAge     int
	metrics    *Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires the orchestrator. minAge is the configured minimum
// enrollment age.
func NewService(
	store Store,
	students directory.StudentDirectory,
	careers directory.CareerDirectory,
	dispatcher Dispatcher,
	minAge int,
	metrics *Metrics,
	logger *slog.Logger,
) (*Service, error) {
	if store == nil {
		return nil, errors.New("enrollment store is required")
	}
	if students == nil || careers == nil {
		return nil, errors.New("student and career directories are required")
	}
	if dispatcher == nil {
		return nil, errors.New("event dispatcher is required")
	}

	return &Service{
		store:      store,
		students:   students,
		careers:    careers,
		dispatcher: dispatcher,
		minAge:     minAge,
		metrics:    metrics,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// Enroll activates (or creates) the record for (studentID, careerID).
//
// Event dispatch runs after the store write commits and before this method
// returns. A dispatch failure therefore surfaces to the caller even though
// the record already changed; callers observing an error must not assume the
// enrollment was rolled back.
func (s *Service) Enroll(ctx context.Context, studentID, careerID int64, actor string) (*EnrollmentRecord, error) {
	student, career, err := s.lookup(ctx, studentID, careerID)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.Find(ctx, studentID, careerID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	if rec != nil && rec.Active {
		return nil, s.reject("student is already enrolled in this career")
	}

	if err := s.checkEligibility(student, career); err != nil {
		return nil, err
	}

	now := s.now()
	reenrolled := rec != nil
	if rec != nil {
		rec.Active = true
		rec.EnrolledAt = now
		if err := s.store.Update(ctx, rec); err != nil {
			return nil, fmt.Errorf("reactivate enrollment: %w", err)
		}
	} else {
		rec = &EnrollmentRecord{StudentID: studentID, CareerID: careerID, EnrolledAt: now, Active: true}
		if err := s.store.Create(ctx, rec); err != nil {
			return nil, fmt.Errorf("create enrollment: %w", err)
		}
	}

	if s.metrics != nil {
		s.metrics.Enrollments.Inc()
	}
	s.logger.Info("student enrolled", "student_id", studentID, "career_id", careerID, "actor", actor)

	if err := s.dispatch(ctx, EventStudentEnrolled, now, student, career, actor, reenrolled); err != nil {
		return nil, err
	}
	return rec, nil
}

// Unenroll deactivates the active record for (studentID, careerID) in place.
// The same post-commit dispatch caveat as Enroll applies.
func (s *Service) Unenroll(ctx context.Context, studentID, careerID int64, actor string) (*EnrollmentRecord, error) {
	student, career, err := s.lookup(ctx, studentID, careerID)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.Find(ctx, studentID, careerID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, s.reject("no enrollment found for this student and career")
	}
	if err != nil {
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	if !rec.Active {
		return nil, s.reject("no enrollment found for this student and career")
	}

	if err := s.checkEligibility(student, career); err != nil {
		return nil, err
	}

	now := s.now()
	rec.Active = false
	if err := s.store.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("deactivate enrollment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Unenrollments.Inc()
	}
	s.logger.Info("student unenrolled", "student_id", studentID, "career_id", careerID, "actor", actor)

	if err := s.dispatch(ctx, EventStudentUnenrolled, now, student, career, actor, false); err != nil {
		return nil, err
	}
	return rec, nil
}

// lookup resolves both directory entries, translating missing entities into
// validation failures. Student is checked before career; first failure wins.
func (s *Service) lookup(ctx context.Context, studentID, careerID int64) (*directory.Student, *directory.Career, error) {
	student, err := s.students.Student(ctx, studentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil, s.reject(fmt.Sprintf("student %d not found", studentID))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("look up student %d: %w", studentID, err)
	}

	career, err := s.careers.Career(ctx, careerID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil, s.reject(fmt.Sprintf("career %d not found", careerID))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("look up career %d: %w", careerID, err)
	}

	return student, career, nil
}

func (s *Service) checkEligibility(student *directory.Student, career *directory.Career) error {
	if !student.Active {
		return s.reject("student is not active")
	}
	if !career.Active {
		return s.reject("career is not active")
	}
	if student.Age(s.now()) < s.minAge {
		return s.reject(fmt.Sprintf("student is under the minimum enrollment age of %d", s.minAge))
	}
	return nil
}

func (s *Service) reject(reason string) error {
	if s.metrics != nil {
		s.metrics.ValidationFailures.Inc()
	}
	return &ValidationError{Reason: reason}
}

func (s *Service) dispatch(ctx context.Context, typ EventType, at time.Time, student *directory.Student, career *directory.Career, actor string, reenrolled bool) error {
	ev := Event{
		ID:           uuid.New(),
		Type:         typ,
		OccurredAt:   at,
		StudentID:    student.ID,
		CareerID:     career.ID,
		StudentName:  student.FullName(),
		StudentEmail: student.Email,
		CareerName:   career.Name,
		FacultyName:  career.FacultyName,
		Actor:        actor,
		Reenrollment: reenrolled,
	}

	if err := s.dispatcher.Dispatch(ctx, ev); err != nil {
		if s.metrics != nil {
			s.metrics.DispatchFailures.Inc()
		}
		s.logger.Error("event dispatch failed after commit",
			"event_id", ev.ID,
			"event_type", ev.Type,
			"student_id", ev.StudentID,
			"career_id", ev.CareerID,
			"error", err,
		)
		return err
	}
	return nil
}
