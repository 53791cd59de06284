package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"matricula/internal/audit"
	"matricula/internal/enrollment"
	"matricula/internal/notification"
)

type DispatchSuite struct {
	suite.Suite
	auditGW  *fakeAuditGateway
	notifyGW *fakeNotificationGateway
	d        *Dispatcher
	event    enrollment.Event
}

func TestDispatchSuite(t *testing.T) {
	suite.Run(t, new(DispatchSuite))
}

func (s *DispatchSuite) SetupTest() {
	s.auditGW = &fakeAuditGateway{}
	s.notifyGW = &fakeNotificationGateway{}
	s.d = New(s.auditGW, s.notifyGW, slog.Default())
	s.event = enrollment.Event{
		ID:           uuid.New(),
		Type:         enrollment.EventStudentEnrolled,
		OccurredAt:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		StudentID:    42,
		CareerID:     7,
		StudentName:  "Ana Perez",
		StudentEmail: "ana.perez@uni.edu",
		CareerName:   "Systems Engineering",
		FacultyName:  "Engineering",
		Actor:        "admin",
	}
}

func (s *DispatchSuite) TestAuditMessage() {
	s.Run("enrollment projects a Created action", func() {
		msg := AuditMessage(s.event)
		s.Equal(string(enrollment.EventStudentEnrolled), msg.EventType)
		s.Equal("StudentCareer", msg.EntityName)
		s.Equal("42-7", msg.EntityID)
		s.Equal("Created", msg.Action)
		s.Equal("admin", msg.Actor)
		s.Equal(s.event.OccurredAt, msg.Timestamp)
		s.Empty(msg.OldValues)
		s.Equal("isActive=true", msg.NewValues)
		s.Equal(s.event.ID.String(), msg.CorrelationID)
	})

	s.Run("unenrollment projects a Deleted action", func() {
		ev := s.event
		ev.Type = enrollment.EventStudentUnenrolled
		msg := AuditMessage(ev)
		s.Equal("Deleted", msg.Action)
		s.Equal("isActive=true", msg.OldValues)
		s.Equal("isActive=false", msg.NewValues)
	})

	s.Run("partition key groups by entity", func() {
		msg := AuditMessage(s.event)
		s.Equal("StudentCareer:42-7", msg.PartitionKey())
	})
}

func (s *DispatchSuite) TestNotificationMessage() {
	s.Run("enrollment projects an Enrollment kind", func() {
		msg := NotificationMessage(s.event)
		s.Equal("ana.perez@uni.edu", msg.Recipient)
		s.Equal("Ana Perez", msg.RecipientName)
		s.Equal("Systems Engineering", msg.CareerName)
		s.Equal("Engineering", msg.FacultyName)
		s.Equal(notification.KindEnrollment, msg.Kind)
		s.Equal(s.event.ID.String(), msg.MessageID)
		s.Equal(s.event.OccurredAt, msg.EventDate)
		s.False(msg.Reenrolled)
	})

	s.Run("reactivation carries the re-enrollment marker", func() {
		ev := s.event
		ev.Reenrollment = true
		msg := NotificationMessage(ev)
		s.True(msg.Reenrolled)
	})

	s.Run("unenrollment projects an Unenrollment kind", func() {
		ev := s.event
		ev.Type = enrollment.EventStudentUnenrolled
		msg := NotificationMessage(ev)
		s.Equal(notification.KindUnenrollment, msg.Kind)
	})
}

func (s *DispatchSuite) TestDispatch() {
	ctx := context.Background()

	s.Run("publishes to both pipelines in order", func() {
		err := s.d.Dispatch(ctx, s.event)
		s.NoError(err)
		s.Len(s.auditGW.published, 1)
		s.Len(s.notifyGW.published, 1)
	})

	s.Run("audit failure skips the notification publish", func() {
		s.auditGW.err = errors.New("kafka unreachable")
		notified := len(s.notifyGW.published)

		err := s.d.Dispatch(ctx, s.event)

		var perr *PropagationError
		s.ErrorAs(err, &perr)
		s.Equal("audit", perr.Pipeline)
		s.Len(s.notifyGW.published, notified)

		s.auditGW.err = nil
	})

	s.Run("notification failure reports its pipeline", func() {
		s.notifyGW.err = errors.New("rabbit unreachable")

		err := s.d.Dispatch(ctx, s.event)

		var perr *PropagationError
		s.ErrorAs(err, &perr)
		s.Equal("notification", perr.Pipeline)

		s.notifyGW.err = nil
	})
}

type fakeAuditGateway struct {
	published []audit.Message
	err       error
}

func (f *fakeAuditGateway) Publish(_ context.Context, msg audit.Message) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeNotificationGateway struct {
	published []notification.Message
	err       error
}

func (f *fakeNotificationGateway) Publish(_ context.Context, msg notification.Message) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}
