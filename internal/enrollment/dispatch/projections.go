// Package dispatch converts a committed domain event into its two downstream
// messages and forwards each to its publish gateway. The two projections live
// side by side so the schemas cannot silently diverge.
package dispatch

import (
	"fmt"

	"matricula/internal/audit"
	"matricula/internal/enrollment"
	"matricula/internal/notification"
)

// EntityName is the audit aggregate name for enrollment records.
const EntityName = "StudentCareer"

// AuditMessage projects an event into the audit wire form. The projection is
// pure: the same event always yields the same message.
func AuditMessage(ev enrollment.Event) audit.Message {
	action := "Created"
	oldValues := ""
	newValues := "isActive=true"
	if ev.Type == enrollment.EventStudentUnenrolled {
		action = "Deleted"
		oldValues = "isActive=true"
		newValues = "isActive=false"
	}

	return audit.Message{
		EventType:     string(ev.Type),
		EntityName:    EntityName,
		EntityID:      fmt.Sprintf("%d-%d", ev.StudentID, ev.CareerID),
		Action:        action,
		Actor:         ev.Actor,
		Timestamp:     ev.OccurredAt,
		OldValues:     oldValues,
		NewValues:     newValues,
		CorrelationID: ev.ID.String(),
	}
}

// NotificationMessage projects an event into the notification wire form. The
// message id reuses the event id so both pipelines correlate on it.
func NotificationMessage(ev enrollment.Event) notification.Message {
	kind := notification.KindEnrollment
	if ev.Type == enrollment.EventStudentUnenrolled {
		kind = notification.KindUnenrollment
	}

	return notification.Message{
		Recipient:     ev.StudentEmail,
		RecipientName: ev.StudentName,
		CareerName:    ev.CareerName,
		FacultyName:   ev.FacultyName,
		EventDate:     ev.OccurredAt,
		Kind:          kind,
		Reenrolled:    ev.Reenrollment,
		MessageID:     ev.ID.String(),
		CreatedAt:     ev.OccurredAt,
	}
}
