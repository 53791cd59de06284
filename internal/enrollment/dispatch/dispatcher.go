package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"matricula/internal/audit"
	"matricula/internal/enrollment"
	"matricula/internal/notification"
)

// AuditGateway publishes onto the audit pipeline.
type AuditGateway interface {
	Publish(ctx context.Context, msg audit.Message) error
}

// NotificationGateway publishes onto the notification pipeline.
type NotificationGateway interface {
	Publish(ctx context.Context, msg notification.Message) error
}

// PropagationError reports a downstream gateway failure during dispatch. The
// record mutation it follows has already been committed.
type PropagationError struct {
	Pipeline string
	Err      error
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("propagate event to %s pipeline: %v", e.Pipeline, e.Err)
}

func (e *PropagationError) Unwrap() error {
	return e.Err
}

// Dispatcher forwards each event to both gateways sequentially. When the
// audit publish fails, the notification publish is not attempted, so no email
// is emitted for a change the audit pipeline never saw. There is no retry at
// this layer.
type Dispatcher struct {
	audit         AuditGateway
	notifications NotificationGateway
	logger        *slog.Logger
}

// New builds a dispatcher over the two gateways.
func New(auditGW AuditGateway, notificationGW NotificationGateway, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{audit: auditGW, notifications: notificationGW, logger: logger}
}

// Dispatch projects the event and publishes both messages.
func (d *Dispatcher) Dispatch(ctx context.Context, ev enrollment.Event) error {
	auditMsg := AuditMessage(ev)
	if err := d.audit.Publish(ctx, auditMsg); err != nil {
		return &PropagationError{Pipeline: "audit", Err: err}
	}

	notificationMsg := NotificationMessage(ev)
	if err := d.notifications.Publish(ctx, notificationMsg); err != nil {
		return &PropagationError{Pipeline: "notification", Err: err}
	}

	d.logger.Debug("event dispatched",
		"event_id", ev.ID,
		"event_type", ev.Type,
		"entity_id", auditMsg.EntityID,
	)
	return nil
}
