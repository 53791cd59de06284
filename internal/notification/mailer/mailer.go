// Package mailer delivers notification emails through either an HTTP mail
// API or plain SMTP, selected by configuration.
package mailer

import (
	"context"
	"fmt"
	"time"

	"matricula/internal/notification"
	"matricula/pkg/email"
)

// Email is one outbound message, already rendered.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a rendered email. Implementations must honor the context
// deadline set by the mailer.
type Sender interface {
	Send(ctx context.Context, msg Email) error
}

// Mailer renders notification messages into emails and hands them to the
// configured sender under a per-send timeout.
type Mailer struct {
	sender  Sender
	from    string
	timeout time.Duration
}

// New builds a mailer. A zero timeout defaults to 15 seconds.
func New(sender Sender, from string, timeout time.Duration) *Mailer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Mailer{sender: sender, from: from, timeout: timeout}
}

// From returns the configured sender address.
func (m *Mailer) From() string { return m.from }

// Deliver renders and sends the email for one notification message.
func (m *Mailer) Deliver(ctx context.Context, msg notification.Message) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	rendered := Render(msg)
	if err := m.sender.Send(ctx, rendered); err != nil {
		return fmt.Errorf("send %s email to %s: %w", msg.Kind, msg.Recipient, err)
	}
	return nil
}

// Render produces the subject and body for a notification message. The
// recipient name falls back to one derived from the address when absent.
func Render(msg notification.Message) Email {
	name := msg.RecipientName
	if name == "" {
		name = email.DisplayName(msg.Recipient)
	}
	date := msg.EventDate.Format("January 2, 2006")

	switch msg.Kind {
	case notification.KindEnrollment:
		faculty := msg.FacultyName
		if faculty == "" {
			faculty = "the university"
		}
		// A first enrollment gets the welcome; a reactivated one gets a
		// plain confirmation.
		if msg.Reenrolled {
			return Email{
				To:      msg.Recipient,
				Subject: fmt.Sprintf("Enrollment confirmed: %s", msg.CareerName),
				Body: fmt.Sprintf(
					"Dear %s,\n\nYour re-enrollment in %s at %s was confirmed on %s.\n\nRegards,\nThe Registrar",
					name, msg.CareerName, faculty, date,
				),
			}
		}
		return Email{
			To:      msg.Recipient,
			Subject: fmt.Sprintf("Welcome to %s", msg.CareerName),
			Body: fmt.Sprintf(
				"Dear %s,\n\nYour enrollment in %s at %s was confirmed on %s.\n\nWelcome aboard!\n\nRegards,\nThe Registrar",
				name, msg.CareerName, faculty, date,
			),
		}
	case notification.KindUnenrollment:
		return Email{
			To:      msg.Recipient,
			Subject: fmt.Sprintf("Enrollment cancelled: %s", msg.CareerName),
			Body: fmt.Sprintf(
				"Dear %s,\n\nYour enrollment in %s has been cancelled as of %s.\n\nIf you did not request this change, please contact the registrar's office.\n\nRegards,\nThe Registrar",
				name, msg.CareerName, date,
			),
		}
	default:
		// Messages with an unrecognized kind still reach the student.
		return Email{
			To:      msg.Recipient,
			Subject: fmt.Sprintf("Enrollment update: %s", msg.CareerName),
			Body: fmt.Sprintf(
				"Dear %s,\n\nThere has been an update to your enrollment in %s as of %s.\n\nPlease contact the registrar's office for details.\n\nRegards,\nThe Registrar",
				name, msg.CareerName, date,
			),
		}
	}
}
