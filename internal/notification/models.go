// Package notification turns enrollment state changes into user-facing
// emails via a routed, durable queue.
package notification

import "time"

// Kind selects the queue a message is routed to.
type Kind string

const (
	KindEnrollment   Kind = "Enrollment"
	KindUnenrollment Kind = "Unenrollment"
)

// RoutingKey maps the kind onto the exchange binding key.
func (k Kind) RoutingKey() string {
	if k == KindUnenrollment {
		return "enrollment.deleted"
	}
	return "enrollment.created"
}

// Message is the wire form accepted by the notification ingestion endpoints
// and published onto the queue. It has no persisted representation; its only
// effect is an outbound email. Consumers tolerate unknown and missing fields.
type Message struct {
	Recipient     string    `json:"recipient"`
	RecipientName string    `json:"recipientName,omitempty"`
	CareerName    string    `json:"careerName"`
	FacultyName   string    `json:"facultyName,omitempty"`
	EventDate     time.Time `json:"eventDate"`
	Kind          Kind      `json:"kind"`
	Reenrolled    bool      `json:"reenrolled,omitempty"`
	MessageID     string    `json:"messageId"`
	CreatedAt     time.Time `json:"createdAt"`
}
