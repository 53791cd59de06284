package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Gateway ships a Message to the notification service's ingestion endpoints
// over HTTP. It runs inside the enrollment service, synchronously within the
// request.
type Gateway struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

// NewGateway builds a gateway client. A nil httpClient uses the default.
func NewGateway(baseURL string, httpClient *http.Client) *Gateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Gateway{
		baseURL: baseURL,
		http:    httpClient,
		tracer:  otel.Tracer("matricula/notification"),
	}
}

// Publish POSTs the message to the endpoint matching its kind. Any non-2xx
// response is an error; the caller decides what a failed propagation means.
func (g *Gateway) Publish(ctx context.Context, msg Message) error {
	ctx, span := g.tracer.Start(ctx, "notification.publish")
	defer span.End()
	span.SetAttributes(
		attribute.String("notification.kind", string(msg.Kind)),
		attribute.String("notification.message_id", msg.MessageID),
	)

	path := "/notifications/enrollment"
	if msg.Kind == KindUnenrollment {
		path = "/notifications/unenrollment"
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("notification service returned %s", resp.Status)
		span.RecordError(err)
		return err
	}
	return nil
}
