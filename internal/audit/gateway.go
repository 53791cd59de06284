package audit

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

// Gateway is the audit publish gateway: it ships a Message to the audit
// service's ingestion endpoint over HTTP. It runs inside the enrollment
// service, synchronously within the request.
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
		tracer:  otel.Tracer("matricula/audit"),
	}
}

// Publish POSTs the message to /audit/events. Any non-2xx response is an
// error; the caller decides what a failed propagation means.
func (g *Gateway) Publish(ctx context.Context, msg Message) error {
	ctx, span := g.tracer.Start(ctx, "audit.publish")
	defer span.End()
	span.SetAttributes(
		attribute.String("audit.entity_id", msg.EntityID),
		attribute.String("audit.action", msg.Action),
	)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal audit message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/audit/events", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build audit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("post audit event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("audit service returned %s", resp.Status)
		span.RecordError(err)
		return err
	}
	return nil
}
