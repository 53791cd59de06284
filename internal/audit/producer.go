package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"matricula/internal/platform/kafka"
)

// Producer writes accepted messages onto the durable log topic, keyed by
// entity so per-entity ordering holds.
type Producer struct {
	producer *kafka.Producer
	topic    string
	tracer   trace.Tracer
}

// NewProducer binds a kafka producer to the audit topic.
func NewProducer(producer *kafka.Producer, topic string) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		tracer:   otel.Tracer("matricula/audit"),
	}
}

// Publish serializes the message and produces it synchronously.
func (p *Producer) Publish(ctx context.Context, msg Message) error {
	ctx, span := p.tracer.Start(ctx, "audit.produce")
	defer span.End()
	span.SetAttributes(attribute.String("messaging.kafka.key", msg.PartitionKey()))

	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal audit message: %w", err)
	}

	if err := p.producer.Produce(ctx, p.topic, []byte(msg.PartitionKey()), value); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Healthy reports whether the brokers answer a ping.
func (p *Producer) Healthy(ctx context.Context) bool {
	return p.producer.Ping(ctx) == nil
}
