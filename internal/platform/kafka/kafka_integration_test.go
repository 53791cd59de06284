//go:build integration

package kafka

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"matricula/pkg/testutil/containers"
)

type collectingHandler struct {
	messages chan *Message
}

func (h *collectingHandler) Handle(_ context.Context, msg *Message) error {
	h.messages <- msg
	return nil
}

func TestProduceConsumeRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rp := containers.NewRedpandaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	retention := "604800000"
	err := EnsureTopics(ctx, rp.Brokers, slog.Default(), TopicSpec{
		Name:              "audit.events",
		Partitions:        3,
		ReplicationFactor: 1,
		Configs: map[string]*string{
			"retention.ms": &retention,
		},
	})
	require.NoError(t, err)

	// Re-running the provisioning must be a no-op.
	require.NoError(t, EnsureTopics(ctx, rp.Brokers, slog.Default(), TopicSpec{
		Name:              "audit.events",
		Partitions:        3,
		ReplicationFactor: 1,
	}))

	producer, err := NewProducer(rp.Brokers)
	require.NoError(t, err)
	defer producer.Close()

	key := []byte("StudentCareer:42-7")
	value := []byte(`{"eventType":"student.enrolled"}`)
	require.NoError(t, producer.Produce(ctx, "audit.events", key, value))

	handler := &collectingHandler{messages: make(chan *Message, 1)}
	consumer, err := NewConsumer(ConsumerConfig{
		Brokers:     rp.Brokers,
		Group:       "audit-sink-test",
		Topic:       "audit.events",
		PollTimeout: time.Second,
		Backoff:     time.Second,
	}, handler, slog.Default())
	require.NoError(t, err)
	defer consumer.Close()

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = consumer.Run(runCtx)
	}()

	select {
	case msg := <-handler.messages:
		require.Equal(t, "audit.events", msg.Topic)
		require.Equal(t, key, msg.Key)
		require.Equal(t, value, msg.Value)
	case <-time.After(60 * time.Second):
		t.Fatal("timed out waiting for the consumed record")
	}

	stop()
	<-done
}
