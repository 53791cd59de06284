package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"matricula/internal/audit"
	"matricula/internal/audit/store/memory"
	"matricula/internal/platform/kafka"
)

type SinkSuite struct {
	suite.Suite
	store *memory.Store
	sink  *Sink
}

func TestSinkSuite(t *testing.T) {
	suite.Run(t, new(SinkSuite))
}

func (s *SinkSuite) SetupTest() {
	s.store = memory.New()
	s.sink = NewSink(s.store, slog.Default(), testMetrics())
}

func testMetrics() *audit.Metrics {
	opt := func(name string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name})
	}
	return &audit.Metrics{
		Ingested:  opt("test_ingested"),
		Rejected:  opt("test_rejected"),
		Persisted: opt("test_persisted"),
		Dropped:   opt("test_dropped"),
	}
}

func (s *SinkSuite) record(msg audit.Message) *kafka.Message {
	value, err := json.Marshal(msg)
	s.Require().NoError(err)
	return &kafka.Message{Topic: "audit.events", Partition: 0, Offset: 1, Value: value}
}

func (s *SinkSuite) TestHandle() {
	ctx := context.Background()

	s.Run("persists a decoded message with a fresh row id", func() {
		msg := audit.Message{
			EventType:     "student.enrolled",
			EntityName:    "StudentCareer",
			EntityID:      "42-7",
			Action:        "Created",
			Actor:         "admin",
			Timestamp:     time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
			NewValues:     "isActive=true",
			CorrelationID: "corr-1",
		}

		err := s.sink.Handle(ctx, s.record(msg))
		s.Require().NoError(err)

		rows := s.store.All()
		s.Require().Len(rows, 1)
		row := rows[0]
		s.NotEqual("00000000-0000-0000-0000-000000000000", row.ID.String())
		s.Equal(msg.EventType, row.EventType)
		s.Equal(msg.EntityID, row.EntityID)
		s.Equal(msg.Action, row.Action)
		s.Equal(msg.CorrelationID, row.CorrelationID)
		s.False(row.RecordedAt.IsZero())
	})

	s.Run("undecodable payload is dropped and committed", func() {
		before := len(s.store.All())

		err := s.sink.Handle(ctx, &kafka.Message{Value: []byte("not json")})
		s.NoError(err, "returning nil commits the offset past the bad record")
		s.Len(s.store.All(), before)
	})

	s.Run("reprocessed message appends a second row", func() {
		msg := audit.Message{EventType: "student.enrolled", EntityName: "StudentCareer", EntityID: "1-1"}
		before := len(s.store.All())

		s.Require().NoError(s.sink.Handle(ctx, s.record(msg)))
		s.Require().NoError(s.sink.Handle(ctx, s.record(msg)))
		s.Len(s.store.All(), before+2)
	})
}

func (s *SinkSuite) TestHandleStoreFailure() {
	sink := NewSink(failingStore{}, slog.Default(), testMetrics())

	err := sink.Handle(context.Background(), s.record(audit.Message{
		EventType:  "student.enrolled",
		EntityName: "StudentCareer",
		EntityID:   "42-7",
	}))
	s.Error(err, "a store failure must leave the offset uncommitted")
}

type failingStore struct{}

func (failingStore) Append(context.Context, audit.LogRow) error {
	return errors.New("database gone")
}

func (failingStore) List(context.Context, audit.Page) ([]audit.LogRow, int, error) {
	return nil, 0, errors.New("database gone")
}
