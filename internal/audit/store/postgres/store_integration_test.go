//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"matricula/internal/audit"
	"matricula/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.pg.Exec(s.T(), `
		CREATE TABLE audit_events (
			id             UUID        PRIMARY KEY,
			event_type     TEXT        NOT NULL,
			entity_name    TEXT        NOT NULL,
			entity_id      TEXT        NOT NULL,
			action         TEXT        NOT NULL,
			actor          TEXT        NOT NULL DEFAULT '',
			occurred_at    TIMESTAMPTZ NOT NULL,
			old_values     TEXT        NOT NULL DEFAULT '',
			new_values     TEXT        NOT NULL DEFAULT '',
			correlation_id TEXT        NOT NULL DEFAULT '',
			recorded_at    TIMESTAMPTZ NOT NULL
		)
	`)
	s.store = New(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.pg.Exec(s.T(), `TRUNCATE audit_events`)
}

func (s *PostgresStoreSuite) row(i int, eventType string) audit.LogRow {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return audit.LogRow{
		ID:            uuid.New(),
		EventType:     eventType,
		EntityName:    "StudentCareer",
		EntityID:      fmt.Sprintf("42-%d", i),
		Action:        "Created",
		Actor:         "admin",
		Timestamp:     base.Add(time.Duration(i) * time.Minute),
		NewValues:     "isActive=true",
		CorrelationID: uuid.NewString(),
		RecordedAt:    base.Add(time.Duration(i) * time.Minute),
	}
}

func (s *PostgresStoreSuite) TestAppendAndList() {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		typ := "student.enrolled"
		if i%2 == 1 {
			typ = "student.unenrolled"
		}
		s.Require().NoError(s.store.Append(ctx, s.row(i, typ)))
	}

	s.Run("unfiltered list returns the full total newest first", func() {
		rows, total, err := s.store.List(ctx, audit.Page{Page: 1, PageSize: 10})
		s.Require().NoError(err)
		s.Equal(5, total)
		s.Require().Len(rows, 5)
		s.Equal("42-4", rows[0].EntityID)
	})

	s.Run("pagination windows the result", func() {
		rows, total, err := s.store.List(ctx, audit.Page{Page: 2, PageSize: 2})
		s.Require().NoError(err)
		s.Equal(5, total)
		s.Len(rows, 2)
	})

	s.Run("event type filter narrows rows and total", func() {
		rows, total, err := s.store.List(ctx, audit.Page{Page: 1, PageSize: 10, EventType: "student.unenrolled"})
		s.Require().NoError(err)
		s.Equal(2, total)
		s.Len(rows, 2)
	})
}

func (s *PostgresStoreSuite) TestAppendIsAppendOnly() {
	ctx := context.Background()

	// Two rows for the same message differ only in surrogate id.
	r1 := s.row(0, "student.enrolled")
	r2 := r1
	r2.ID = uuid.New()

	s.Require().NoError(s.store.Append(ctx, r1))
	s.Require().NoError(s.store.Append(ctx, r2))

	_, total, err := s.store.List(ctx, audit.Page{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Equal(2, total)
}
