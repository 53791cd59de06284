package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"matricula/internal/enrollment"
	"matricula/pkg/sentinel"
)

type StoreSuite struct {
	suite.Suite
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New()
}

func (s *StoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	rec := &enrollment.EnrollmentRecord{
		StudentID:  42,
		CareerID:   7,
		EnrolledAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Active:     true,
	}

	s.Run("missing record is not found", func() {
		_, err := s.store.Find(ctx, 42, 7)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("created record round-trips", func() {
		s.Require().NoError(s.store.Create(ctx, rec))

		got, err := s.store.Find(ctx, 42, 7)
		s.Require().NoError(err)
		s.Equal(*rec, *got)
	})

	s.Run("duplicate create is a conflict", func() {
		err := s.store.Create(ctx, rec)
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("find returns a copy", func() {
		got, err := s.store.Find(ctx, 42, 7)
		s.Require().NoError(err)
		got.Active = false

		again, err := s.store.Find(ctx, 42, 7)
		s.Require().NoError(err)
		s.True(again.Active)
	})
}

func (s *StoreSuite) TestUpdate() {
	ctx := context.Background()

	s.Run("missing record is not found", func() {
		err := s.store.Update(ctx, &enrollment.EnrollmentRecord{StudentID: 1, CareerID: 2})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("update overwrites in place", func() {
		rec := &enrollment.EnrollmentRecord{StudentID: 1, CareerID: 2, Active: true}
		s.Require().NoError(s.store.Create(ctx, rec))

		rec.Active = false
		s.Require().NoError(s.store.Update(ctx, rec))

		got, err := s.store.Find(ctx, 1, 2)
		s.Require().NoError(err)
		s.False(got.Active)
	})
}
