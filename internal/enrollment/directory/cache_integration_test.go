//go:build integration

package directory

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"matricula/pkg/sentinel"
	"matricula/pkg/testutil/containers"
)

type countingDirectory struct {
	student      *Student
	career       *Career
	studentCalls int
	careerCalls  int
}

func (c *countingDirectory) Student(context.Context, int64) (*Student, error) {
	c.studentCalls++
	if c.student == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *c.student
	return &cp, nil
}

func (c *countingDirectory) Career(context.Context, int64) (*Career, error) {
	c.careerCalls++
	if c.career == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *c.career
	return &cp, nil
}

func TestCacheReadThrough(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	origin := &countingDirectory{
		student: &Student{ID: 42, FirstName: "Ana", LastName: "Perez", Email: "ana.perez@uni.edu", Active: true},
		career:  &Career{ID: 7, Name: "Systems Engineering", FacultyName: "Engineering", Active: true},
	}
	cache := NewCache(origin, origin, rc.Client, time.Minute, slog.Default())

	st, err := cache.Student(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "Ana Perez", st.FullName())

	st, err = cache.Student(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), st.ID)
	require.Equal(t, 1, origin.studentCalls, "second lookup must be served from the cache")

	c, err := cache.Career(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "Systems Engineering", c.Name)

	_, err = cache.Career(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 1, origin.careerCalls)

	// Misses are not cached.
	_, err = cache.Student(ctx, 99)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	_, err = cache.Student(ctx, 99)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	require.Equal(t, 3, origin.studentCalls)
}
