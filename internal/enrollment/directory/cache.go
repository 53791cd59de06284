package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through Redis decorator over the directory interfaces.
// Cache failures are logged and degrade to the underlying client, never
// surfaced to the caller.
type Cache struct {
	students StudentDirectory
	careers  CareerDirectory
	redis    *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
}

// NewCache wraps the given directories with a Redis cache.
func NewCache(students StudentDirectory, careers CareerDirectory, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{students: students, careers: careers, redis: rdb, ttl: ttl, logger: logger}
}

// Student resolves a student, preferring the cache.
func (c *Cache) Student(ctx context.Context, id int64) (*Student, error) {
	key := fmt.Sprintf("directory:student:%d", id)

	var cached Student
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	s, err := c.students.Student(ctx, id)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, key, s)
	return s, nil
}

// Career resolves a career, preferring the cache.
func (c *Cache) Career(ctx context.Context, id int64) (*Career, error) {
	key := fmt.Sprintf("directory:career:%d", id)

	var cached Career
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	career, err := c.careers.Career(ctx, id)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, key, career)
	return career, nil
}

func (c *Cache) lookup(ctx context.Context, key string, v any) bool {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warn("directory cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.logger.Warn("directory cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cache) fill(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("directory cache write failed", "key", key, "error", err)
	}
}
