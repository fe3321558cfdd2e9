package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotel-backoffice/utils"

	"github.com/redis/go-redis/v9"
)

// StatsCache stores computed dashboard statistics per window.
//
// Callers take a Key before reading the reservations the statistics are
// computed from, and Set under that same key. A write that invalidates in
// between moves later lookups to a new key, so the late Set is never served.
type StatsCache interface {
	Key(ctx context.Context, from, to time.Time) (string, error)
	Get(ctx context.Context, key string) (*Statistics, bool, error)
	Set(ctx context.Context, key string, st Statistics) error
	// Invalidate drops every cached window. Called after any reservation or room write.
	Invalidate(ctx context.Context) error
}

// NoopStatsCache is used when Redis is not configured.
type NoopStatsCache struct{}

func (NoopStatsCache) Key(context.Context, time.Time, time.Time) (string, error) { return "", nil }
func (NoopStatsCache) Get(context.Context, string) (*Statistics, bool, error) {
	return nil, false, nil
}
func (NoopStatsCache) Set(context.Context, string, Statistics) error { return nil }
func (NoopStatsCache) Invalidate(context.Context) error              { return nil }

const statsGenerationKey = "stats:generation"

// RedisStatsCache keys entries by a generation counter so invalidation is a
// single INCR; stale generations age out through the TTL.
type RedisStatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatsCache(rdb *redis.Client, ttl time.Duration) *RedisStatsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStatsCache{rdb: rdb, ttl: ttl}
}

func (c *RedisStatsCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, statsGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisStatsCache) Key(ctx context.Context, from, to time.Time) (string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("stats:%d:%s:%s", gen, utils.FormatDate(from), utils.FormatDate(to)), nil
}

func (c *RedisStatsCache) Get(ctx context.Context, key string) (*Statistics, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var st Statistics
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, false, err
	}
	return &st, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, key string, st Statistics) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, statsGenerationKey).Err()
}
