package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the facade with a Redis client.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	raw, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Scan(ctx context.Context, cursor uint64, pattern string, count int64) ([]string, uint64, error) {
	return s.rdb.Scan(ctx, cursor, pattern, count).Result()
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	pipe := s.rdb.Pipeline()
	for _, k := range keys {
		pipe.Del(ctx, k)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Counters is a Recorder backed by atomic hit/miss counters.
type Counters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (c *Counters) Hit(string)  { c.hits.Add(1) }
func (c *Counters) Miss(string) { c.misses.Add(1) }

func (c *Counters) Hits() int64   { return c.hits.Load() }
func (c *Counters) Misses() int64 { return c.misses.Load() }
