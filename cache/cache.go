// Package cache is a read-through cache for whole JSON response
// payloads, keyed by (namespace, path, normalized query).
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Store is the minimal key-value surface the facade needs. The Redis
// implementation lives in redis.go; tests use an in-memory one.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Scan(ctx context.Context, cursor uint64, pattern string, count int64) ([]string, uint64, error)
	Del(ctx context.Context, keys ...string) error
}

// Recorder receives hit/miss events. Injected rather than kept as
// package counters so concurrent tests stay isolated.
type Recorder interface {
	Hit(key string)
	Miss(key string)
}

type NopRecorder struct{}

func (NopRecorder) Hit(string)  {}
func (NopRecorder) Miss(string) {}

type Cache struct {
	store Store
	rec   Recorder
}

func New(store Store, rec Recorder) *Cache {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &Cache{store: store, rec: rec}
}

// BuildKey canonicalizes query (map marshaling sorts keys) and hashes
// it with the path. Identical queries hash identically regardless of
// construction order; any value difference changes the key.
func BuildKey(ns, path string, query map[string]string) string {
	stable, err := json.Marshal(query)
	if err != nil {
		stable = []byte("{}")
	}
	sum := sha1.Sum([]byte(path + "::" + string(stable)))
	return fmt.Sprintf("%s:%s:%x", ns, path, sum)
}

// Get unmarshals the stored payload into out. A malformed payload is
// treated as a miss, never an error.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		if err != nil {
			log.Printf("[cache] GET error, treating as miss %s: %v", key, err)
		}
		c.rec.Miss(key)
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("[cache] PARSE error, treating as miss %s: %v", key, err)
		c.rec.Miss(key)
		return false
	}
	c.rec.Hit(key)
	return true
}

// Set stores value with expiration. ttlSeconds <= 0 stores without one.
func (c *Cache) Set(ctx context.Context, key string, value any, ttlSeconds int) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return c.store.Set(ctx, key, string(payload), ttl)
}

// InvalidateByPattern deletes all keys matching a glob pattern, walking
// the keyspace with a cursor. Use tight patterns, e.g. "cinemas:*".
func (c *Cache) InvalidateByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := c.store.Scan(ctx, cursor, pattern, 200)
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.store.Del(ctx, keys...); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
