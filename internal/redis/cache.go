package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ViewCache is a JSON-backed Redis cache bound to one read model type T.
// Repositories own the key naming; the cache only handles serialisation,
// expiry, and error policy. Pass ttl 0 for keys that live until invalidated.
type ViewCache[T any] struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewViewCache[T any](client *goredis.Client, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl}
}

// Get returns the cached value, or (nil, false) on a miss. An entry that no
// longer unmarshals into T is treated as a miss and evicted so the caller
// falls back to PostgreSQL and rewrites it.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("ViewCache: evicting corrupt entry %s: %v", key, err)
		c.Delete(ctx, key)
		return nil, false
	}
	return &v, true
}

// Set stores value under key. Cache write failures are logged, not returned:
// PostgreSQL remains the source of truth and a stale or missing view only
// costs the next reader a fallback query.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("ViewCache: marshal error for key %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("ViewCache: write error for key %s: %v", key, err)
	}
}

// Delete drops a key. Same error policy as Set.
func (c *ViewCache[T]) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Printf("ViewCache: delete error for key %s: %v", key, err)
	}
}
