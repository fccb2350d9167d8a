package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LetterCache stores rendered letter PDFs keyed by batch, record index and
// reference offset. Rendering is deterministic, so a cached letter is always
// byte-identical to a fresh render of the same inputs.
type LetterCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLetterCache wraps a Redis client with letter-specific key handling.
func NewLetterCache(client *redis.Client, ttl time.Duration) *LetterCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &LetterCache{client: client, ttl: ttl}
}

// Get returns the cached letter or nil on a miss. Errors degrade to misses.
func (c *LetterCache) Get(ctx context.Context, batchID string, index, refStart int) []byte {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := c.client.Get(ctx, c.key(batchID, index, refStart)).Bytes()
	if err != nil {
		return nil
	}
	return data
}

// Set stores a rendered letter. Failures are ignored; the cache is an
// optimization, not a source of truth.
func (c *LetterCache) Set(ctx context.Context, batchID string, index, refStart int, data []byte) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, c.key(batchID, index, refStart), data, c.ttl).Err()
}

// Invalidate drops all cached letters for a batch, used when a batch is deleted.
func (c *LetterCache) Invalidate(ctx context.Context, batchID string) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("letter:%s:*", batchID), 100).Iterator()
	for iter.Next(ctx) {
		_ = c.client.Del(ctx, iter.Val()).Err()
	}
}

func (c *LetterCache) key(batchID string, index, refStart int) string {
	return fmt.Sprintf("letter:%s:%d:%d", batchID, index, refStart)
}
