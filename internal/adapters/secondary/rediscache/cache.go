// Package rediscache implements the snapshot cache on Redis. Entries are
// JSON-encoded and carry the TTL the caller picked; invalidation deletes the
// affected keys only, never the whole keyspace.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// SnapshotCache is the Redis-backed implementation of ports.SnapshotCache.
type SnapshotCache struct {
	client *redis.Client
}

var _ ports.SnapshotCache = (*SnapshotCache)(nil)

// New creates a snapshot cache on an existing Redis client.
func New(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{client: client}
}

// GetStats reads the cached daily statistics for key.
func (c *SnapshotCache) GetStats(ctx context.Context, key ports.StatsKey) (*domain.DailyStats, error) {
	stats := &domain.DailyStats{}
	if err := c.get(ctx, key, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// SetStats stores daily statistics under key for ttl.
func (c *SnapshotCache) SetStats(ctx context.Context, key ports.StatsKey, stats *domain.DailyStats, ttl time.Duration) error {
	return c.set(ctx, key, stats, ttl)
}

// GetQueue reads a cached queue snapshot for key.
func (c *SnapshotCache) GetQueue(ctx context.Context, key ports.QueueKey) ([]*domain.Ticket, error) {
	tickets := make([]*domain.Ticket, 0)
	if err := c.get(ctx, key, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// SetQueue stores a queue snapshot under key for ttl.
func (c *SnapshotCache) SetQueue(ctx context.Context, key ports.QueueKey, tickets []*domain.Ticket, ttl time.Duration) error {
	return c.set(ctx, key, tickets, ttl)
}

// Invalidate deletes the given keys. Missing keys are not an error.
func (c *SnapshotCache) Invalidate(ctx context.Context, keys ...ports.CacheKey) error {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = key.CacheKey()
	}
	return c.client.Del(ctx, names...).Err()
}

// Ping reports whether the Redis server is reachable.
func (c *SnapshotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *SnapshotCache) get(ctx context.Context, key ports.CacheKey, dst interface{}) error {
	payload, err := c.client.Get(ctx, key.CacheKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.ErrCacheMiss
		}
		return err
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		// A corrupt entry behaves like a miss so the caller refreshes it.
		return ports.ErrCacheMiss
	}
	return nil
}

func (c *SnapshotCache) set(ctx context.Context, key ports.CacheKey, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key.CacheKey(), payload, ttl).Err()
}
