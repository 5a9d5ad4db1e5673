package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
)

// ErrCacheMiss is returned by cache reads when no live entry exists.
var ErrCacheMiss = errors.New("cache miss")

// CacheKey is a typed cache key. Keys are small structs rather than
// hand-built strings so invalidation targets are checked at compile time.
// The interface is sealed: only the key types below implement it.
type CacheKey interface {
	CacheKey() string
	sealed()
}

// StatsKey addresses the cached daily statistics for one issue date.
type StatsKey struct {
	Date time.Time
}

func (k StatsKey) CacheKey() string {
	return "stats:" + k.Date.Format(time.DateOnly)
}

func (StatsKey) sealed() {}

// QueueKey addresses the cached queue snapshot for one category and date.
type QueueKey struct {
	CategoryID int64
	Date       time.Time
}

func (k QueueKey) CacheKey() string {
	return fmt.Sprintf("queue:%d:%s", k.CategoryID, k.Date.Format(time.DateOnly))
}

func (QueueKey) sealed() {}

// SnapshotCache memoizes expensive aggregate reads with a short TTL.
// Consumers treat it as read-only; every mutation that could change a cached
// aggregate must invalidate the affected keys explicitly, by key, never by
// blanket flush.
type SnapshotCache interface {
	GetStats(ctx context.Context, key StatsKey) (*domain.DailyStats, error)
	SetStats(ctx context.Context, key StatsKey, stats *domain.DailyStats, ttl time.Duration) error
	GetQueue(ctx context.Context, key QueueKey) ([]*domain.Ticket, error)
	SetQueue(ctx context.Context, key QueueKey, tickets []*domain.Ticket, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...CacheKey) error
}
