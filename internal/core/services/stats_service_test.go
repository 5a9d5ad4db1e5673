package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	"github.com/lorrc/queue-desk-backend/internal/core/mocks"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
	"github.com/lorrc/queue-desk-backend/internal/core/services"
)

func TestStatsService_DailyStats(t *testing.T) {
	ctx := context.Background()
	key := ports.StatsKey{Date: testDate}

	t.Run("cache hit", func(t *testing.T) {
		repo := mocks.NewMockTicketRepository()
		cache := mocks.NewMockSnapshotCache()
		svc := services.NewStatsService(repo, cache, 30*time.Second)

		cached := &domain.DailyStats{Date: testDate, TotalIssued: 12, Completed: 9}
		cache.On("GetStats", ctx, key).Return(cached, nil)

		stats, err := svc.DailyStats(ctx, testInstant) // instant, not midnight

		require.NoError(t, err)
		assert.Equal(t, cached, stats)
		repo.AssertNotCalled(t, "DailyStats")
	})

	t.Run("cache miss repopulates with TTL", func(t *testing.T) {
		repo := mocks.NewMockTicketRepository()
		cache := mocks.NewMockSnapshotCache()
		svc := services.NewStatsService(repo, cache, 30*time.Second)

		fresh := &domain.DailyStats{Date: testDate, TotalIssued: 3, Waiting: 3}
		cache.On("GetStats", ctx, key).Return(nil, ports.ErrCacheMiss)
		repo.On("DailyStats", ctx, testDate).Return(fresh, nil)
		cache.On("SetStats", ctx, key, fresh, 30*time.Second).Return(nil)

		stats, err := svc.DailyStats(ctx, testInstant)

		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalIssued)
		cache.AssertExpectations(t)
	})
}
