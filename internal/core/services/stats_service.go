package services

import (
	"context"
	"time"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// StatsService serves per-day aggregate counts through the snapshot cache.
type StatsService struct {
	ticketRepo ports.TicketRepository
	cache      ports.SnapshotCache
	statsTTL   time.Duration
}

var _ ports.StatsService = (*StatsService)(nil)

// NewStatsService creates a new stats service
func NewStatsService(ticketRepo ports.TicketRepository, cache ports.SnapshotCache, statsTTL time.Duration) *StatsService {
	return &StatsService{
		ticketRepo: ticketRepo,
		cache:      cache,
		statsTTL:   statsTTL,
	}
}

// DailyStats returns ticket counts by status for one issue date.
func (s *StatsService) DailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	key := ports.StatsKey{Date: domain.DateOf(date)}
	if cached, err := s.cache.GetStats(ctx, key); err == nil {
		return cached, nil
	}

	stats, err := s.ticketRepo.DailyStats(ctx, key.Date)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetStats(ctx, key, stats, s.statsTTL)

	return stats, nil
}
