package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
	"github.com/lorrc/queue-desk-backend/internal/core/mocks"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
	"github.com/lorrc/queue-desk-backend/internal/core/services"
)

type queueServiceFixture struct {
	repo        *mocks.MockTicketRepository
	categories  *mocks.MockCategoryRepository
	cache       *mocks.MockSnapshotCache
	notifier    *mocks.MockNotifier
	broadcaster *mocks.MockEventBroadcaster
	svc         *services.QueueService
}

func newQueueServiceFixture() *queueServiceFixture {
	f := &queueServiceFixture{
		repo:        mocks.NewMockTicketRepository(),
		categories:  mocks.NewMockCategoryRepository(),
		cache:       mocks.NewMockSnapshotCache(),
		notifier:    mocks.NewMockNotifier(),
		broadcaster: mocks.NewMockEventBroadcaster(),
	}
	f.svc = services.NewQueueService(
		f.repo, f.categories, f.cache,
		mocks.FixedClock{Instant: testInstant},
		f.notifier, f.broadcaster, 10*time.Second,
	)
	return f
}

func TestQueueService_Queue(t *testing.T) {
	ctx := context.Background()
	key := ports.QueueKey{CategoryID: 1, Date: testDate}

	t.Run("cache hit skips the store", func(t *testing.T) {
		f := newQueueServiceFixture()
		cached := []*domain.Ticket{waitingTicket(1, 1)}

		f.categories.On("GetByID", ctx, int64(1)).Return(activeCategory(1), nil)
		f.cache.On("GetQueue", ctx, key).Return(cached, nil)

		queue, err := f.svc.Queue(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, cached, queue)
		f.repo.AssertNotCalled(t, "ListWaiting")
	})

	t.Run("cached snapshot is re-sorted into call order", func(t *testing.T) {
		f := newQueueServiceFixture()

		normal := waitingTicket(1, 1)
		priority := waitingTicket(2, 1)
		priority.Type = domain.TypePriority
		priority.IssuedAt = normal.IssuedAt.Add(5 * time.Minute)

		// Snapshot stored out of order: the priority ticket must still come
		// out ahead.
		f.categories.On("GetByID", ctx, int64(1)).Return(activeCategory(1), nil)
		f.cache.On("GetQueue", ctx, key).Return([]*domain.Ticket{normal, priority}, nil)

		queue, err := f.svc.Queue(ctx, 1)

		require.NoError(t, err)
		require.Len(t, queue, 2)
		assert.Equal(t, int64(2), queue[0].ID)
		assert.Equal(t, int64(1), queue[1].ID)
	})

	t.Run("cache miss reads store and repopulates", func(t *testing.T) {
		f := newQueueServiceFixture()
		fresh := []*domain.Ticket{waitingTicket(1, 1), waitingTicket(2, 1)}

		f.categories.On("GetByID", ctx, int64(1)).Return(activeCategory(1), nil)
		f.cache.On("GetQueue", ctx, key).Return(nil, ports.ErrCacheMiss)
		f.repo.On("ListWaiting", ctx, int64(1), testDate).Return(fresh, nil)
		f.cache.On("SetQueue", ctx, key, fresh, 10*time.Second).Return(nil)

		queue, err := f.svc.Queue(ctx, 1)

		require.NoError(t, err)
		assert.Len(t, queue, 2)
		f.cache.AssertExpectations(t)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newQueueServiceFixture()

		f.categories.On("GetByID", ctx, int64(9)).Return(nil, apperrors.ErrCategoryNotFound)

		_, err := f.svc.Queue(ctx, 9)

		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
	})
}

func TestQueueService_PeekNext(t *testing.T) {
	ctx := context.Background()

	t.Run("returns head without claiming", func(t *testing.T) {
		f := newQueueServiceFixture()
		head := waitingTicket(5, 1)

		f.categories.On("GetByID", ctx, int64(1)).Return(activeCategory(1), nil)
		f.repo.On("ListWaiting", ctx, int64(1), testDate).
			Return([]*domain.Ticket{head, waitingTicket(6, 1)}, nil)

		ticket, err := f.svc.PeekNext(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(5), ticket.ID)
		assert.Equal(t, domain.StatusWaiting, ticket.Status)
		f.repo.AssertNotCalled(t, "CallNext")
	})

	t.Run("empty queue", func(t *testing.T) {
		f := newQueueServiceFixture()

		f.categories.On("GetByID", ctx, int64(1)).Return(activeCategory(1), nil)
		f.repo.On("ListWaiting", ctx, int64(1), testDate).Return([]*domain.Ticket{}, nil)

		_, err := f.svc.PeekNext(ctx, 1)

		assert.ErrorIs(t, err, apperrors.ErrQueueEmpty)
	})
}

func TestQueueService_CallNext(t *testing.T) {
	ctx := context.Background()

	t.Run("claims head, invalidates and notifies", func(t *testing.T) {
		f := newQueueServiceFixture()

		contact := "+351912345678"
		called := waitingTicket(5, 1)
		called.Status = domain.StatusCalled
		called.ContactInfo = &contact

		f.categories.On("GetByID", ctx, int64(1)).Return(activeCategory(1), nil)
		f.repo.On("CallNext", ctx, ports.CallNextRepoParams{
			CategoryID:    1,
			IssueDate:     testDate,
			CounterNumber: 2,
			CalledAt:      testInstant,
		}).Return(called, nil)
		f.cache.On("Invalidate", ctx,
			ports.QueueKey{CategoryID: 1, Date: testDate},
			ports.StatsKey{Date: testDate},
		).Return(nil)
		f.broadcaster.On("Broadcast", mock.AnythingOfType("domain.Event")).Return(nil)
		f.notifier.On("Notify", mock.Anything, mock.AnythingOfType("ports.NotificationParams")).Return()

		ticket, err := f.svc.CallNext(ctx, 1, 2)
		f.svc.Shutdown()

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCalled, ticket.Status)
		f.repo.AssertExpectations(t)
		f.cache.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("no contact info means no notification", func(t *testing.T) {
		f := newQueueServiceFixture()

		called := waitingTicket(5, 1)
		called.Status = domain.StatusCalled

		f.categories.On("GetByID", ctx, int64(1)).Return(activeCategory(1), nil)
		f.repo.On("CallNext", ctx, mock.AnythingOfType("ports.CallNextRepoParams")).Return(called, nil)
		f.cache.On("Invalidate", ctx, mock.Anything, mock.Anything).Return(nil)
		f.broadcaster.On("Broadcast", mock.AnythingOfType("domain.Event")).Return(nil)

		_, err := f.svc.CallNext(ctx, 1, 2)
		f.svc.Shutdown()

		require.NoError(t, err)
		f.notifier.AssertNotCalled(t, "Notify")
	})

	t.Run("empty queue error passes through untouched", func(t *testing.T) {
		f := newQueueServiceFixture()

		f.categories.On("GetByID", ctx, int64(1)).Return(activeCategory(1), nil)
		f.repo.On("CallNext", ctx, mock.AnythingOfType("ports.CallNextRepoParams")).
			Return(nil, apperrors.ErrQueueEmpty)

		_, err := f.svc.CallNext(ctx, 1, 2)

		assert.ErrorIs(t, err, apperrors.ErrQueueEmpty)
		f.cache.AssertNotCalled(t, "Invalidate")
	})

	t.Run("invalid counter number", func(t *testing.T) {
		f := newQueueServiceFixture()

		_, err := f.svc.CallNext(ctx, 1, 0)

		assert.ErrorIs(t, err, apperrors.ErrInvalidCounter)
		f.repo.AssertNotCalled(t, "CallNext")
	})
}

func TestQueueService_PositionOf(t *testing.T) {
	ctx := context.Background()

	t.Run("position is 1-based within the ordered queue", func(t *testing.T) {
		f := newQueueServiceFixture()

		target := waitingTicket(6, 1)
		f.repo.On("GetByID", ctx, int64(6)).Return(target, nil)
		f.repo.On("ListWaiting", ctx, int64(1), testDate).
			Return([]*domain.Ticket{waitingTicket(5, 1), target}, nil)

		pos, err := f.svc.PositionOf(ctx, 6)

		require.NoError(t, err)
		assert.Equal(t, 2, pos)
	})

	t.Run("non-waiting ticket is not in the queue", func(t *testing.T) {
		f := newQueueServiceFixture()

		serving := waitingTicket(6, 1)
		serving.Status = domain.StatusInService
		f.repo.On("GetByID", ctx, int64(6)).Return(serving, nil)

		_, err := f.svc.PositionOf(ctx, 6)

		assert.ErrorIs(t, err, apperrors.ErrNotInQueue)
		f.repo.AssertNotCalled(t, "ListWaiting")
	})
}

func TestQueueService_QueueStats(t *testing.T) {
	ctx := context.Background()
	f := newQueueServiceFixture()

	// The repository returns raw counts; the estimate comes from the
	// category's average service time (5 minutes in activeCategory).
	stats := &domain.QueueStats{CategoryID: 1, WaitingTotal: 4, WaitingPriority: 1}
	f.categories.On("GetByID", ctx, int64(1)).Return(activeCategory(1), nil)
	f.repo.On("QueueStats", ctx, int64(1), testDate).Return(stats, nil)

	got, err := f.svc.QueueStats(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, 4, got.WaitingTotal)
	assert.Equal(t, 20, got.EstimatedWaitMinutes)
}
