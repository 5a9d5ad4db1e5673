package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// QueueService implements the priority-ordered waiting queue. Reads go
// through a short-TTL cache; CallNext is delegated to the repository so the
// claim is atomic even with several counters calling at once.
type QueueService struct {
	ticketRepo   ports.TicketRepository
	categoryRepo ports.CategoryRepository
	cache        ports.SnapshotCache
	clock        domain.Clock
	notifier     ports.Notifier
	broadcaster  ports.EventBroadcaster
	queueTTL     time.Duration
	wg           sync.WaitGroup
}

var _ ports.QueueService = (*QueueService)(nil)

// NewQueueService creates a new queue service
func NewQueueService(
	ticketRepo ports.TicketRepository,
	categoryRepo ports.CategoryRepository,
	cache ports.SnapshotCache,
	clock domain.Clock,
	notifier ports.Notifier,
	broadcaster ports.EventBroadcaster,
	queueTTL time.Duration,
) *QueueService {
	return &QueueService{
		ticketRepo:   ticketRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		clock:        clock,
		notifier:     notifier,
		broadcaster:  broadcaster,
		queueTTL:     queueTTL,
	}
}

// Queue returns today's waiting tickets for a category in call order:
// priority tickets first, each group oldest first.
func (s *QueueService) Queue(ctx context.Context, categoryID int64) ([]*domain.Ticket, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	key := ports.QueueKey{CategoryID: categoryID, Date: s.clock.Today()}
	if cached, err := s.cache.GetQueue(ctx, key); err == nil {
		// The cache stores tickets, not their order. Re-sort so a snapshot
		// written by an older deploy can never serve the wrong call order.
		domain.SortQueue(cached)
		return cached, nil
	}

	tickets, err := s.ticketRepo.ListWaiting(ctx, categoryID, key.Date)
	if err != nil {
		return nil, err
	}

	// Best effort: a failed write just means the next read hits the store.
	_ = s.cache.SetQueue(ctx, key, tickets, s.queueTTL)

	return tickets, nil
}

// PeekNext reports which ticket CallNext would claim, without claiming it.
// It reads the store directly; a stale peek from cache would misinform the
// counter display.
func (s *QueueService) PeekNext(ctx context.Context, categoryID int64) (*domain.Ticket, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.ListWaiting(ctx, categoryID, s.clock.Today())
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, apperrors.ErrQueueEmpty
	}
	return tickets[0], nil
}

// CallNext claims the head of the queue for a counter. The repository does
// the selection and the status flip in one atomic step, so two counters
// calling simultaneously always receive two different tickets.
func (s *QueueService) CallNext(ctx context.Context, categoryID int64, counterNumber int) (*domain.Ticket, error) {
	if counterNumber <= 0 {
		return nil, apperrors.ErrInvalidCounter
	}
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.CallNext(ctx, ports.CallNextRepoParams{
		CategoryID:    categoryID,
		IssueDate:     s.clock.Today(),
		CounterNumber: counterNumber,
		CalledAt:      s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Invalidate(ctx,
		ports.QueueKey{CategoryID: categoryID, Date: ticket.IssueDate},
		ports.StatsKey{Date: ticket.IssueDate},
	)

	s.broadcastCall(ticket)
	if ticket.ContactInfo != nil && *ticket.ContactInfo != "" {
		s.notifyCalled(ticket, counterNumber)
	}

	return ticket, nil
}

// PositionOf reports a waiting ticket's 1-based place in its queue.
func (s *QueueService) PositionOf(ctx context.Context, ticketID int64) (int, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	if ticket.Status != domain.StatusWaiting {
		return 0, apperrors.ErrNotInQueue
	}

	queue, err := s.ticketRepo.ListWaiting(ctx, ticket.CategoryID, ticket.IssueDate)
	if err != nil {
		return 0, err
	}

	pos := domain.PositionOf(queue, ticketID)
	if pos == 0 {
		// Left the queue between the two reads.
		return 0, apperrors.ErrNotInQueue
	}
	return pos, nil
}

// QueueStats returns live per-category queue counts and an estimated wait
// derived from the category's average service time.
func (s *QueueService) QueueStats(ctx context.Context, categoryID int64) (*domain.QueueStats, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	stats, err := s.ticketRepo.QueueStats(ctx, categoryID, s.clock.Today())
	if err != nil {
		return nil, err
	}

	stats.EstimatedWaitMinutes = category.EstimatedWaitMinutes(stats.WaitingTotal)
	return stats, nil
}

// broadcastCall pushes the call to display boards (async)
func (s *QueueService) broadcastCall(ticket *domain.Ticket) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.broadcaster.Broadcast(domain.Event{
			Type:       domain.EventTicketCalled,
			TicketID:   ticket.ID,
			CategoryID: ticket.CategoryID,
			Payload:    ticket,
		})
	}()
}

// notifyCalled texts the ticket holder that their turn has come (async)
func (s *QueueService) notifyCalled(ticket *domain.Ticket, counterNumber int) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Background context: the calling request may already be done.
		s.notifier.Notify(context.Background(), ports.NotificationParams{
			ContactInfo:  *ticket.ContactInfo,
			TicketNumber: ticket.Number,
			Message:      fmt.Sprintf("Ticket %s: please proceed to counter %d.", ticket.Number, counterNumber),
		})
	}()
}

func (s *QueueService) Shutdown() {
	s.wg.Wait()
}
