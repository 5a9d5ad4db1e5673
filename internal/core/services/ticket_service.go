package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// TicketService implements business logic for issuing tickets and moving
// them through their lifecycle.
type TicketService struct {
	ticketRepo   ports.TicketRepository
	categoryRepo ports.CategoryRepository
	cache        ports.SnapshotCache
	clock        domain.Clock
	broadcaster  ports.EventBroadcaster
	retry        RetryPolicy
	wg           sync.WaitGroup
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service
func NewTicketService(
	ticketRepo ports.TicketRepository,
	categoryRepo ports.CategoryRepository,
	cache ports.SnapshotCache,
	clock domain.Clock,
	broadcaster ports.EventBroadcaster,
	retry RetryPolicy,
) *TicketService {
	return &TicketService{
		ticketRepo:   ticketRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		clock:        clock,
		broadcaster:  broadcaster,
		retry:        retry,
	}
}

// IssueTicket hands out the next ticket number for a category. The repository
// allocates the sequence and inserts the row atomically; concurrent issuance
// on the same (type, day) scope may surface as a transient conflict, which is
// reattempted under the retry policy.
func (s *TicketService) IssueTicket(ctx context.Context, params ports.IssueTicketParams) (*domain.Ticket, error) {
	if !params.Type.Valid() {
		return nil, apperrors.ErrInvalidTicketType
	}

	category, err := s.categoryRepo.GetByID(ctx, params.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.Active {
		return nil, apperrors.ErrCategoryInactive
	}

	repoParams := ports.IssueTicketRepoParams{
		CategoryID:  params.CategoryID,
		Type:        params.Type,
		IssueDate:   s.clock.Today(),
		IssuedAt:    s.clock.Now(),
		ContactInfo: params.ContactInfo,
	}

	var ticket *domain.Ticket
	err = s.retry.Do(ctx, func() error {
		var issueErr error
		ticket, issueErr = s.ticketRepo.Issue(ctx, repoParams)
		return issueErr
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrTransientConflict) {
			// Attempts exhausted without ever winning the allocation race.
			return nil, fmt.Errorf("%w: could not allocate %s sequence for %s",
				apperrors.ErrSequenceExhausted, params.Type, repoParams.IssueDate.Format("2006-01-02"))
		}
		return nil, err
	}

	s.invalidateSnapshots(ctx, ticket)
	s.broadcastTicketEvent(domain.EventTicketIssued, ticket)

	return ticket, nil
}

// GetTicket retrieves a single ticket by ID
func (s *TicketService) GetTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, ticketID)
}

// GetTicketByNumber resolves a display number against today's tickets.
// Numbers like N007 repeat every day, so lookups never reach past days.
func (s *TicketService) GetTicketByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	return s.ticketRepo.GetByNumber(ctx, number, s.clock.Today())
}

// TicketActivity returns a ticket's audit trail, oldest entry first.
func (s *TicketService) TicketActivity(ctx context.Context, ticketID int64) ([]*domain.ActivityLog, error) {
	if _, err := s.ticketRepo.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.ticketRepo.ListActivity(ctx, ticketID)
}

// StartService transitions a ticket into active service at a counter. Called
// tickets resume normally; waiting tickets are started directly and their
// call timestamp is backfilled.
func (s *TicketService) StartService(ctx context.Context, params ports.StartServiceParams) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, params.TicketID)
	if err != nil {
		return nil, err
	}

	from := ticket.Status
	if err := ticket.StartService(params.StaffID, params.CounterNumber, s.clock.Now()); err != nil {
		return nil, err
	}

	entry := domain.ActivityLog{
		TicketID:    ticket.ID,
		StaffID:     &params.StaffID,
		Action:      domain.ActionStarted,
		Description: fmt.Sprintf("Service started for ticket %s", ticket.Number),
	}
	if err := s.ticketRepo.ApplyTransition(ctx, ticket, from, entry); err != nil {
		return nil, err
	}

	s.invalidateSnapshots(ctx, ticket)
	s.broadcastTicketEvent(domain.EventTicketStarted, ticket)

	return ticket, nil
}

// CompleteTicket finishes service on a ticket and records how long it took
func (s *TicketService) CompleteTicket(ctx context.Context, params ports.CompleteTicketParams) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, params.TicketID)
	if err != nil {
		return nil, err
	}

	from := ticket.Status
	if err := ticket.Complete(params.Notes, s.clock.Now()); err != nil {
		return nil, err
	}

	entry := domain.ActivityLog{
		TicketID:    ticket.ID,
		StaffID:     &params.StaffID,
		Action:      domain.ActionCompleted,
		Description: fmt.Sprintf("Service completed for ticket %s", ticket.Number),
	}
	if err := s.ticketRepo.ApplyTransition(ctx, ticket, from, entry); err != nil {
		return nil, err
	}

	s.invalidateSnapshots(ctx, ticket)
	s.broadcastTicketEvent(domain.EventTicketCompleted, ticket)

	return ticket, nil
}

// CancelTicket removes a ticket from the flow with a mandatory reason
func (s *TicketService) CancelTicket(ctx context.Context, params ports.CancelTicketParams) (*domain.Ticket, error) {
	if params.Reason == "" {
		return nil, apperrors.ErrReasonRequired
	}

	ticket, err := s.ticketRepo.GetByID(ctx, params.TicketID)
	if err != nil {
		return nil, err
	}

	from := ticket.Status
	if err := ticket.Cancel(params.Reason, params.StaffID); err != nil {
		return nil, err
	}

	entry := domain.ActivityLog{
		TicketID:    ticket.ID,
		StaffID:     params.StaffID,
		Action:      domain.ActionCancelled,
		Description: fmt.Sprintf("Ticket %s cancelled: %s", ticket.Number, params.Reason),
	}
	if err := s.ticketRepo.ApplyTransition(ctx, ticket, from, entry); err != nil {
		return nil, err
	}

	s.invalidateSnapshots(ctx, ticket)
	s.broadcastTicketEvent(domain.EventTicketCancelled, ticket)

	return ticket, nil
}

// invalidateSnapshots drops the cached queue and stats views touched by a
// ticket change. Failures are swallowed: the entries expire on their own TTL.
func (s *TicketService) invalidateSnapshots(ctx context.Context, ticket *domain.Ticket) {
	_ = s.cache.Invalidate(ctx,
		ports.QueueKey{CategoryID: ticket.CategoryID, Date: ticket.IssueDate},
		ports.StatsKey{Date: ticket.IssueDate},
	)
}

// broadcastTicketEvent sends a real-time event to display boards (async)
func (s *TicketService) broadcastTicketEvent(eventType domain.EventType, ticket *domain.Ticket) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.broadcaster.Broadcast(domain.Event{
			Type:       eventType,
			TicketID:   ticket.ID,
			CategoryID: ticket.CategoryID,
			Payload:    ticket,
		})
	}()
}

func (s *TicketService) Shutdown() {
	s.wg.Wait()
}
