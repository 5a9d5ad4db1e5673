package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
)

// IssueTicketRepoParams carries everything the store needs to allocate a
// sequence number and insert the ticket in one transaction.
type IssueTicketRepoParams struct {
	CategoryID  int64
	Type        domain.TicketType
	IssueDate   time.Time
	IssuedAt    time.Time
	ContactInfo *string
}

// CallNextRepoParams identifies the queue to pull from and the counter
// announcing the call.
type CallNextRepoParams struct {
	CategoryID    int64
	IssueDate     time.Time
	CounterNumber int
	CalledAt      time.Time
}

// TicketRepository is the authoritative ticket store. Issue and CallNext are
// the two operations with real concurrency weight: both must be atomic with
// respect to other callers on the same scope.
type TicketRepository interface {
	// Issue allocates the next sequence number for the (type, issue date)
	// scope and inserts the ticket, serialized against concurrent issuers of
	// the same scope. Races surface as apperrors.ErrTransientConflict for the
	// caller's retry policy; a duplicate number is never returned.
	Issue(ctx context.Context, params IssueTicketRepoParams) (*domain.Ticket, error)

	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number string, issueDate time.Time) (*domain.Ticket, error)

	// ListWaiting returns the category's waiting tickets already ordered:
	// priority first, then issued-at ascending.
	ListWaiting(ctx context.Context, categoryID int64, issueDate time.Time) ([]*domain.Ticket, error)

	// CallNext atomically claims the head of the category's queue and marks
	// it called. Returns apperrors.ErrQueueEmpty when nothing is waiting.
	CallNext(ctx context.Context, params CallNextRepoParams) (*domain.Ticket, error)

	// ApplyTransition persists an already-transitioned ticket, guarded by the
	// status the ticket had before the domain transition ran. If the stored
	// row no longer has that status the update is rejected with
	// apperrors.ErrInvalidTransition (or ErrTicketNotFound if the row is
	// gone), so racing staff cannot double-apply a transition. The activity
	// entry is written in the same transaction.
	ApplyTransition(ctx context.Context, ticket *domain.Ticket, from domain.TicketStatus, entry domain.ActivityLog) error

	DailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error)
	QueueStats(ctx context.Context, categoryID int64, issueDate time.Time) (*domain.QueueStats, error)
	ListActivity(ctx context.Context, ticketID int64) ([]*domain.ActivityLog, error)
}

// CategoryRepository reads service categories.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceCategory, error)
	ListActive(ctx context.Context) ([]*domain.ServiceCategory, error)
}

// StaffRepository persists staff accounts.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
}
