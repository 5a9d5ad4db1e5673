package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
)

// IssueTicketParams defines the input for issuing a new ticket.
type IssueTicketParams struct {
	CategoryID  int64
	Type        domain.TicketType
	ContactInfo *string
}

// StartServiceParams defines the input for beginning attendance.
type StartServiceParams struct {
	TicketID      int64
	StaffID       uuid.UUID
	CounterNumber *int
}

// CompleteTicketParams defines the input for finishing attendance.
type CompleteTicketParams struct {
	TicketID int64
	StaffID  uuid.UUID
	Notes    *string
}

// CancelTicketParams defines the input for cancelling a ticket.
type CancelTicketParams struct {
	TicketID int64
	Reason   string
	StaffID  *uuid.UUID
}

// TicketService owns ticket issuance and the attendance lifecycle.
type TicketService interface {
	IssueTicket(ctx context.Context, params IssueTicketParams) (*domain.Ticket, error)
	GetTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error)
	// GetTicketByNumber resolves today's ticket with the given display
	// number; numbers repeat every day, so only the current issue date is
	// searched.
	GetTicketByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	TicketActivity(ctx context.Context, ticketID int64) ([]*domain.ActivityLog, error)
	StartService(ctx context.Context, params StartServiceParams) (*domain.Ticket, error)
	CompleteTicket(ctx context.Context, params CompleteTicketParams) (*domain.Ticket, error)
	CancelTicket(ctx context.Context, params CancelTicketParams) (*domain.Ticket, error)
}

// QueueService exposes the priority-ordered waiting queue.
type QueueService interface {
	Queue(ctx context.Context, categoryID int64) ([]*domain.Ticket, error)
	PeekNext(ctx context.Context, categoryID int64) (*domain.Ticket, error)
	CallNext(ctx context.Context, categoryID int64, counterNumber int) (*domain.Ticket, error)
	PositionOf(ctx context.Context, ticketID int64) (int, error)
	QueueStats(ctx context.Context, categoryID int64) (*domain.QueueStats, error)
}

// StatsService serves daily aggregate statistics.
type StatsService interface {
	DailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error)
}

// CategoryService lists the service categories available for issuance.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]*domain.ServiceCategory, error)
	GetCategory(ctx context.Context, id int64) (*domain.ServiceCategory, error)
}

// AuthService defines the port for staff authentication.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password string, counterNumber int, role domain.StaffRole) (*domain.Staff, error)
	Login(ctx context.Context, email, password string) (*domain.Staff, error)
}

// NotificationParams defines the input for notifying a ticket holder.
type NotificationParams struct {
	ContactInfo  string
	TicketNumber string
	Message      string
}

// Notifier is the boundary for outbound customer notifications (SMS).
// Delivery mechanics live outside the core.
type Notifier interface {
	Notify(ctx context.Context, params NotificationParams)
}

// EventBroadcaster pushes queue events to connected display boards.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
