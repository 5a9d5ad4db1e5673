package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
)

// TicketType classifies a ticket for queue ordering and numbering.
type TicketType string

const (
	TypeNormal   TicketType = "normal"
	TypePriority TicketType = "priority"
)

// Prefix returns the single-letter prefix used in ticket numbers.
func (t TicketType) Prefix() string {
	if t == TypePriority {
		return "P"
	}
	return "N"
}

// Valid reports whether the type is one of the known values.
func (t TicketType) Valid() bool {
	return t == TypeNormal || t == TypePriority
}

// TicketStatus represents the possible states of a ticket.
type TicketStatus string

const (
	StatusWaiting   TicketStatus = "waiting"
	StatusCalled    TicketStatus = "called"
	StatusInService TicketStatus = "in_service"
	StatusCompleted TicketStatus = "completed"
	StatusCancelled TicketStatus = "cancelled"
)

// Terminal reports whether no further transition is possible from s.
func (s TicketStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Ticket is the core domain entity: one customer's numbered place in a
// service queue, carrying its full attendance lifecycle.
//
// Number is unique only together with IssueDate; "N001" repeats every day.
type Ticket struct {
	ID         int64
	Number     string
	Sequence   int
	Type       TicketType
	IssueDate  time.Time // date only, midnight in the operating timezone
	Status     TicketStatus
	CategoryID int64

	AssignedStaffID *uuid.UUID
	CounterNumber   *int
	ContactInfo     *string

	IssuedAt         time.Time
	CalledAt         *time.Time
	ServiceStartedAt *time.Time
	ServiceEndedAt   *time.Time

	WaitMinutes    *int
	ServiceMinutes *int

	Notes *string
}

// FormatNumber renders a ticket number from its type prefix and sequence,
// zero-padded to three digits (N007, P012).
func FormatNumber(t TicketType, seq int) string {
	return fmt.Sprintf("%s%03d", t.Prefix(), seq)
}

// NewTicket builds a waiting ticket for the given scope. The sequence is
// allocated by the store; callers pass the value it granted.
func NewTicket(categoryID int64, t TicketType, seq int, issueDate, issuedAt time.Time, contact *string) (*Ticket, error) {
	if !t.Valid() {
		return nil, apperrors.ErrInvalidTicketType
	}
	if seq < 1 {
		return nil, apperrors.ErrInvalidSequence
	}
	return &Ticket{
		Number:      FormatNumber(t, seq),
		Sequence:    seq,
		Type:        t,
		IssueDate:   issueDate,
		Status:      StatusWaiting,
		CategoryID:  categoryID,
		ContactInfo: contact,
		IssuedAt:    issuedAt,
	}, nil
}

// Call marks the ticket as being called to a counter. Valid only from waiting.
func (t *Ticket) Call(counterNumber int, now time.Time) error {
	if t.Status != StatusWaiting {
		return transitionError(t, "call")
	}
	t.Status = StatusCalled
	t.CalledAt = &now
	t.CounterNumber = &counterNumber
	return nil
}

// StartService begins attendance. Valid from waiting (direct start, skipping
// the call announcement) or called. CalledAt is stamped on the direct-start
// path so the lifecycle timestamps stay monotonic.
func (t *Ticket) StartService(staffID uuid.UUID, counterNumber *int, now time.Time) error {
	if t.Status != StatusWaiting && t.Status != StatusCalled {
		return transitionError(t, "start_service")
	}
	t.Status = StatusInService
	t.AssignedStaffID = &staffID
	if counterNumber != nil {
		t.CounterNumber = counterNumber
	}
	if t.CalledAt == nil {
		t.CalledAt = &now
	}
	t.ServiceStartedAt = &now
	wait := wholeMinutes(t.IssuedAt, now)
	t.WaitMinutes = &wait
	return nil
}

// Complete finishes attendance. Valid only from in_service.
func (t *Ticket) Complete(notes *string, now time.Time) error {
	if t.Status != StatusInService {
		return transitionError(t, "complete")
	}
	t.Status = StatusCompleted
	t.ServiceEndedAt = &now
	if t.ServiceStartedAt != nil {
		dur := wholeMinutes(*t.ServiceStartedAt, now)
		t.ServiceMinutes = &dur
	}
	if notes != nil {
		t.Notes = notes
	}
	return nil
}

// Cancel voids the ticket. Valid from any non-terminal state; a completed
// ticket cannot be undone. The reason is appended to the notes with a fixed
// marker so audit queries can find cancellations without losing what the
// attendant already wrote.
func (t *Ticket) Cancel(reason string, staffID *uuid.UUID) error {
	if t.Status.Terminal() {
		return transitionError(t, "cancel")
	}
	t.Status = StatusCancelled
	note := cancelMarker + reason
	if t.Notes != nil && *t.Notes != "" {
		note = *t.Notes + "\n" + note
	}
	t.Notes = &note
	if staffID != nil {
		t.AssignedStaffID = staffID
	}
	return nil
}

const cancelMarker = "Cancelled: "

func transitionError(t *Ticket, action string) error {
	return fmt.Errorf("ticket %s is %s, cannot %s: %w", t.Number, t.Status, action, apperrors.ErrInvalidTransition)
}

// wholeMinutes returns the elapsed whole minutes between two instants,
// flooring partial minutes. Negative spans clamp to zero.
func wholeMinutes(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
