package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
)

var (
	testDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
)

func newWaitingTicket(t *testing.T, typ domain.TicketType, seq int) *domain.Ticket {
	t.Helper()
	ticket, err := domain.NewTicket(1, typ, seq, testDay, testNow, nil)
	require.NoError(t, err)
	return ticket
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "N001", domain.FormatNumber(domain.TypeNormal, 1))
	assert.Equal(t, "N042", domain.FormatNumber(domain.TypeNormal, 42))
	assert.Equal(t, "P007", domain.FormatNumber(domain.TypePriority, 7))
	// Padding widens past three digits rather than truncating.
	assert.Equal(t, "N1000", domain.FormatNumber(domain.TypeNormal, 1000))
}

func TestNewTicket(t *testing.T) {
	t.Run("valid ticket starts waiting", func(t *testing.T) {
		ticket, err := domain.NewTicket(3, domain.TypePriority, 12, testDay, testNow, nil)
		require.NoError(t, err)
		assert.Equal(t, "P012", ticket.Number)
		assert.Equal(t, domain.StatusWaiting, ticket.Status)
		assert.Equal(t, int64(3), ticket.CategoryID)
		assert.Equal(t, testDay, ticket.IssueDate)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := domain.NewTicket(3, domain.TicketType("vip"), 1, testDay, testNow, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTicketType)
	})

	t.Run("rejects non-positive sequence", func(t *testing.T) {
		_, err := domain.NewTicket(3, domain.TypeNormal, 0, testDay, testNow, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidSequence)
	})
}

// TestTransitionTable enumerates every (state, action) pair and checks the
// outcome against the lifecycle rules: anything not explicitly permitted is
// rejected, including repeating an action the ticket already went through.
func TestTransitionTable(t *testing.T) {
	staffID := uuid.New()
	counter := 2

	type action struct {
		name  string
		apply func(*domain.Ticket) error
	}
	actions := []action{
		{"call", func(tk *domain.Ticket) error { return tk.Call(counter, testNow) }},
		{"start", func(tk *domain.Ticket) error { return tk.StartService(staffID, &counter, testNow) }},
		{"complete", func(tk *domain.Ticket) error { return tk.Complete(nil, testNow) }},
		{"cancel", func(tk *domain.Ticket) error { return tk.Cancel("no-show", nil) }},
	}

	allowed := map[domain.TicketStatus]map[string]bool{
		domain.StatusWaiting:   {"call": true, "start": true, "cancel": true},
		domain.StatusCalled:    {"start": true, "cancel": true},
		domain.StatusInService: {"complete": true, "cancel": true},
		domain.StatusCompleted: {},
		domain.StatusCancelled: {},
	}

	// inState drives a fresh ticket into the requested state through valid
	// transitions only.
	inState := func(t *testing.T, status domain.TicketStatus) *domain.Ticket {
		t.Helper()
		tk := newWaitingTicket(t, domain.TypeNormal, 1)
		switch status {
		case domain.StatusWaiting:
		case domain.StatusCalled:
			require.NoError(t, tk.Call(counter, testNow))
		case domain.StatusInService:
			require.NoError(t, tk.Call(counter, testNow))
			require.NoError(t, tk.StartService(staffID, &counter, testNow))
		case domain.StatusCompleted:
			require.NoError(t, tk.Call(counter, testNow))
			require.NoError(t, tk.StartService(staffID, &counter, testNow))
			require.NoError(t, tk.Complete(nil, testNow))
		case domain.StatusCancelled:
			require.NoError(t, tk.Cancel("closing", nil))
		}
		require.Equal(t, status, tk.Status)
		return tk
	}

	for status, legal := range allowed {
		for _, act := range actions {
			name := string(status) + "/" + act.name
			t.Run(name, func(t *testing.T) {
				tk := inState(t, status)
				err := act.apply(tk)
				if legal[act.name] {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
					// A rejected action must not mutate the ticket.
					assert.Equal(t, status, tk.Status)
				}
			})
		}
	}
}

func TestStartService(t *testing.T) {
	staffID := uuid.New()
	counter := 4

	t.Run("direct start from waiting backfills CalledAt", func(t *testing.T) {
		tk := newWaitingTicket(t, domain.TypeNormal, 1)
		start := testNow.Add(12*time.Minute + 40*time.Second)

		require.NoError(t, tk.StartService(staffID, &counter, start))

		assert.Equal(t, domain.StatusInService, tk.Status)
		require.NotNil(t, tk.CalledAt)
		assert.Equal(t, start, *tk.CalledAt)
		require.NotNil(t, tk.WaitMinutes)
		assert.Equal(t, 12, *tk.WaitMinutes) // partial minute floors
	})

	t.Run("start after call keeps original CalledAt", func(t *testing.T) {
		tk := newWaitingTicket(t, domain.TypeNormal, 1)
		called := testNow.Add(5 * time.Minute)
		require.NoError(t, tk.Call(counter, called))

		require.NoError(t, tk.StartService(staffID, nil, called.Add(time.Minute)))

		require.NotNil(t, tk.CalledAt)
		assert.Equal(t, called, *tk.CalledAt)
		assert.Equal(t, &counter, tk.CounterNumber)
	})
}

func TestComplete(t *testing.T) {
	staffID := uuid.New()
	counter := 1

	tk := newWaitingTicket(t, domain.TypePriority, 2)
	require.NoError(t, tk.StartService(staffID, &counter, testNow))

	notes := "renewed documents"
	end := testNow.Add(7*time.Minute + 59*time.Second)
	require.NoError(t, tk.Complete(&notes, end))

	assert.Equal(t, domain.StatusCompleted, tk.Status)
	require.NotNil(t, tk.ServiceMinutes)
	assert.Equal(t, 7, *tk.ServiceMinutes)
	require.NotNil(t, tk.Notes)
	assert.Equal(t, notes, *tk.Notes)
}

func TestCancel(t *testing.T) {
	t.Run("reason is recorded with marker", func(t *testing.T) {
		tk := newWaitingTicket(t, domain.TypeNormal, 5)
		staffID := uuid.New()

		require.NoError(t, tk.Cancel("customer left", &staffID))

		assert.Equal(t, domain.StatusCancelled, tk.Status)
		require.NotNil(t, tk.Notes)
		assert.Equal(t, "Cancelled: customer left", *tk.Notes)
		assert.Equal(t, &staffID, tk.AssignedStaffID)
	})

	t.Run("existing notes are preserved", func(t *testing.T) {
		tk := newWaitingTicket(t, domain.TypeNormal, 5)
		existing := "customer asked about document renewal"
		tk.Notes = &existing

		require.NoError(t, tk.Cancel("customer left", nil))

		require.NotNil(t, tk.Notes)
		assert.Equal(t, "customer asked about document renewal\nCancelled: customer left", *tk.Notes)
	})

	t.Run("completed ticket cannot be cancelled", func(t *testing.T) {
		tk := newWaitingTicket(t, domain.TypeNormal, 5)
		require.NoError(t, tk.StartService(uuid.New(), nil, testNow))
		require.NoError(t, tk.Complete(nil, testNow))

		err := tk.Cancel("too late", nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})
}
