package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
)

func ticketAt(id int64, typ domain.TicketType, issuedAt time.Time) *domain.Ticket {
	return &domain.Ticket{
		ID:       id,
		Type:     typ,
		Status:   domain.StatusWaiting,
		IssuedAt: issuedAt,
	}
}

func TestSortQueue(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	t.Run("priority before normal regardless of arrival", func(t *testing.T) {
		queue := []*domain.Ticket{
			ticketAt(1, domain.TypeNormal, base),
			ticketAt(2, domain.TypeNormal, base.Add(1*time.Minute)),
			ticketAt(3, domain.TypePriority, base.Add(30*time.Minute)),
		}

		domain.SortQueue(queue)

		// The late priority ticket overtakes every earlier normal one.
		assert.Equal(t, int64(3), queue[0].ID)
		assert.Equal(t, int64(1), queue[1].ID)
		assert.Equal(t, int64(2), queue[2].ID)
	})

	t.Run("fifo within each band", func(t *testing.T) {
		queue := []*domain.Ticket{
			ticketAt(4, domain.TypePriority, base.Add(10*time.Minute)),
			ticketAt(1, domain.TypeNormal, base.Add(5*time.Minute)),
			ticketAt(3, domain.TypePriority, base.Add(2*time.Minute)),
			ticketAt(2, domain.TypeNormal, base),
		}

		domain.SortQueue(queue)

		got := make([]int64, 0, len(queue))
		for _, tk := range queue {
			got = append(got, tk.ID)
		}
		assert.Equal(t, []int64{3, 4, 2, 1}, got)
	})
}

func TestPositionOf(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	queue := []*domain.Ticket{
		ticketAt(10, domain.TypePriority, base),
		ticketAt(11, domain.TypeNormal, base),
		ticketAt(12, domain.TypeNormal, base.Add(time.Minute)),
	}

	assert.Equal(t, 1, domain.PositionOf(queue, 10))
	assert.Equal(t, 3, domain.PositionOf(queue, 12))
	assert.Equal(t, 0, domain.PositionOf(queue, 99))
	assert.Equal(t, 0, domain.PositionOf(nil, 10))
}
