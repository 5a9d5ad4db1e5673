package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// ticketColumns is the canonical column list shared by every ticket query so
// scanTicket stays in sync.
const ticketColumns = `id, number, sequence, ticket_type, issue_date, status, category_id,
	assigned_staff_id, counter_number, contact_info, issued_at, called_at,
	service_started_at, service_ended_at, wait_minutes, service_minutes, notes`

// queueOrder ranks priority tickets ahead of normal ones, oldest first within
// each band. The id tiebreaker keeps the order total when two tickets share
// an issued_at timestamp.
const queueOrder = `ORDER BY CASE WHEN ticket_type = 'priority' THEN 0 ELSE 1 END, issued_at ASC, id ASC`

// TicketRepository is the secondary adapter for ticket persistence.
type TicketRepository struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a new ticket repository. lockTimeout bounds how
// long an issuance transaction waits on a competitor's row lock before the
// attempt is reported as transient.
func NewTicketRepository(pool *pgxpool.Pool, lockTimeout time.Duration) *TicketRepository {
	return &TicketRepository{pool: pool, lockTimeout: lockTimeout}
}

// Issue allocates the next sequence number for the (type, issue date) scope
// and inserts the ticket, all in one transaction. The current maximum is read
// under FOR UPDATE so concurrent issuers of the same scope serialize; the
// UNIQUE (number, issue_date) constraint backstops anything that slips
// through. Both failure modes come back as ErrTransientConflict.
func (r *TicketRepository) Issue(ctx context.Context, params ports.IssueTicketRepoParams) (*domain.Ticket, error) {
	var ticket *domain.Ticket

	err := withTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		// lock_timeout only accepts a literal, not a bind parameter.
		setTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, setTimeout); err != nil {
			return err
		}

		var last int
		err := tx.QueryRow(ctx, `
			SELECT sequence FROM tickets
			WHERE ticket_type = $1 AND issue_date = $2
			ORDER BY sequence DESC
			LIMIT 1
			FOR UPDATE`,
			string(params.Type), params.IssueDate,
		).Scan(&last)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			last = 0 // first ticket of the scope today
		}

		created, err := domain.NewTicket(params.CategoryID, params.Type, last+1, params.IssueDate, params.IssuedAt, params.ContactInfo)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO tickets (number, sequence, ticket_type, issue_date, status, category_id, contact_info, issued_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			created.Number, created.Sequence, string(created.Type), created.IssueDate,
			string(created.Status), created.CategoryID, created.ContactInfo, created.IssuedAt,
		).Scan(&created.ID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO activity_logs (ticket_id, action, description)
			VALUES ($1, $2, $3)`,
			created.ID, string(domain.ActionIssued), fmt.Sprintf("Ticket %s issued", created.Number),
		)
		if err != nil {
			return err
		}

		ticket = created
		return nil
	})
	if err != nil {
		return nil, classifyConflict(err)
	}
	return ticket, nil
}

// GetByID retrieves a single ticket by its ID.
func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

// GetByNumber retrieves a ticket by its display number on a given day.
func (r *TicketRepository) GetByNumber(ctx context.Context, number string, issueDate time.Time) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE number = $1 AND issue_date = $2`,
		number, issueDate,
	)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

// ListWaiting returns a category's waiting tickets in call order.
func (r *TicketRepository) ListWaiting(ctx context.Context, categoryID int64, issueDate time.Time) ([]*domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ticketColumns+` FROM tickets
		WHERE category_id = $1 AND issue_date = $2 AND status = 'waiting' `+queueOrder,
		categoryID, issueDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

// CallNext claims the head of the queue and marks it called in a single
// statement. SKIP LOCKED makes concurrent counters pass over a row another
// counter is claiming instead of blocking on it and then seeing a stale
// snapshot, so each caller gets a distinct ticket and "empty" really means
// empty.
func (r *TicketRepository) CallNext(ctx context.Context, params ports.CallNextRepoParams) (*domain.Ticket, error) {
	var ticket *domain.Ticket

	err := withTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			WITH next AS (
				SELECT id FROM tickets
				WHERE category_id = $1 AND issue_date = $2 AND status = 'waiting'
				`+queueOrder+`
				LIMIT 1
				FOR UPDATE SKIP LOCKED
			)
			UPDATE tickets t
			SET status = 'called', counter_number = $3, called_at = $4
			FROM next
			WHERE t.id = next.id
			RETURNING `+prefixColumns("t.")+``,
			params.CategoryID, params.IssueDate, params.CounterNumber, params.CalledAt,
		)

		claimed, err := scanTicket(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrQueueEmpty
			}
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO activity_logs (ticket_id, action, description)
			VALUES ($1, $2, $3)`,
			claimed.ID, string(domain.ActionCalled),
			fmt.Sprintf("Ticket %s called to counter %d", claimed.Number, params.CounterNumber),
		)
		if err != nil {
			return err
		}

		ticket = claimed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// ApplyTransition persists a ticket the domain already transitioned. The
// update is guarded by the pre-transition status so a racing staff member's
// concurrent change makes this one fail instead of silently double-applying.
// The activity entry commits or rolls back with the status change.
func (r *TicketRepository) ApplyTransition(ctx context.Context, ticket *domain.Ticket, from domain.TicketStatus, entry domain.ActivityLog) error {
	return withTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE tickets
			SET status = $1, assigned_staff_id = $2, counter_number = $3, called_at = $4,
				service_started_at = $5, service_ended_at = $6, wait_minutes = $7,
				service_minutes = $8, notes = $9
			WHERE id = $10 AND status = $11`,
			string(ticket.Status), ticket.AssignedStaffID, ticket.CounterNumber, ticket.CalledAt,
			ticket.ServiceStartedAt, ticket.ServiceEndedAt, ticket.WaitMinutes,
			ticket.ServiceMinutes, ticket.Notes,
			ticket.ID, string(from),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			// Distinguish a lost race from a vanished row.
			var current string
			err := tx.QueryRow(ctx, `SELECT status FROM tickets WHERE id = $1`, ticket.ID).Scan(&current)
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrTicketNotFound
			}
			if err != nil {
				return err
			}
			return fmt.Errorf("ticket %d is %s, expected %s: %w",
				ticket.ID, current, from, apperrors.ErrInvalidTransition)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO activity_logs (ticket_id, staff_id, action, description)
			VALUES ($1, $2, $3, $4)`,
			entry.TicketID, entry.StaffID, string(entry.Action), entry.Description,
		)
		return err
	})
}

// DailyStats aggregates ticket counts by status for one issue date.
func (r *TicketRepository) DailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	stats := &domain.DailyStats{Date: date}
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'waiting'),
			COUNT(*) FILTER (WHERE status = 'called'),
			COUNT(*) FILTER (WHERE status = 'in_service'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM tickets
		WHERE issue_date = $1`,
		date,
	).Scan(&stats.TotalIssued, &stats.Waiting, &stats.Called, &stats.InService, &stats.Completed, &stats.Cancelled)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// QueueStats reports live queue depth for a category. The wait estimate is
// the service layer's job; raw counts come from here.
func (r *TicketRepository) QueueStats(ctx context.Context, categoryID int64, issueDate time.Time) (*domain.QueueStats, error) {
	stats := &domain.QueueStats{CategoryID: categoryID}
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE t.status = 'waiting'),
			COUNT(*) FILTER (WHERE t.status = 'waiting' AND t.ticket_type = 'normal'),
			COUNT(*) FILTER (WHERE t.status = 'waiting' AND t.ticket_type = 'priority'),
			COUNT(*) FILTER (WHERE t.status = 'in_service')
		FROM service_categories c
		LEFT JOIN tickets t ON t.category_id = c.id AND t.issue_date = $2
		WHERE c.id = $1
		GROUP BY c.id`,
		categoryID, issueDate,
	).Scan(&stats.WaitingTotal, &stats.WaitingNormal, &stats.WaitingPriority, &stats.InService)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}
	return stats, nil
}

// ListActivity returns a ticket's audit trail, oldest first.
func (r *TicketRepository) ListActivity(ctx context.Context, ticketID int64) ([]*domain.ActivityLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, ticket_id, staff_id, action, description, created_at
		FROM activity_logs
		WHERE ticket_id = $1
		ORDER BY created_at ASC, id ASC`,
		ticketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.ActivityLog, 0)
	for rows.Next() {
		entry := &domain.ActivityLog{}
		var action string
		if err := rows.Scan(&entry.ID, &entry.TicketID, &entry.StaffID, &action, &entry.Description, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.Action = domain.ActivityAction(action)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// scanTicket maps one ticket row to the domain model.
func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	ticket := &domain.Ticket{}
	var typ, status string
	err := row.Scan(
		&ticket.ID, &ticket.Number, &ticket.Sequence, &typ, &ticket.IssueDate, &status,
		&ticket.CategoryID, &ticket.AssignedStaffID, &ticket.CounterNumber, &ticket.ContactInfo,
		&ticket.IssuedAt, &ticket.CalledAt, &ticket.ServiceStartedAt, &ticket.ServiceEndedAt,
		&ticket.WaitMinutes, &ticket.ServiceMinutes, &ticket.Notes,
	)
	if err != nil {
		return nil, err
	}
	ticket.Type = domain.TicketType(typ)
	ticket.Status = domain.TicketStatus(status)
	return ticket, nil
}

// prefixColumns qualifies the shared column list for queries that alias the
// tickets table.
func prefixColumns(prefix string) string {
	out := ""
	for i, col := range []string{
		"id", "number", "sequence", "ticket_type", "issue_date", "status", "category_id",
		"assigned_staff_id", "counter_number", "contact_info", "issued_at", "called_at",
		"service_started_at", "service_ended_at", "wait_minutes", "service_minutes", "notes",
	} {
		if i > 0 {
			out += ", "
		}
		out += prefix + col
	}
	return out
}
