package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// StaffRepository is the secondary adapter for staff accounts.
type StaffRepository struct {
	pool *pgxpool.Pool
}

var _ ports.StaffRepository = (*StaffRepository)(nil)

// NewStaffRepository creates a new staff repository.
func NewStaffRepository(pool *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

// Create persists a new staff account.
func (r *StaffRepository) Create(ctx context.Context, staff *domain.Staff) (*domain.Staff, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff (id, full_name, email, password_hash, counter_number, role, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		staff.ID, staff.FullName, staff.Email, staff.PasswordHash,
		staff.CounterNumber, string(staff.Role), staff.Active, staff.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return staff, nil
}

// GetByID retrieves a staff member by ID.
func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

// GetByEmail retrieves a staff member by email.
func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	return r.getBy(ctx, `WHERE email = $1`, email)
}

func (r *StaffRepository) getBy(ctx context.Context, where string, arg interface{}) (*domain.Staff, error) {
	staff := &domain.Staff{}
	var role string
	err := r.pool.QueryRow(ctx, `
		SELECT id, full_name, email, password_hash, counter_number, role, active, created_at
		FROM staff `+where,
		arg,
	).Scan(&staff.ID, &staff.FullName, &staff.Email, &staff.PasswordHash,
		&staff.CounterNumber, &role, &staff.Active, &staff.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStaffNotFound
		}
		return nil, err
	}
	staff.Role = domain.StaffRole(role)
	return staff, nil
}
