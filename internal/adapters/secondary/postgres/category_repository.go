package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// CategoryRepository is the secondary adapter for service categories.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// GetByID retrieves a single category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceCategory, error) {
	cat := &domain.ServiceCategory{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, avg_service_minutes, display_order, active
		FROM service_categories
		WHERE id = $1`,
		id,
	).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.AvgServiceMinutes, &cat.DisplayOrder, &cat.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}
	return cat, nil
}

// ListActive returns the active categories in display order.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]*domain.ServiceCategory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, avg_service_minutes, display_order, active
		FROM service_categories
		WHERE active
		ORDER BY display_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.ServiceCategory, 0)
	for rows.Next() {
		cat := &domain.ServiceCategory{}
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.AvgServiceMinutes, &cat.DisplayOrder, &cat.Active); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}
