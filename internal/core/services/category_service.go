package services

import (
	"context"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// CategoryService lists the service categories offered at the counter hall.
type CategoryService struct {
	categoryRepo ports.CategoryRepository
}

var _ ports.CategoryService = (*CategoryService)(nil)

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo ports.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// ListCategories returns the active categories in display order.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.ServiceCategory, error) {
	return s.categoryRepo.ListActive(ctx)
}

// GetCategory returns a single category by ID.
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*domain.ServiceCategory, error) {
	return s.categoryRepo.GetByID(ctx, id)
}
