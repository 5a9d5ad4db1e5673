package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/queue-desk-backend/internal/adapters/primary/validation"
	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// CategoryHandler serves the list of service categories kiosks issue for.
type CategoryHandler struct {
	categoryService ports.CategoryService
	errorHandler    *ErrorHandler
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService ports.CategoryService, errorHandler *ErrorHandler) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		errorHandler:    errorHandler,
	}
}

// RegisterRoutes sets up the category endpoints.
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListCategories)
	r.Get("/{categoryID}", h.HandleGetCategory)
}

// CategoryDTO defines the JSON response for service categories.
type CategoryDTO struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	AvgServiceMinutes int    `json:"avgServiceMinutes"`
	DisplayOrder      int    `json:"displayOrder"`
	Active            bool   `json:"active"`
}

func toCategoryDTO(category *domain.ServiceCategory) CategoryDTO {
	return CategoryDTO{
		ID:                category.ID,
		Name:              category.Name,
		Description:       category.Description,
		AvgServiceMinutes: category.AvgServiceMinutes,
		DisplayOrder:      category.DisplayOrder,
		Active:            category.Active,
	}
}

// HandleListCategories handles GET /categories
func (h *CategoryHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		response = append(response, toCategoryDTO(category))
	}

	WriteList(w, response)
}

// HandleGetCategory handles GET /categories/{categoryID}
func (h *CategoryHandler) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := validation.ParseInt64Param(chi.URLParam(r, "categoryID"), "category ID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	category, err := h.categoryService.GetCategory(r.Context(), categoryID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toCategoryDTO(category))
}
