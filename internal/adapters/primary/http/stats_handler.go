package http

import (
	"net/http"
	"time"

	"github.com/lorrc/queue-desk-backend/internal/adapters/primary/validation"
	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// StatsHandler serves daily aggregate statistics for the staff dashboard.
type StatsHandler struct {
	statsService ports.StatsService
	clock        domain.Clock
	location     *time.Location
	errorHandler *ErrorHandler
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(
	statsService ports.StatsService,
	clock domain.Clock,
	location *time.Location,
	errorHandler *ErrorHandler,
) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		clock:        clock,
		location:     location,
		errorHandler: errorHandler,
	}
}

// DailyStatsDTO defines the JSON response for daily statistics.
type DailyStatsDTO struct {
	Date        string `json:"date"`
	TotalIssued int    `json:"totalIssued"`
	Waiting     int    `json:"waiting"`
	Called      int    `json:"called"`
	InService   int    `json:"inService"`
	Completed   int    `json:"completed"`
	Cancelled   int    `json:"cancelled"`
}

// HandleDailyStats handles GET /stats/daily. An optional date query
// parameter (YYYY-MM-DD, operating timezone) selects a past day; the
// default is today.
func (h *StatsHandler) HandleDailyStats(w http.ResponseWriter, r *http.Request) {
	date, err := validation.ParseDateQueryParam(r, "date", h.location, h.clock.Today())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	stats, err := h.statsService.DailyStats(r.Context(), date)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, DailyStatsDTO{
		Date:        stats.Date.Format(time.DateOnly),
		TotalIssued: stats.TotalIssued,
		Waiting:     stats.Waiting,
		Called:      stats.Called,
		InService:   stats.InService,
		Completed:   stats.Completed,
		Cancelled:   stats.Cancelled,
	})
}
