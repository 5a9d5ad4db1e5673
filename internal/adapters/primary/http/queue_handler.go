package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/lorrc/queue-desk-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/queue-desk-backend/internal/adapters/primary/validation"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// QueueHandler exposes a category's waiting queue: display boards read it,
// counter staff pull from it.
type QueueHandler struct {
	queueService ports.QueueService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(
	queueService ports.QueueService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *QueueHandler {
	return &QueueHandler{
		queueService: queueService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "queue"),
	}
}

// RegisterPublicRoutes mounts the read-only queue views under
// /categories/{categoryID}/queue.
func (h *QueueHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.HandleListQueue)
	r.Get("/next", h.HandlePeekNext)
	r.Get("/stats", h.HandleQueueStats)
}

// RegisterStaffRoutes mounts the call-next endpoint. The router puts it
// behind JWT authentication.
func (h *QueueHandler) RegisterStaffRoutes(r chi.Router) {
	r.Post("/call", h.HandleCallNext)
}

// CallNextRequest defines the expected JSON body for calling the next ticket
type CallNextRequest struct {
	CounterNumber int `json:"counterNumber"`
}

// Validate validates the call next request
func (r *CallNextRequest) Validate() error {
	v := validation.NewValidator()

	v.Min("counterNumber", r.CounterNumber, 1)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// NextTicketResponse is the JSON response for peek and call-next. An empty
// queue is a normal outcome, not an error: Ticket is null and Empty is true.
type NextTicketResponse struct {
	Ticket *TicketDTO `json:"ticket"`
	Empty  bool       `json:"empty"`
}

// HandleListQueue handles GET /categories/{categoryID}/queue
func (h *QueueHandler) HandleListQueue(w http.ResponseWriter, r *http.Request) {
	categoryID, err := h.parseCategoryID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	tickets, err := h.queueService.Queue(r.Context(), categoryID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toTicketDTOs(tickets))
}

// HandlePeekNext handles GET /categories/{categoryID}/queue/next
func (h *QueueHandler) HandlePeekNext(w http.ResponseWriter, r *http.Request) {
	categoryID, err := h.parseCategoryID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.queueService.PeekNext(r.Context(), categoryID)
	if errors.Is(err, apperrors.ErrQueueEmpty) {
		WriteJSON(w, http.StatusOK, NextTicketResponse{Empty: true})
		return
	}
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	dto := toTicketDTO(ticket)
	WriteJSON(w, http.StatusOK, NextTicketResponse{Ticket: &dto})
}

// HandleCallNext handles POST /categories/{categoryID}/queue/call
func (h *QueueHandler) HandleCallNext(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.GetStaffClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return
	}

	categoryID, err := h.parseCategoryID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CallNextRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.queueService.CallNext(r.Context(), categoryID, req.CounterNumber)
	if errors.Is(err, apperrors.ErrQueueEmpty) {
		WriteJSON(w, http.StatusOK, NextTicketResponse{Empty: true})
		return
	}
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket called",
		"ticket_id", ticket.ID,
		"number", ticket.Number,
		"category_id", categoryID,
		"counter", req.CounterNumber,
		"staff_id", claims.StaffID,
	)

	dto := toTicketDTO(ticket)
	WriteJSON(w, http.StatusOK, NextTicketResponse{Ticket: &dto})
}

// HandleQueueStats handles GET /categories/{categoryID}/queue/stats
func (h *QueueHandler) HandleQueueStats(w http.ResponseWriter, r *http.Request) {
	categoryID, err := h.parseCategoryID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	stats, err := h.queueService.QueueStats(r.Context(), categoryID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

func (h *QueueHandler) parseCategoryID(r *http.Request) (int64, error) {
	return validation.ParseInt64Param(chi.URLParam(r, "categoryID"), "category ID")
}
