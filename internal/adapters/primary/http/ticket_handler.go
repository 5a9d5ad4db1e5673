package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/lorrc/queue-desk-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/queue-desk-backend/internal/adapters/primary/validation"
	"github.com/lorrc/queue-desk-backend/internal/auth"
	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

const maxContactInfoLength = 64

// TicketHandler handles HTTP requests for tickets
type TicketHandler struct {
	ticketService ports.TicketService
	queueService  ports.QueueService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	ticketService ports.TicketService,
	queueService ports.QueueService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		queueService:  queueService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "ticket"),
	}
}

// RegisterPublicRoutes sets up the endpoints kiosks and customers use.
func (h *TicketHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/", h.HandleIssueTicket)
	r.Get("/number/{number}", h.HandleGetTicketByNumber)
	r.Get("/{ticketID}", h.HandleGetTicket)
	r.Get("/{ticketID}/position", h.HandleGetPosition)
}

// RegisterStaffRoutes sets up the attendance lifecycle endpoints.
// The router mounts these behind JWT authentication.
func (h *TicketHandler) RegisterStaffRoutes(r chi.Router) {
	r.Post("/{ticketID}/start", h.HandleStartService)
	r.Post("/{ticketID}/complete", h.HandleCompleteTicket)
	r.Post("/{ticketID}/cancel", h.HandleCancelTicket)
	r.Get("/{ticketID}/activity", h.HandleTicketActivity)
}

// --- Request/Response DTOs ---

// IssueTicketRequest defines the expected JSON body for issuing a ticket
type IssueTicketRequest struct {
	CategoryID  int64   `json:"categoryId"`
	Type        string  `json:"type"`
	ContactInfo *string `json:"contactInfo"`
}

// Validate validates the issue ticket request
func (r *IssueTicketRequest) Validate() error {
	v := validation.NewValidator()

	v.Custom("categoryId", r.CategoryID > 0, "Must be a valid category ID")

	v.Required("type", r.Type).
		OneOf("type", r.Type, []string{string(domain.TypeNormal), string(domain.TypePriority)})

	if r.ContactInfo != nil {
		v.MaxLength("contactInfo", *r.ContactInfo, maxContactInfoLength)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// StartServiceRequest defines the expected JSON body for starting attendance
type StartServiceRequest struct {
	CounterNumber *int `json:"counterNumber"`
}

// Validate validates the start service request
func (r *StartServiceRequest) Validate() error {
	v := validation.NewValidator()

	if r.CounterNumber != nil {
		v.Min("counterNumber", *r.CounterNumber, 1)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// CompleteTicketRequest defines the expected JSON body for completing attendance
type CompleteTicketRequest struct {
	Notes *string `json:"notes"`
}

// CancelTicketRequest defines the expected JSON body for cancelling a ticket
type CancelTicketRequest struct {
	Reason string `json:"reason"`
}

// Validate validates the cancel ticket request
func (r *CancelTicketRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("reason", r.Reason).
		MaxLength("reason", r.Reason, 500)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// TicketDTO defines the JSON response for tickets.
type TicketDTO struct {
	ID               int64   `json:"id"`
	Number           string  `json:"number"`
	Type             string  `json:"type"`
	Status           string  `json:"status"`
	CategoryID       int64   `json:"categoryId"`
	IssueDate        string  `json:"issueDate"`
	CounterNumber    *int    `json:"counterNumber"`
	IssuedAt         string  `json:"issuedAt"`
	CalledAt         *string `json:"calledAt"`
	ServiceStartedAt *string `json:"serviceStartedAt"`
	ServiceEndedAt   *string `json:"serviceEndedAt"`
	WaitMinutes      *int    `json:"waitMinutes"`
	ServiceMinutes   *int    `json:"serviceMinutes"`
	Notes            *string `json:"notes"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	value := t.Format(time.RFC3339)
	return &value
}

func toTicketDTO(ticket *domain.Ticket) TicketDTO {
	return TicketDTO{
		ID:               ticket.ID,
		Number:           ticket.Number,
		Type:             string(ticket.Type),
		Status:           string(ticket.Status),
		CategoryID:       ticket.CategoryID,
		IssueDate:        ticket.IssueDate.Format(time.DateOnly),
		CounterNumber:    ticket.CounterNumber,
		IssuedAt:         ticket.IssuedAt.Format(time.RFC3339),
		CalledAt:         formatTimePtr(ticket.CalledAt),
		ServiceStartedAt: formatTimePtr(ticket.ServiceStartedAt),
		ServiceEndedAt:   formatTimePtr(ticket.ServiceEndedAt),
		WaitMinutes:      ticket.WaitMinutes,
		ServiceMinutes:   ticket.ServiceMinutes,
		Notes:            ticket.Notes,
	}
}

func toTicketDTOs(tickets []*domain.Ticket) []TicketDTO {
	response := make([]TicketDTO, 0, len(tickets))
	for _, ticket := range tickets {
		response = append(response, toTicketDTO(ticket))
	}
	return response
}

// --- Handlers ---

// HandleIssueTicket handles POST /tickets. This is the one unauthenticated
// write endpoint: walk-in customers pull a number from a kiosk.
func (h *TicketHandler) HandleIssueTicket(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[IssueTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.IssueTicketParams{
		CategoryID:  req.CategoryID,
		Type:        domain.TicketType(req.Type),
		ContactInfo: req.ContactInfo,
	}

	ticket, err := h.ticketService.IssueTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket issued",
		"ticket_id", ticket.ID,
		"number", ticket.Number,
		"category_id", ticket.CategoryID,
	)

	WriteCreated(w, toTicketDTO(ticket))
}

// HandleGetTicket handles GET /tickets/{ticketID}
func (h *TicketHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.ticketService.GetTicket(r.Context(), ticketID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleGetTicketByNumber handles GET /tickets/number/{number}. Display
// numbers repeat daily, so this only resolves against today's tickets.
func (h *TicketHandler) HandleGetTicketByNumber(w http.ResponseWriter, r *http.Request) {
	number := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "number")))
	if number == "" {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(nil, "Invalid ticket number"))
		return
	}

	ticket, err := h.ticketService.GetTicketByNumber(r.Context(), number)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// PositionResponse is the JSON response for a ticket's queue position.
type PositionResponse struct {
	TicketID int64 `json:"ticketId"`
	Position int   `json:"position"`
}

// HandleGetPosition handles GET /tickets/{ticketID}/position
func (h *TicketHandler) HandleGetPosition(w http.ResponseWriter, r *http.Request) {
	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	position, err := h.queueService.PositionOf(r.Context(), ticketID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, PositionResponse{
		TicketID: ticketID,
		Position: position,
	})
}

// HandleStartService handles POST /tickets/{ticketID}/start
func (h *TicketHandler) HandleStartService(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[StartServiceRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.StartServiceParams{
		TicketID:      ticketID,
		StaffID:       claims.StaffID,
		CounterNumber: req.CounterNumber,
	}

	ticket, err := h.ticketService.StartService(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("service started",
		"ticket_id", ticketID,
		"number", ticket.Number,
		"staff_id", claims.StaffID,
	)

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleCompleteTicket handles POST /tickets/{ticketID}/complete
func (h *TicketHandler) HandleCompleteTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CompleteTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CompleteTicketParams{
		TicketID: ticketID,
		StaffID:  claims.StaffID,
		Notes:    req.Notes,
	}

	ticket, err := h.ticketService.CompleteTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("service completed",
		"ticket_id", ticketID,
		"number", ticket.Number,
		"staff_id", claims.StaffID,
	)

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleCancelTicket handles POST /tickets/{ticketID}/cancel
func (h *TicketHandler) HandleCancelTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CancelTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	staffID := claims.StaffID
	params := ports.CancelTicketParams{
		TicketID: ticketID,
		Reason:   req.Reason,
		StaffID:  &staffID,
	}

	ticket, err := h.ticketService.CancelTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket cancelled",
		"ticket_id", ticketID,
		"number", ticket.Number,
		"staff_id", claims.StaffID,
	)

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// ActivityDTO defines the JSON response for one audit trail entry.
type ActivityDTO struct {
	ID          int64   `json:"id"`
	TicketID    int64   `json:"ticketId"`
	StaffID     *string `json:"staffId"`
	Action      string  `json:"action"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"createdAt"`
}

// HandleTicketActivity handles GET /tickets/{ticketID}/activity
func (h *TicketHandler) HandleTicketActivity(w http.ResponseWriter, r *http.Request) {
	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	entries, err := h.ticketService.TicketActivity(r.Context(), ticketID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]ActivityDTO, 0, len(entries))
	for _, entry := range entries {
		var staffID *string
		if entry.StaffID != nil {
			value := entry.StaffID.String()
			staffID = &value
		}
		response = append(response, ActivityDTO{
			ID:          entry.ID,
			TicketID:    entry.TicketID,
			StaffID:     staffID,
			Action:      string(entry.Action),
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
		})
	}

	WriteList(w, response)
}

// --- Helper methods ---

// getClaims extracts and validates staff claims from the request context
func (h *TicketHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetStaffClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}

// parseTicketID extracts and validates the ticket ID from the URL
func (h *TicketHandler) parseTicketID(r *http.Request) (int64, error) {
	return validation.ParseInt64Param(chi.URLParam(r, "ticketID"), "ticket ID")
}
