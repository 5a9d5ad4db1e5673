package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/queue-desk-backend/internal/adapters/primary/validation"
	"github.com/lorrc/queue-desk-backend/internal/auth"
	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// AuthHandler handles staff authentication requests
type AuthHandler struct {
	authService  ports.AuthService
	tokenManager *auth.TokenManager
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService ports.AuthService,
	tokenManager *auth.TokenManager,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenManager: tokenManager,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// RegisterPublicRoutes sets up the login endpoint.
func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
}

// RegisterAdminRoutes sets up account management endpoints. The router
// mounts these behind JWT authentication plus an admin role check.
func (h *AuthHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/register", h.HandleRegister)
}

// --- Request/Response DTOs ---

// LoginRequest defines the expected JSON body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login request
func (r *LoginRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("email", r.Email).
		Email("email", r.Email)

	v.Required("password", r.Password)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// RegisterRequest defines the expected JSON body for staff registration
type RegisterRequest struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	CounterNumber int    `json:"counterNumber"`
	Role          string `json:"role"`
}

// StaffDTO defines the JSON response for staff accounts.
type StaffDTO struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	CounterNumber int    `json:"counterNumber"`
	Role          string `json:"role"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"createdAt"`
}

// LoginResponse is the JSON response for a successful login.
type LoginResponse struct {
	Token string   `json:"token"`
	Staff StaffDTO `json:"staff"`
}

func toStaffDTO(staff *domain.Staff) StaffDTO {
	return StaffDTO{
		ID:            staff.ID.String(),
		FullName:      staff.FullName,
		Email:         staff.Email,
		CounterNumber: staff.CounterNumber,
		Role:          string(staff.Role),
		Active:        staff.Active,
		CreatedAt:     staff.CreatedAt.Format(time.RFC3339),
	}
}

// --- Handlers ---

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[LoginRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	staff, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	token, err := h.tokenManager.GenerateToken(staff.ID, staff.Role)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("staff logged in", "staff_id", staff.ID)

	WriteJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		Staff: toStaffDTO(staff),
	})
}

// HandleRegister handles POST /auth/register. Field validation beyond
// decoding lives in the domain registration params.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[RegisterRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	staff, err := h.authService.Register(
		r.Context(),
		req.FullName,
		req.Email,
		req.Password,
		req.CounterNumber,
		domain.StaffRole(req.Role),
	)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("staff registered",
		"staff_id", staff.ID,
		"role", staff.Role,
	)

	WriteCreated(w, toStaffDTO(staff))
}
