package services

import (
	"context"
	"errors"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// AuthService implements staff authentication business logic
type AuthService struct {
	staffRepo ports.StaffRepository
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service
func NewAuthService(staffRepo ports.StaffRepository) *AuthService {
	return &AuthService{staffRepo: staffRepo}
}

// Register creates a new staff account with validated credentials
func (s *AuthService) Register(ctx context.Context, fullName, email, password string, counterNumber int, role domain.StaffRole) (*domain.Staff, error) {
	params := domain.StaffRegistrationParams{
		FullName:      fullName,
		Email:         email,
		Password:      password,
		CounterNumber: counterNumber,
		Role:          role,
	}

	// Check if the email is already taken
	_, err := s.staffRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.ErrStaffExists
	}
	if !errors.Is(err, apperrors.ErrStaffNotFound) {
		return nil, err // An actual DB error occurred
	}

	staff, err := domain.NewStaff(params)
	if err != nil {
		return nil, err
	}

	return s.staffRepo.Create(ctx, staff)
}

// Login authenticates a staff member with email and password
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Staff, error) {
	if email == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	staff, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrStaffNotFound) {
			// Don't reveal whether the email exists
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !staff.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !staff.Active {
		return nil, apperrors.ErrStaffInactive
	}

	return staff, nil
}
