package domain

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxFullNameLength = 255
	MaxEmailLength    = 255
)

// StaffRole controls which operations a staff member may perform.
type StaffRole string

const (
	RoleAttendant StaffRole = "attendant"
	RoleAdmin     StaffRole = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r StaffRole) Valid() bool {
	return r == RoleAttendant || r == RoleAdmin
}

// Staff is a counter attendant or administrator.
type Staff struct {
	ID            uuid.UUID
	FullName      string
	Email         string
	PasswordHash  string
	CounterNumber int
	Role          StaffRole
	Active        bool
	CreatedAt     time.Time
}

// StaffRegistrationParams holds parameters for registering a staff account.
type StaffRegistrationParams struct {
	FullName      string
	Email         string
	Password      string
	CounterNumber int
	Role          StaffRole
}

// Validate validates staff registration parameters
func (p *StaffRegistrationParams) Validate() error {
	errs := apperrors.NewValidationErrors()

	if p.FullName == "" {
		errs.Add("fullName", "Full name is required")
	} else if len(p.FullName) > MaxFullNameLength {
		errs.Add("fullName", "Full name must be 255 characters or less")
	}

	if p.Email == "" {
		errs.Add("email", "Email is required")
	} else if len(p.Email) > MaxEmailLength {
		errs.Add("email", "Email must be 255 characters or less")
	} else if !isValidEmail(p.Email) {
		errs.Add("email", "Invalid email format")
	}

	if len(p.Password) < MinPasswordLength {
		errs.Add("password", "Password must be at least 8 characters long")
	} else if len(p.Password) > MaxPasswordLength {
		errs.Add("password", "Password must be 128 characters or less")
	}

	if p.CounterNumber < 1 {
		errs.Add("counterNumber", "Counter number must be positive")
	}

	if !p.Role.Valid() {
		errs.Add("role", "Role must be attendant or admin")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// isValidEmail validates email format
func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (s *Staff) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password))
	return err == nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// NewStaff creates a staff account with validated parameters.
func NewStaff(params StaffRegistrationParams) (*Staff, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	return &Staff{
		ID:            uuid.New(),
		FullName:      params.FullName,
		Email:         params.Email,
		PasswordHash:  hash,
		CounterNumber: params.CounterNumber,
		Role:          params.Role,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
