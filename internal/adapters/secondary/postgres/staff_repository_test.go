package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
)

func TestStaffRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	require.NotNil(t, testPool, "testPool is nil. TestMain may not have run.")
	repo := NewStaffRepository(testPool)

	email := uuid.NewString() + "@example.com"
	newStaff := &domain.Staff{
		ID:            uuid.New(),
		FullName:      "Ana Souza",
		Email:         email,
		PasswordHash:  "hashedpassword",
		CounterNumber: 3,
		Role:          domain.RoleAttendant,
		Active:        true,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}

	created, err := repo.Create(ctx, newStaff)
	require.NoError(t, err, "Failed to create staff member")

	found, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err, "Failed to get staff by email")

	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Ana Souza", found.FullName)
	assert.Equal(t, 3, found.CounterNumber)
	assert.Equal(t, domain.RoleAttendant, found.Role)
	assert.True(t, found.Active)

	foundByID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err, "Failed to get staff by ID")
	assert.Equal(t, created.ID, foundByID.ID)
}

func TestStaffRepository_GetByEmail_NotFound(t *testing.T) {
	ctx := context.Background()
	require.NotNil(t, testPool, "testPool is nil. TestMain may not have run.")
	repo := NewStaffRepository(testPool)

	_, err := repo.GetByEmail(ctx, "nonexistent@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStaffNotFound)
}
