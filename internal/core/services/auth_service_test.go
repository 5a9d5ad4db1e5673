package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
	"github.com/lorrc/queue-desk-backend/internal/core/mocks"
	"github.com/lorrc/queue-desk-backend/internal/core/services"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes the password", func(t *testing.T) {
		repo := mocks.NewMockStaffRepository()
		svc := services.NewAuthService(repo)

		var created *domain.Staff
		repo.On("GetByEmail", ctx, "ana@example.com").Return(nil, apperrors.ErrStaffNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Staff")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Staff) }).
			Return(&domain.Staff{}, nil)

		_, err := svc.Register(ctx, "Ana Silva", "ana@example.com", "s3cret-pass", 2, domain.RoleAttendant)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEqual(t, "s3cret-pass", created.PasswordHash)
		assert.True(t, created.CheckPassword("s3cret-pass"))
		assert.True(t, created.Active)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := mocks.NewMockStaffRepository()
		svc := services.NewAuthService(repo)

		repo.On("GetByEmail", ctx, "ana@example.com").Return(&domain.Staff{Email: "ana@example.com"}, nil)

		_, err := svc.Register(ctx, "Ana Silva", "ana@example.com", "s3cret-pass", 2, domain.RoleAttendant)

		assert.ErrorIs(t, err, apperrors.ErrStaffExists)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("weak password fails validation", func(t *testing.T) {
		repo := mocks.NewMockStaffRepository()
		svc := services.NewAuthService(repo)

		repo.On("GetByEmail", ctx, "ana@example.com").Return(nil, apperrors.ErrStaffNotFound)

		_, err := svc.Register(ctx, "Ana Silva", "ana@example.com", "short", 2, domain.RoleAttendant)

		var verrs *apperrors.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.Errors, "password")
		repo.AssertNotCalled(t, "Create")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	registered := func(t *testing.T, password string, active bool) *domain.Staff {
		t.Helper()
		hash, err := domain.HashPassword(password)
		require.NoError(t, err)
		return &domain.Staff{Email: "ana@example.com", PasswordHash: hash, Active: active}
	}

	t.Run("success", func(t *testing.T) {
		repo := mocks.NewMockStaffRepository()
		svc := services.NewAuthService(repo)

		repo.On("GetByEmail", ctx, "ana@example.com").Return(registered(t, "s3cret-pass", true), nil)

		staff, err := svc.Login(ctx, "ana@example.com", "s3cret-pass")

		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", staff.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := mocks.NewMockStaffRepository()
		svc := services.NewAuthService(repo)

		repo.On("GetByEmail", ctx, "ana@example.com").Return(registered(t, "s3cret-pass", true), nil)

		_, err := svc.Login(ctx, "ana@example.com", "wrong")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email does not leak existence", func(t *testing.T) {
		repo := mocks.NewMockStaffRepository()
		svc := services.NewAuthService(repo)

		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrStaffNotFound)

		_, err := svc.Login(ctx, "ghost@example.com", "whatever")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		repo := mocks.NewMockStaffRepository()
		svc := services.NewAuthService(repo)

		repo.On("GetByEmail", ctx, "ana@example.com").Return(registered(t, "s3cret-pass", false), nil)

		_, err := svc.Login(ctx, "ana@example.com", "s3cret-pass")

		assert.ErrorIs(t, err, apperrors.ErrStaffInactive)
	})
}
