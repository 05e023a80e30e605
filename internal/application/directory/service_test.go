package directory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/directory"
	"github.com/marketplace/backend/internal/domain/shared"
)

// MockUserRepository is a mock implementation of directory.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*directory.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.User), args.Error(1)
}

func (m *MockUserRepository) FindProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]directory.Profile, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uuid.UUID]directory.Profile), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *directory.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func TestDirectoryServiceRegister(t *testing.T) {
	users := new(MockUserRepository)
	service := NewService(users)

	users.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, shared.ErrNotFound)
	users.On("Save", mock.Anything, mock.MatchedBy(func(u *directory.User) bool {
		return u.Email == "alice@example.com" && u.PasswordHash != "s3cretpass"
	})).Return(nil)

	resp, err := service.Register(context.Background(), RegisterUserRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "s3cretpass",
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.Name)
	assert.Equal(t, "alice@example.com", resp.Email)
}

func TestDirectoryServiceRegister_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	service := NewService(users)

	existing, err := directory.NewUser("Alice", "alice@example.com", "", "s3cretpass")
	require.NoError(t, err)

	users.On("FindByEmail", mock.Anything, "alice@example.com").Return(existing, nil)

	_, err = service.Register(context.Background(), RegisterUserRequest{
		Name:     "Imposter",
		Email:    "alice@example.com",
		Password: "otherpass1",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	users.AssertNotCalled(t, "Save")
}

func TestDirectoryServiceAuthenticate(t *testing.T) {
	users := new(MockUserRepository)
	service := NewService(users)

	user, err := directory.NewUser("Alice", "alice@example.com", "", "s3cretpass")
	require.NoError(t, err)

	users.On("FindByEmail", mock.Anything, "alice@example.com").Return(user, nil)

	t.Run("correct password", func(t *testing.T) {
		resp, err := service.Authenticate(context.Background(), "alice@example.com", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate(context.Background(), "alice@example.com", "wrongpass1")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("unknown email looks identical to wrong password", func(t *testing.T) {
		users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, shared.ErrNotFound)

		_, err := service.Authenticate(context.Background(), "ghost@example.com", "whatever1")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}
