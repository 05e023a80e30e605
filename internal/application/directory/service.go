package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/directory"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Service handles user directory operations
type Service struct {
	users directory.UserRepository
}

// NewService creates a new directory Service
func NewService(users directory.UserRepository) *Service {
	return &Service{users: users}
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error) {
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	user, err := directory.NewUser(req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

// Get returns one user
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// UpdateContact changes a user's contact details
func (s *Service) UpdateContact(ctx context.Context, id uuid.UUID, req UpdateContactRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.UpdateContact(req.Email, req.Phone); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

// Authenticate verifies a user's credentials and returns the account.
// A wrong password and an unknown email produce the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*UserResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, shared.ErrUnauthorized
	}

	return toUserResponse(user), nil
}
