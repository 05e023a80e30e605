package directory

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindProfiles resolves many ids to public profiles in one query.
	// Unknown ids are simply absent from the result.
	FindProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Profile, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}
