package directory

import (
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/directory"
)

// RegisterUserRequest represents a request to register a user
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Phone    string `json:"phone" binding:"max=50"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UpdateContactRequest represents a request to change contact details
type UpdateContactRequest struct {
	Email string `json:"email" binding:"required,email,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// UserResponse represents a user. The password hash never leaves the
// service layer.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// toUserResponse converts a domain User to its response form
func toUserResponse(u *directory.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
