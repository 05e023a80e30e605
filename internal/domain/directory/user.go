package directory

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is a marketplace account. The same account can act as buyer and
// seller; messaging does not distinguish roles, orders do.
type User struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	Phone        string
	PasswordHash string
}

// Profile is the public subset of a user exposed to counterparties
type Profile struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Contact string    `json:"contact"`
}

// NewUser creates a user with a bcrypt-hashed password
func NewUser(name, email, phone, password string) (*User, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_USER_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_USER_NAME", "Name cannot exceed 100 characters")
	}
	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Phone:             phone,
		PasswordHash:      string(hash),
	}, nil
}

// CheckPassword verifies a candidate password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UpdateContact updates the user's contact information
func (u *User) UpdateContact(email, phone string) error {
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	if email != "" {
		u.Email = email
	}
	u.Phone = phone
	u.Touch()
	return nil
}

// ToProfile returns the public view of the user. Phone is preferred as
// the contact when present, otherwise email.
func (u *User) ToProfile() Profile {
	contact := u.Phone
	if contact == "" {
		contact = u.Email
	}
	return Profile{
		ID:      u.ID,
		Name:    u.Name,
		Contact: contact,
	}
}
