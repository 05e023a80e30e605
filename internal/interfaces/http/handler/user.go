package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	directoryapp "github.com/marketplace/backend/internal/application/directory"
	"github.com/marketplace/backend/internal/infrastructure/auth"
)

// UserHandler handles user directory API endpoints
type UserHandler struct {
	BaseHandler
	userService *directoryapp.Service
	jwtService  *auth.JWTService
}

// NewUserHandler creates a new UserHandler. jwtService may be nil when
// authentication is disabled; login then returns the user without a token.
func NewUserHandler(userService *directoryapp.Service, jwtService *auth.JWTService) *UserHandler {
	return &UserHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated user
type LoginResponse struct {
	Token     string                     `json:"token,omitempty"`
	ExpiresAt *time.Time                 `json:"expires_at,omitempty"`
	User      *directoryapp.UserResponse `json:"user"`
}

// Register creates a new marketplace account
func (h *UserHandler) Register(c *gin.Context) {
	var req directoryapp.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, user)
}

// GetByID retrieves a user by ID
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// UpdateContact changes a user's contact details
func (h *UserHandler) UpdateContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if !actingUserMatches(c, id) {
		h.Forbidden(c, "Cannot update another user's contact details")
		return
	}

	var req directoryapp.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	user, err := h.userService.UpdateContact(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// Login authenticates a user by email and password and issues a bearer
// token when a JWT service is configured
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	resp := LoginResponse{User: user}
	if h.jwtService != nil {
		token, expiresAt, err := h.jwtService.GenerateToken(user.ID, user.Name)
		if err != nil {
			h.InternalError(c, "Failed to issue token")
			return
		}
		resp.Token = token
		resp.ExpiresAt = &expiresAt
	}

	h.Success(c, resp)
}
