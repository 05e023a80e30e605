package messaging

import (
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/messaging"
)

// SendMessageRequest represents a request to send a message
type SendMessageRequest struct {
	SenderID   uuid.UUID  `json:"sender_id" binding:"required"`
	ReceiverID uuid.UUID  `json:"receiver_id" binding:"required"`
	OrderID    *uuid.UUID `json:"order_id"`
	ProductID  *uuid.UUID `json:"product_id"`
	// Length is enforced by the domain body rule, not a binding tag, so
	// every over-long body gets the same error code.
	Body string `json:"body" binding:"required"`
}

// MessageResponse represents a message with its body in plaintext
type MessageResponse struct {
	ID         uuid.UUID  `json:"id"`
	SenderID   uuid.UUID  `json:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	Body       string     `json:"body"`
	IsRead     bool       `json:"is_read"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// messageResponseFrom builds a response from a decoded message
func messageResponseFrom(m messaging.DecryptedMessage) *MessageResponse {
	return &MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		OrderID:    m.OrderID,
		ProductID:  m.ProductID,
		Body:       m.Body,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// ConversationReadResponse reports a bulk read operation
type ConversationReadResponse struct {
	UpdatedCount int64 `json:"updated_count"`
}

// UnreadCountResponse reports a user's unread message total
type UnreadCountResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	UnreadCount int64     `json:"unread_count"`
}
