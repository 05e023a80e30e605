package messaging

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Event types for the messaging aggregate
const (
	EventTypeMessageSent      = "messaging.message_sent"
	EventTypeMessageRead      = "messaging.message_read"
	EventTypeMessageDeleted   = "messaging.message_deleted"
	EventTypeConversationRead = "messaging.conversation_read"
)

const aggregateTypeMessage = "Message"

// MessageSentEvent is raised when a message is created
type MessageSentEvent struct {
	shared.BaseDomainEvent
	SenderID   uuid.UUID  `json:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
}

// NewMessageSentEvent creates a MessageSentEvent
func NewMessageSentEvent(m *Message) *MessageSentEvent {
	return &MessageSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageSent, m.ID, aggregateTypeMessage),
		SenderID:        m.SenderID,
		ReceiverID:      m.ReceiverID,
		OrderID:         m.OrderID,
	}
}

// MessageReadEvent is raised when a message transitions unread→read
type MessageReadEvent struct {
	shared.BaseDomainEvent
	ReceiverID uuid.UUID `json:"receiver_id"`
}

// NewMessageReadEvent creates a MessageReadEvent
func NewMessageReadEvent(m *Message) *MessageReadEvent {
	return &MessageReadEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageRead, m.ID, aggregateTypeMessage),
		ReceiverID:      m.ReceiverID,
	}
}

// MessageDeletedEvent is raised when the sender deletes a message
type MessageDeletedEvent struct {
	shared.BaseDomainEvent
	SenderID uuid.UUID `json:"sender_id"`
}

// NewMessageDeletedEvent creates a MessageDeletedEvent
func NewMessageDeletedEvent(messageID, senderID uuid.UUID) *MessageDeletedEvent {
	return &MessageDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageDeleted, messageID, aggregateTypeMessage),
		SenderID:        senderID,
	}
}

// ConversationReadEvent is raised when a bulk mark-read flips at least one message
type ConversationReadEvent struct {
	shared.BaseDomainEvent
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	Count      int64     `json:"count"`
}

// NewConversationReadEvent creates a ConversationReadEvent
func NewConversationReadEvent(fromUserID, toUserID uuid.UUID, count int64) *ConversationReadEvent {
	return &ConversationReadEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConversationRead, toUserID, aggregateTypeMessage),
		FromUserID:      fromUserID,
		ToUserID:        toUserID,
		Count:           count,
	}
}
