package models

import (
	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/messaging"
)

// MessageModel is the persistence model for the Message aggregate.
// The body column holds the encrypted envelope, never plaintext.
type MessageModel struct {
	BaseModel
	SenderID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_messages_pair,priority:1"`
	ReceiverID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_messages_pair,priority:2;index:idx_messages_unread,priority:1"`
	OrderID      *uuid.UUID `gorm:"type:uuid;index"`
	ProductID    *uuid.UUID `gorm:"type:uuid"`
	BodyEnvelope string     `gorm:"column:body;type:text;not null"`
	IsRead       bool       `gorm:"not null;default:false;index:idx_messages_unread,priority:2"`
}

// TableName returns the table name for GORM
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts the persistence model to a domain Message
func (m *MessageModel) ToDomain() *messaging.Message {
	return &messaging.Message{
		BaseAggregateRoot: m.aggregateBase(),
		SenderID:          m.SenderID,
		ReceiverID:        m.ReceiverID,
		OrderID:           m.OrderID,
		ProductID:         m.ProductID,
		BodyEnvelope:      m.BodyEnvelope,
		IsRead:            m.IsRead,
	}
}

// FromDomain populates the persistence model from a domain Message
func (m *MessageModel) FromDomain(msg *messaging.Message) {
	m.FromDomainBaseEntity(msg.BaseEntity)
	m.SenderID = msg.SenderID
	m.ReceiverID = msg.ReceiverID
	m.OrderID = msg.OrderID
	m.ProductID = msg.ProductID
	m.BodyEnvelope = msg.BodyEnvelope
	m.IsRead = msg.IsRead
}

// MessageModelFromDomain creates a new persistence model from a domain Message
func MessageModelFromDomain(msg *messaging.Message) *MessageModel {
	m := &MessageModel{}
	m.FromDomain(msg)
	return m
}
