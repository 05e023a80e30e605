package messaging

import (
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// MaxBodyChars is the maximum plaintext length of a message body,
// enforced before encryption.
const MaxBodyChars = 500

// Message is a single buyer↔seller message. The body is stored only in
// encrypted envelope form; the read flag is the one mutable field and
// only ever moves false→true. UpdatedAt therefore records the last
// state change, not a content edit (there is no edit operation).
type Message struct {
	shared.BaseAggregateRoot
	SenderID     uuid.UUID
	ReceiverID   uuid.UUID
	OrderID      *uuid.UUID // present = order-scoped, subject to the send guard
	ProductID    *uuid.UUID // context hint only, never authorization-relevant
	BodyEnvelope string
	IsRead       bool
}

// ValidateBody checks the plaintext body against the messaging rules.
// Length is counted in runes so multi-byte text gets the full allowance.
func ValidateBody(body string) error {
	if body == "" {
		return shared.NewDomainError("INVALID_MESSAGE_BODY", "Message body cannot be empty")
	}
	if utf8.RuneCountInString(body) > MaxBodyChars {
		return shared.NewDomainError("INVALID_MESSAGE_BODY", "Message body cannot exceed 500 characters")
	}
	return nil
}

// NewMessage creates a message from an already-encrypted envelope.
// Authorization and body validation happen before this is called.
func NewMessage(senderID, receiverID uuid.UUID, envelope string, orderID, productID *uuid.UUID) (*Message, error) {
	if senderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTICIPANT", "Sender ID cannot be empty")
	}
	if receiverID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTICIPANT", "Receiver ID cannot be empty")
	}
	if senderID == receiverID {
		return nil, shared.NewDomainError("INVALID_PARTICIPANT", "Sender and receiver must be different users")
	}
	if envelope == "" {
		return nil, shared.NewDomainError("INVALID_ENVELOPE", "Body envelope cannot be empty")
	}

	msg := &Message{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SenderID:          senderID,
		ReceiverID:        receiverID,
		OrderID:           orderID,
		ProductID:         productID,
		BodyEnvelope:      envelope,
		IsRead:            false,
	}

	msg.AddDomainEvent(NewMessageSentEvent(msg))

	return msg, nil
}

// MarkRead flips the read flag. The transition is one-directional and
// idempotent; it reports whether this call changed anything.
func (m *Message) MarkRead() bool {
	if m.IsRead {
		return false
	}
	m.IsRead = true
	m.Touch()
	m.AddDomainEvent(NewMessageReadEvent(m))
	return true
}

// Counterpart returns the participant that is not the given user.
func (m *Message) Counterpart(userID uuid.UUID) uuid.UUID {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// Involves reports whether the user is the sender or the receiver.
func (m *Message) Involves(userID uuid.UUID) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// UnreadFor reports whether the message is unread and addressed to the user.
func (m *Message) UnreadFor(userID uuid.UUID) bool {
	return m.ReceiverID == userID && !m.IsRead
}
