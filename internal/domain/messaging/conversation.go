package messaging

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DecryptedMessage is a message with its body already decoded for display.
// Bodies that failed decryption carry the Sentinel text.
type DecryptedMessage struct {
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

// Conversation is a derived, non-persisted view: all messages between
// one user and one counterpart, with preview and unread count. It is
// recomputed on every fetch.
type Conversation struct {
	PartnerID       uuid.UUID          `json:"partner_id"`
	PartnerName     string             `json:"partner_name"`
	PartnerContact  string             `json:"partner_contact"`
	Messages        []DecryptedMessage `json:"messages"`
	LastMessageText string             `json:"last_message_text"`
	LastMessageAt   time.Time          `json:"last_message_at"`
	UnreadCount     int                `json:"unread_count"`
}

// DecodeMessage converts a stored message into its display form using
// the supplied body decoder (typically BodyCodec.DecryptOrSentinel).
func DecodeMessage(m *Message, decode func(string) string) DecryptedMessage {
	return DecryptedMessage{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		OrderID:    m.OrderID,
		ProductID:  m.ProductID,
		Body:       decode(m.BodyEnvelope),
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// DecodeMessages converts a slice of stored messages, preserving order.
func DecodeMessages(msgs []Message, decode func(string) string) []DecryptedMessage {
	out := make([]DecryptedMessage, len(msgs))
	for i := range msgs {
		out[i] = DecodeMessage(&msgs[i], decode)
	}
	return out
}

// BuildConversations groups a user's flat message log by counterpart and
// derives one Conversation per counterpart. It is a pure function of its
// inputs: partner profiles are left blank for the caller to resolve with
// one batched directory lookup over PartnerIDs.
//
// Per conversation the message list is chronological ascending regardless
// of the input order; the preview is the most recent message; the unread
// count covers messages addressed to userID with is_read=false. The
// returned conversations are ordered by last-message time descending.
func BuildConversations(userID uuid.UUID, msgs []Message, decode func(string) string) []Conversation {
	groups := make(map[uuid.UUID][]DecryptedMessage)
	order := make([]uuid.UUID, 0)

	for i := range msgs {
		m := &msgs[i]
		if !m.Involves(userID) {
			continue
		}
		partner := m.Counterpart(userID)
		if _, seen := groups[partner]; !seen {
			order = append(order, partner)
		}
		groups[partner] = append(groups[partner], DecodeMessage(m, decode))
	}

	conversations := make([]Conversation, 0, len(order))
	for _, partner := range order {
		list := groups[partner]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		})

		unread := 0
		for i := range list {
			if list[i].ReceiverID == userID && !list[i].IsRead {
				unread++
			}
		}

		last := list[len(list)-1]
		conversations = append(conversations, Conversation{
			PartnerID:       partner,
			Messages:        list,
			LastMessageText: last.Body,
			LastMessageAt:   last.CreatedAt,
			UnreadCount:     unread,
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})

	return conversations
}

// PartnerIDs returns the distinct counterpart ids of the conversations,
// in order, for a single batched profile lookup.
func PartnerIDs(conversations []Conversation) []uuid.UUID {
	ids := make([]uuid.UUID, len(conversations))
	for i := range conversations {
		ids[i] = conversations[i].PartnerID
	}
	return ids
}
