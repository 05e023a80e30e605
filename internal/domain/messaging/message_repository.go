package messaging

import (
	"context"

	"github.com/google/uuid"
)

// MessageRepository defines the persistence contract for messages.
//
// Ordering contracts: FindConversation and FindForOrder return oldest
// first (display order); FindAllForUser returns newest first (feed
// order, the aggregator re-sorts per conversation).
type MessageRepository interface {
	// Save inserts a new message row
	Save(ctx context.Context, msg *Message) error

	// FindByID finds a message by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)

	// FindConversation returns all messages between the unordered pair
	// {userA, userB}, optionally filtered to one order
	FindConversation(ctx context.Context, userA, userB uuid.UUID, orderID *uuid.UUID) ([]Message, error)

	// FindAllForUser returns all messages where the user is sender or receiver
	FindAllForUser(ctx context.Context, userID uuid.UUID) ([]Message, error)

	// FindForOrder returns all messages tied to one order
	FindForOrder(ctx context.Context, orderID uuid.UUID) ([]Message, error)

	// MarkRead flips is_read for one message; shared.ErrNotFound on miss.
	// Marking an already-read message is a no-op that still succeeds.
	MarkRead(ctx context.Context, id uuid.UUID) (*Message, error)

	// MarkConversationRead flips is_read for all unread messages sent
	// fromUserID → toUserID and returns how many rows changed
	MarkConversationRead(ctx context.Context, fromUserID, toUserID uuid.UUID) (int64, error)

	// DeleteIfOwned deletes the message only when requesterID is its
	// sender. A non-owned message reports shared.ErrNotFound exactly like
	// an absent one, so existence is not leaked.
	DeleteIfOwned(ctx context.Context, id, requesterID uuid.UUID) error

	// CountUnread counts rows with receiver_id = userID and is_read = false
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}
