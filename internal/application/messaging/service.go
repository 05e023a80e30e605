package messaging

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/directory"
	"github.com/marketplace/backend/internal/domain/messaging"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/cache"
)

// Service handles messaging business operations: sending under the
// order guard, conversation retrieval, read state and deletion.
// Plaintext only exists inside a request; everything at rest is the
// encrypted envelope.
type Service struct {
	messages messaging.MessageRepository
	users    directory.UserRepository
	guard    *SendGuard
	codec    messaging.BodyCodec
	unread   cache.UnreadCache
	logger   *zap.Logger
}

// NewService creates a new messaging Service. The unread cache is
// optional; pass nil to count from the store on every call.
func NewService(
	messages messaging.MessageRepository,
	users directory.UserRepository,
	guard *SendGuard,
	codec messaging.BodyCodec,
	unread cache.UnreadCache,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		messages: messages,
		users:    users,
		guard:    guard,
		codec:    codec,
		unread:   unread,
		logger:   logger,
	}
}

// Send validates, authorizes, encrypts and stores one message
func (s *Service) Send(ctx context.Context, req SendMessageRequest) (*MessageResponse, error) {
	if err := messaging.ValidateBody(req.Body); err != nil {
		return nil, err
	}

	if req.OrderID != nil {
		if err := s.guard.Authorize(ctx, req.SenderID, req.ReceiverID, *req.OrderID); err != nil {
			return nil, err
		}
	}

	envelope, err := s.codec.Encrypt(req.Body)
	if err != nil {
		return nil, messaging.ErrEncryptionFailed
	}

	msg, err := messaging.NewMessage(req.SenderID, req.ReceiverID, envelope, req.OrderID, req.ProductID)
	if err != nil {
		return nil, err
	}

	if err := s.messages.Save(ctx, msg); err != nil {
		return nil, err
	}

	s.drainEvents(msg)
	s.invalidateUnread(ctx, req.ReceiverID)

	resp := messageResponseFrom(messaging.DecodeMessage(msg, s.codec.DecryptOrSentinel))
	// The sender already knows the plaintext; no reason to round-trip
	// it through the codec.
	resp.Body = req.Body
	return resp, nil
}

// GetConversation returns all messages between two users, oldest
// first, optionally narrowed to one order
func (s *Service) GetConversation(ctx context.Context, userA, userB uuid.UUID, orderID *uuid.UUID) ([]messaging.DecryptedMessage, error) {
	msgs, err := s.messages.FindConversation(ctx, userA, userB, orderID)
	if err != nil {
		return nil, err
	}
	return messaging.DecodeMessages(msgs, s.codec.DecryptOrSentinel), nil
}

// GetUserConversations returns the user's inbox: one conversation per
// counterpart, newest activity first, with partner profiles resolved
// in a single batched lookup
func (s *Service) GetUserConversations(ctx context.Context, userID uuid.UUID) ([]messaging.Conversation, error) {
	msgs, err := s.messages.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	conversations := messaging.BuildConversations(userID, msgs, s.codec.DecryptOrSentinel)
	if len(conversations) == 0 {
		return conversations, nil
	}

	profiles, err := s.users.FindProfiles(ctx, messaging.PartnerIDs(conversations))
	if err != nil {
		return nil, err
	}

	for i := range conversations {
		if profile, ok := profiles[conversations[i].PartnerID]; ok {
			conversations[i].PartnerName = profile.Name
			conversations[i].PartnerContact = profile.Contact
		}
	}

	return conversations, nil
}

// GetOrderMessages returns all messages tied to one order, oldest first
func (s *Service) GetOrderMessages(ctx context.Context, orderID uuid.UUID) ([]messaging.DecryptedMessage, error) {
	msgs, err := s.messages.FindForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return messaging.DecodeMessages(msgs, s.codec.DecryptOrSentinel), nil
}

// MarkMessageRead flips one message to read. Re-marking an already
// read message succeeds without changing anything.
func (s *Service) MarkMessageRead(ctx context.Context, id uuid.UUID) (*MessageResponse, error) {
	msg, err := s.messages.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}

	s.drainEvents(msg)
	s.invalidateUnread(ctx, msg.ReceiverID)

	return messageResponseFrom(messaging.DecodeMessage(msg, s.codec.DecryptOrSentinel)), nil
}

// MarkConversationRead marks everything the partner sent to the reader
// as read and reports how many messages changed
func (s *Service) MarkConversationRead(ctx context.Context, readerID, partnerID uuid.UUID) (*ConversationReadResponse, error) {
	count, err := s.messages.MarkConversationRead(ctx, partnerID, readerID)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		s.logger.Debug("domain event",
			zap.String("event_type", messaging.NewConversationReadEvent(partnerID, readerID, count).EventType()),
			zap.String("reader_id", readerID.String()),
			zap.Int64("count", count),
		)
		s.invalidateUnread(ctx, readerID)
	}

	return &ConversationReadResponse{UpdatedCount: count}, nil
}

// DeleteMessage removes a message the requester sent. Messages the
// requester does not own look exactly like absent ones.
func (s *Service) DeleteMessage(ctx context.Context, id, requesterID uuid.UUID) error {
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if msg.SenderID != requesterID {
		return shared.ErrNotFound
	}

	if err := s.messages.DeleteIfOwned(ctx, id, requesterID); err != nil {
		return err
	}

	s.logger.Debug("domain event",
		zap.String("event_type", messaging.NewMessageDeletedEvent(id, requesterID).EventType()),
		zap.String("message_id", id.String()),
	)
	s.invalidateUnread(ctx, msg.ReceiverID)

	return nil
}

// CountUnread returns the user's unread total, served from cache when
// a fresh value exists
func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (*UnreadCountResponse, error) {
	if s.unread != nil {
		if count, found, err := s.unread.Get(ctx, userID); err == nil && found {
			return &UnreadCountResponse{UserID: userID, UnreadCount: count}, nil
		} else if err != nil {
			s.logger.Warn("unread cache read failed", zap.Error(err))
		}
	}

	count, err := s.messages.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	// A send or mark-read landing between the count above and this Set
	// can leave a stale value cached until the TTL expires. The database
	// stays authoritative and write paths invalidate eagerly, so the
	// window is at most one TTL of undercounting; tolerable for a badge.
	if s.unread != nil {
		if err := s.unread.Set(ctx, userID, count); err != nil {
			s.logger.Warn("unread cache write failed", zap.Error(err))
		}
	}

	return &UnreadCountResponse{UserID: userID, UnreadCount: count}, nil
}

// drainEvents logs and clears the aggregate's pending domain events
func (s *Service) drainEvents(msg *messaging.Message) {
	for _, event := range msg.GetDomainEvents() {
		s.logger.Debug("domain event",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
		)
	}
	msg.ClearDomainEvents()
}

// invalidateUnread drops the cached unread count for a user. Cache
// errors never fail the operation that triggered the invalidation.
func (s *Service) invalidateUnread(ctx context.Context, userID uuid.UUID) {
	if s.unread == nil {
		return
	}
	if err := s.unread.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("unread cache invalidation failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

// IsAuthorizationError reports whether err is one of the guard's
// refusals, as opposed to a validation or storage failure
func IsAuthorizationError(err error) bool {
	return errors.Is(err, messaging.ErrOrderNotFound) ||
		errors.Is(err, messaging.ErrReceiverMismatch) ||
		errors.Is(err, messaging.ErrDisallowedOrderState)
}
