package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/messaging"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
)

// GormMessageRepository implements messaging.MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Save inserts a new message row
func (r *GormMessageRepository) Save(ctx context.Context, msg *messaging.Message) error {
	model := models.MessageModelFromDomain(msg)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a message by its ID
func (r *GormMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*messaging.Message, error) {
	var model models.MessageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindConversation returns all messages between the unordered pair
// {userA, userB}, oldest first, optionally filtered to one order
func (r *GormMessageRepository) FindConversation(ctx context.Context, userA, userB uuid.UUID, orderID *uuid.UUID) ([]messaging.Message, error) {
	query := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA)

	if orderID != nil {
		query = query.Where("order_id = ?", *orderID)
	}

	var messageModels []models.MessageModel
	if err := query.Order("created_at ASC").Find(&messageModels).Error; err != nil {
		return nil, err
	}

	return toDomainMessages(messageModels), nil
}

// FindAllForUser returns all messages where the user is sender or
// receiver, newest first
func (r *GormMessageRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]messaging.Message, error) {
	var messageModels []models.MessageModel
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messageModels).Error; err != nil {
		return nil, err
	}
	return toDomainMessages(messageModels), nil
}

// FindForOrder returns all messages tied to one order, oldest first
func (r *GormMessageRepository) FindForOrder(ctx context.Context, orderID uuid.UUID) ([]messaging.Message, error) {
	var messageModels []models.MessageModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&messageModels).Error; err != nil {
		return nil, err
	}
	return toDomainMessages(messageModels), nil
}

// MarkRead flips is_read for one message. Marking an already-read
// message succeeds without touching the row.
func (r *GormMessageRepository) MarkRead(ctx context.Context, id uuid.UUID) (*messaging.Message, error) {
	var model models.MessageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	msg := model.ToDomain()
	if !msg.MarkRead() {
		return msg, nil
	}

	if err := r.db.WithContext(ctx).Model(&models.MessageModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_read": true, "updated_at": msg.UpdatedAt}).Error; err != nil {
		return nil, err
	}

	return msg, nil
}

// MarkConversationRead flips is_read for all unread messages sent
// fromUserID → toUserID and returns how many rows changed
func (r *GormMessageRepository) MarkConversationRead(ctx context.Context, fromUserID, toUserID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.MessageModel{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", fromUserID, toUserID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteIfOwned deletes the message only when requesterID is its
// sender. A non-owned message reports shared.ErrNotFound exactly like
// an absent one, so existence is not leaked to non-owners.
func (r *GormMessageRepository) DeleteIfOwned(ctx context.Context, id, requesterID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND sender_id = ?", id, requesterID).
		Delete(&models.MessageModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountUnread counts rows with receiver_id = userID and is_read = false
func (r *GormMessageRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.MessageModel{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toDomainMessages(messageModels []models.MessageModel) []messaging.Message {
	messages := make([]messaging.Message, len(messageModels))
	for i := range messageModels {
		messages[i] = *messageModels[i].ToDomain()
	}
	return messages
}

var _ messaging.MessageRepository = (*GormMessageRepository)(nil)
