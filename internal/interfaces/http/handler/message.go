package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	messagingapp "github.com/marketplace/backend/internal/application/messaging"
)

// MessageHandler handles buyer/seller messaging API endpoints
type MessageHandler struct {
	BaseHandler
	messageService *messagingapp.Service
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageService *messagingapp.Service) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// DeleteMessageRequest identifies the user requesting a deletion
type DeleteMessageRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// Send creates a new message. The response body carries the plaintext
// the caller submitted, not the stored envelope.
func (h *MessageHandler) Send(c *gin.Context) {
	var req messagingapp.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if !actingUserMatches(c, req.SenderID) {
		h.Forbidden(c, "Cannot send messages on behalf of another user")
		return
	}

	msg, err := h.messageService.Send(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, msg)
}

// GetConversation returns the message history between two users,
// oldest first, optionally filtered to a single order
func (h *MessageHandler) GetConversation(c *gin.Context) {
	userA, err := uuid.Parse(c.Param("user_a"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}
	userB, err := uuid.Parse(c.Param("user_b"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var orderID *uuid.UUID
	if raw := c.Query("order_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid order ID format")
			return
		}
		orderID = &id
	}

	messages, err := h.messageService.GetConversation(c.Request.Context(), userA, userB, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, messages)
}

// GetUserConversations returns a user's inbox grouped by conversation
// partner, most recently active first
func (h *MessageHandler) GetUserConversations(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	conversations, err := h.messageService.GetUserConversations(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, conversations)
}

// GetOrderMessages returns all messages attached to an order, oldest first
func (h *MessageHandler) GetOrderMessages(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	messages, err := h.messageService.GetOrderMessages(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, messages)
}

// MarkRead marks a single message as read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid message ID format")
		return
	}

	msg, err := h.messageService.MarkMessageRead(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, msg)
}

// MarkConversationRead marks every message sent by user_b to user_a as
// read and reports how many messages changed state
func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	readerID, err := uuid.Parse(c.Param("user_a"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}
	partnerID, err := uuid.Parse(c.Param("user_b"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if !actingUserMatches(c, readerID) {
		h.Forbidden(c, "Cannot mark another user's conversation as read")
		return
	}

	result, err := h.messageService.MarkConversationRead(c.Request.Context(), readerID, partnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a message. Only the sender may delete; anyone else
// gets a 404, the same as for a message that never existed.
func (h *MessageHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid message ID format")
		return
	}

	var req DeleteMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if !actingUserMatches(c, req.UserID) {
		h.Forbidden(c, "Cannot delete messages on behalf of another user")
		return
	}

	if err := h.messageService.DeleteMessage(c.Request.Context(), id, req.UserID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// UnreadCount returns the number of unread messages for a user
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	count, err := h.messageService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, count)
}
