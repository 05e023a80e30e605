package messaging

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/messaging"
	"github.com/marketplace/backend/internal/domain/ordering"
	"github.com/marketplace/backend/internal/domain/shared"
)

// SendGuard authorizes order-scoped sends. A message that references an
// order may only flow from the order's buyer to one of its sellers, and
// only while the order status permits messaging. Sends without an order
// reference bypass the guard entirely.
type SendGuard struct {
	orders ordering.OrderRepository
}

// NewSendGuard creates a new SendGuard
func NewSendGuard(orders ordering.OrderRepository) *SendGuard {
	return &SendGuard{orders: orders}
}

// Authorize checks one order-scoped send. The checks run in a fixed
// order so the caller always gets the most fundamental refusal:
// ownership first, then receiver, then order state.
func (g *SendGuard) Authorize(ctx context.Context, senderID, receiverID, orderID uuid.UUID) error {
	order, err := g.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return messaging.ErrOrderNotFound
		}
		return err
	}

	// A sender who is not the buyer learns nothing beyond "no such
	// order", the same answer an absent order gives.
	if order.BuyerID != senderID {
		return messaging.ErrOrderNotFound
	}

	if !order.HasSeller(receiverID) {
		return messaging.ErrReceiverMismatch
	}

	if !order.Status.AllowsMessaging() {
		return messaging.ErrDisallowedOrderState
	}

	return nil
}
