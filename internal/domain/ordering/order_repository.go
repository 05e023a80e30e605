package ordering

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its line items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByBuyer finds all orders placed by a buyer, newest first
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Order, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, order *Order) error
}
