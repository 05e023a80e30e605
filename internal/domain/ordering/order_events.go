package ordering

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Event types for the ordering aggregate
const (
	EventTypeOrderCreated       = "ordering.order_created"
	EventTypeOrderStatusChanged = "ordering.order_status_changed"
)

const aggregateTypeOrder = "Order"

// OrderCreatedEvent is raised when an order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	BuyerID uuid.UUID `json:"buyer_id"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, o.ID, aggregateTypeOrder),
		BuyerID:         o.BuyerID,
	}
}

// OrderStatusChangedEvent is raised on every status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	From OrderStatus `json:"from"`
	To   OrderStatus `json:"to"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, o.ID, aggregateTypeOrder),
		From:            from,
		To:              o.Status,
	}
}
