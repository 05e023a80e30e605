package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a marketplace order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// IsValid checks if the status is a known OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// AllowsMessaging reports whether buyer↔seller messaging about the order
// is permitted in this status. Delivered orders still allow messaging;
// canceled ones do not.
func (s OrderStatus) AllowsMessaging() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// CanTransitionTo checks if transitioning to the target status is allowed
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusCanceled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCanceled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	default:
		return false
	}
}

// OrderItem is one line item on an order. The owning seller is
// denormalized from the product at order creation so seller resolution
// does not depend on later catalog changes.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	SellerID  uuid.UUID       `json:"seller_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// Order is the aggregate root for a buyer's purchase
type Order struct {
	shared.BaseAggregateRoot
	BuyerID     uuid.UUID
	Items       []OrderItem
	TotalAmount decimal.Decimal
	Status      OrderStatus
	CanceledAt  *time.Time
}

// NewOrder creates a pending order for a buyer
func NewOrder(buyerID uuid.UUID) (*Order, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}
	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerID:           buyerID,
		Items:             make([]OrderItem, 0),
		TotalAmount:       decimal.Zero,
		Status:            OrderStatusPending,
	}
	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// AddItem appends a line item; only allowed while the order is pending
func (o *Order) AddItem(productID, sellerID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Items can only be added to pending orders")
	}
	if productID == uuid.Nil || sellerID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER_ITEM", "Product and seller are required")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_ORDER_ITEM", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_ORDER_ITEM", "Unit price cannot be negative")
	}

	amount := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	o.Items = append(o.Items, OrderItem{
		ID:        uuid.New(),
		ProductID: productID,
		SellerID:  sellerID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Amount:    amount,
	})
	o.TotalAmount = o.TotalAmount.Add(amount)
	o.Touch()
	return nil
}

// TransitionTo moves the order to the target status
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_ORDER_STATUS", "Unknown order status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot move from "+o.Status.String()+" to "+target.String())
	}
	from := o.Status
	o.Status = target
	now := time.Now()
	o.UpdatedAt = now
	if target == OrderStatusCanceled {
		o.CanceledAt = &now
	}
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	return nil
}

// SellerIDs returns the distinct seller ids across the order's line
// items, preserving first-seen order.
func (o *Order) SellerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.SellerID]; ok {
			continue
		}
		seen[item.SellerID] = struct{}{}
		ids = append(ids, item.SellerID)
	}
	return ids
}

// HasSeller reports whether the user is a seller of any product on the order
func (o *Order) HasSeller(userID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.SellerID == userID {
			return true
		}
	}
	return false
}
