package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/ordering"
)

// CreateOrderRequest represents a request to place an order
type CreateOrderRequest struct {
	BuyerID uuid.UUID                `json:"buyer_id" binding:"required"`
	Items   []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest is one requested line item. The seller is
// resolved from the product, never taken from the client.
type CreateOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateOrderStatusRequest represents a status transition request
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered canceled"`
}

// OrderItemResponse is one line item on an order
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	SellerID  uuid.UUID       `json:"seller_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// OrderResponse represents an order
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	BuyerID     uuid.UUID           `json:"buyer_id"`
	Items       []OrderItemResponse `json:"items"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Status      string              `json:"status"`
	CanceledAt  *time.Time          `json:"canceled_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// toOrderResponse converts a domain Order to its response form
func toOrderResponse(o *ordering.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			SellerID:  item.SellerID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		}
	}
	return &OrderResponse{
		ID:          o.ID,
		BuyerID:     o.BuyerID,
		Items:       items,
		TotalAmount: o.TotalAmount,
		Status:      o.Status.String(),
		CanceledAt:  o.CanceledAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
