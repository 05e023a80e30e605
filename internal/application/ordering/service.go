package ordering

import (
	"context"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/ordering"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Service handles order business operations
type Service struct {
	orders   ordering.OrderRepository
	products catalog.ProductRepository
}

// NewService creates a new ordering Service
func NewService(orders ordering.OrderRepository, products catalog.ProductRepository) *Service {
	return &Service{orders: orders, products: products}
}

// Create places an order. Sellers and prices come from the catalog at
// order time; the line items freeze them so later catalog edits cannot
// rewrite who sold what.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	ids := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.ProductID
	}

	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	productsByID := make(map[uuid.UUID]catalog.Product, len(found))
	for _, p := range found {
		productsByID[p.ID] = p
	}

	order, err := ordering.NewOrder(req.BuyerID)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		product, ok := productsByID[item.ProductID]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product does not exist")
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for purchase")
		}
		if product.SellerID == req.BuyerID {
			return nil, shared.NewDomainError("SELF_PURCHASE", "Buyers cannot order their own products")
		}
		if err := order.AddItem(product.ID, product.SellerID, item.Quantity, product.Price); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	return toOrderResponse(order), nil
}

// Get returns one order with its line items
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// ListByBuyer returns a buyer's orders, newest first
func (s *Service) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orders.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = *toOrderResponse(&orders[i])
	}
	return responses, nil
}

// UpdateStatus transitions an order along its lifecycle
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.TransitionTo(ordering.OrderStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	return toOrderResponse(order), nil
}
