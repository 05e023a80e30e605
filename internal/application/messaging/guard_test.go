package messaging

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/messaging"
	"github.com/marketplace/backend/internal/domain/ordering"
	"github.com/marketplace/backend/internal/domain/shared"
)

// MockOrderRepository is a mock implementation of ordering.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]ordering.Order, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// newGuardOrder builds an order owned by buyerID with one line item per seller
func newGuardOrder(t *testing.T, buyerID uuid.UUID, sellers ...uuid.UUID) *ordering.Order {
	t.Helper()

	order, err := ordering.NewOrder(buyerID)
	require.NoError(t, err)
	for _, sellerID := range sellers {
		require.NoError(t, order.AddItem(uuid.New(), sellerID, 1, decimal.NewFromInt(5)))
	}
	return order
}

func TestSendGuard_BuyerMessagesSellerOnOwnOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	guard := NewSendGuard(orderRepo)

	buyer, seller := uuid.New(), uuid.New()
	order := newGuardOrder(t, buyer, seller)

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	err := guard.Authorize(context.Background(), buyer, seller, order.ID)

	assert.NoError(t, err)
}

func TestSendGuard_MissingOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	guard := NewSendGuard(orderRepo)

	orderID := uuid.New()
	orderRepo.On("FindByID", mock.Anything, orderID).Return(nil, shared.ErrNotFound)

	err := guard.Authorize(context.Background(), uuid.New(), uuid.New(), orderID)

	assert.ErrorIs(t, err, messaging.ErrOrderNotFound)
}

func TestSendGuard_StrangerUsingSomeoneElsesOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	guard := NewSendGuard(orderRepo)

	buyer, seller, stranger := uuid.New(), uuid.New(), uuid.New()
	order := newGuardOrder(t, buyer, seller)

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	err := guard.Authorize(context.Background(), stranger, seller, order.ID)

	// Indistinguishable from a missing order
	assert.ErrorIs(t, err, messaging.ErrOrderNotFound)
}

func TestSendGuard_ReceiverNotASellerOnTheOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	guard := NewSendGuard(orderRepo)

	buyer, seller, otherSeller := uuid.New(), uuid.New(), uuid.New()
	order := newGuardOrder(t, buyer, seller)

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	err := guard.Authorize(context.Background(), buyer, otherSeller, order.ID)

	assert.ErrorIs(t, err, messaging.ErrReceiverMismatch)
}

func TestSendGuard_CanceledOrderBlocksMessaging(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	guard := NewSendGuard(orderRepo)

	buyer, seller := uuid.New(), uuid.New()
	order := newGuardOrder(t, buyer, seller)
	require.NoError(t, order.TransitionTo(ordering.OrderStatusCanceled))

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	err := guard.Authorize(context.Background(), buyer, seller, order.ID)

	assert.ErrorIs(t, err, messaging.ErrDisallowedOrderState)
}

func TestSendGuard_AllMessagingStatuses(t *testing.T) {
	buyer, seller := uuid.New(), uuid.New()

	allowed := []ordering.OrderStatus{
		ordering.OrderStatusPending,
		ordering.OrderStatusProcessing,
		ordering.OrderStatusShipped,
		ordering.OrderStatusDelivered,
	}

	for _, status := range allowed {
		t.Run(string(status), func(t *testing.T) {
			orderRepo := new(MockOrderRepository)
			guard := NewSendGuard(orderRepo)

			order := newGuardOrder(t, buyer, seller)
			order.Status = status

			orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

			err := guard.Authorize(context.Background(), buyer, seller, order.ID)
			assert.NoError(t, err)
		})
	}
}

func TestSendGuard_CheckOrderIsOwnershipFirst(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	guard := NewSendGuard(orderRepo)

	buyer, seller, stranger := uuid.New(), uuid.New(), uuid.New()
	order := newGuardOrder(t, buyer, seller)
	require.NoError(t, order.TransitionTo(ordering.OrderStatusCanceled))

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	// Stranger + wrong receiver + canceled order: ownership wins
	err := guard.Authorize(context.Background(), stranger, stranger, order.ID)

	assert.ErrorIs(t, err, messaging.ErrOrderNotFound)
}
