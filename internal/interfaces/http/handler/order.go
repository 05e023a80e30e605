package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderingapp "github.com/marketplace/backend/internal/application/ordering"
)

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderingapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderingapp.Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Create places a new order
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderingapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if !actingUserMatches(c, req.BuyerID) {
		h.Forbidden(c, "Cannot place orders on behalf of another user")
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID retrieves an order by ID
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// ListByBuyer retrieves all orders placed by a buyer
func (h *OrderHandler) ListByBuyer(c *gin.Context) {
	buyerID, err := uuid.Parse(c.Param("buyer_id"))
	if err != nil {
		h.BadRequest(c, "Invalid buyer ID format")
		return
	}

	orders, err := h.orderService.ListByBuyer(c.Request.Context(), buyerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, orders)
}

// UpdateStatus transitions an order to a new status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderingapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}
