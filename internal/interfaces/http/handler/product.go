package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
)

// ProductHandler handles product catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.Service
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.Service) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Create lists a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if !actingUserMatches(c, req.SellerID) {
		h.Forbidden(c, "Cannot list products on behalf of another user")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID retrieves a product by ID
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// ListBySeller retrieves a seller's products
func (h *ProductHandler) ListBySeller(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("seller_id"))
	if err != nil {
		h.BadRequest(c, "Invalid seller ID format")
		return
	}

	products, err := h.productService.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, products)
}

// Disable takes a product off the marketplace
func (h *ProductHandler) Disable(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.Disable(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}
