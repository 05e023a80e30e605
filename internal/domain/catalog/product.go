package catalog

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle status of a product listing
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDisabled ProductStatus = "disabled"
)

// Product is a seller's listing. SellerID is the owner used by the
// messaging guard to decide who may be messaged about an order.
type Product struct {
	shared.BaseAggregateRoot
	SellerID    uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Status      ProductStatus
}

// NewProduct creates an active product listing for a seller
func NewProduct(sellerID uuid.UUID, name, description string, price decimal.Decimal) (*Product, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		Name:              name,
		Description:       description,
		Price:             price,
		Status:            ProductStatusActive,
	}, nil
}

// IsActive reports whether the listing can currently be purchased
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// Disable takes the listing off the marketplace
func (p *Product) Disable() {
	if p.Status == ProductStatusDisabled {
		return
	}
	p.Status = ProductStatusDisabled
	p.Touch()
}
