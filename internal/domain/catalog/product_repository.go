package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products in one query
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindBySeller finds all products owned by a seller
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}
