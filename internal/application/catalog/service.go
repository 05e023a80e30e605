package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/catalog"
)

// Service handles product catalog operations
type Service struct {
	products catalog.ProductRepository
}

// NewService creates a new catalog Service
func NewService(products catalog.ProductRepository) *Service {
	return &Service{products: products}
}

// Create lists a new product for a seller
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.SellerID, req.Name, req.Description, req.Price)
	if err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	return toProductResponse(product), nil
}

// Get returns one product
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// ListBySeller returns all products owned by a seller
func (s *Service) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.products.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = *toProductResponse(&products[i])
	}
	return responses, nil
}

// Disable takes a product off the marketplace
func (s *Service) Disable(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Disable()

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	return toProductResponse(product), nil
}
