package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/bmii/farmer-ledger/internal/domain/catalog"
)

// ProductServiceImpl implements the ProductService interface
type ProductServiceImpl struct {
	productRepo catalog.Repository
}

// NewProductService creates a new product catalog service
func NewProductService(productRepo catalog.Repository) ProductService {
	return &ProductServiceImpl{
		productRepo: productRepo,
	}
}

// CreateProduct registers a new catalog entry, checking for duplicate names
func (s *ProductServiceImpl) CreateProduct(ctx context.Context, name, category string, referencePrice int64, imageURL string) (*catalog.Product, error) {
	existingProduct, err := s.productRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existingProduct != nil {
		return nil, catalog.ErrDuplicateProductName{Name: name}
	}

	p, err := catalog.NewProduct(name, category, referencePrice)
	if err != nil {
		return nil, err
	}
	p.ImageURL = imageURL

	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// GetProductByID retrieves a catalog entry by ID, returns ErrProductNotFound if not found
func (s *ProductServiceImpl) GetProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// UpdateProduct applies a partial update to a catalog entry
func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, update catalog.ProductUpdate) (*catalog.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := update.Apply(p); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// ListProducts retrieves all catalog entries
func (s *ProductServiceImpl) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	return s.productRepo.List(ctx)
}
