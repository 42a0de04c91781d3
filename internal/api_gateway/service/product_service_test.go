package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bmii/farmer-ledger/internal/domain/catalog"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CreateIfAbsent(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) IncreaseStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context) ([]*catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) WithTx(tx pgx.Tx) catalog.Repository {
	args := m.Called(tx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(catalog.Repository)
}

func TestProductServiceImpl_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo)

		mockRepo.On("FindByName", ctx, "Milho").Return(nil, nil).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil).Once()

		p, err := service.CreateProduct(ctx, "Milho", "Grão", 20000, "https://cdn.bmii.ao/milho.jpg")

		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, "Milho", p.Name)
		assert.Equal(t, "Grão", p.Category)
		assert.Equal(t, int64(20000), p.ReferencePrice)
		assert.Equal(t, "https://cdn.bmii.ao/milho.jpg", p.ImageURL)
		assert.NotEqual(t, uuid.Nil, p.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DefaultCategory", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo)

		mockRepo.On("FindByName", ctx, "Feijão").Return(nil, nil).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil).Once()

		p, err := service.CreateProduct(ctx, "Feijão", "", 30000, "")

		assert.NoError(t, err)
		assert.Equal(t, catalog.DefaultCategory, p.Category)
		mockRepo.AssertExpectations(t)
	})

	t.Run("InvalidProductData", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo)

		mockRepo.On("FindByName", ctx, "").Return(nil, nil).Once()

		_, err := service.CreateProduct(ctx, "", "Grão", 20000, "")
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create", ctx, mock.AnythingOfType("*catalog.Product"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo)

		existing := &catalog.Product{
			ID:             uuid.New(),
			Name:           "Milho",
			Category:       "Grão",
			ReferencePrice: 18000,
			CreatedAt:      time.Now(),
		}
		mockRepo.On("FindByName", ctx, "Milho").Return(existing, nil).Once()

		p, err := service.CreateProduct(ctx, "Milho", "Grão", 20000, "")

		assert.Error(t, err)
		assert.Nil(t, p)
		var duplicateErr catalog.ErrDuplicateProductName
		assert.ErrorAs(t, err, &duplicateErr)
		assert.Equal(t, "Milho", duplicateErr.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RepositoryCreateError", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo)
		repoError := errors.New("database error")

		mockRepo.On("FindByName", ctx, "Milho").Return(nil, nil).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*catalog.Product")).Return(repoError).Once()

		p, err := service.CreateProduct(ctx, "Milho", "Grão", 20000, "")

		assert.Error(t, err)
		assert.Nil(t, p)
		assert.Equal(t, repoError, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestProductServiceImpl_GetProductByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo)
		productID := uuid.New()
		expected := &catalog.Product{ID: productID, Name: "Milho", Category: "Grão", ReferencePrice: 20000}

		mockRepo.On("GetByID", ctx, productID).Return(expected, nil).Once()

		p, err := service.GetProductByID(ctx, productID)

		assert.NoError(t, err)
		assert.Equal(t, expected, p)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo)
		productID := uuid.New()

		mockRepo.On("GetByID", ctx, productID).Return(nil, catalog.ErrProductNotFound{ProductID: productID}).Once()

		p, err := service.GetProductByID(ctx, productID)

		assert.Error(t, err)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound{})
		mockRepo.AssertExpectations(t)
	})
}

func TestProductServiceImpl_UpdateProduct(t *testing.T) {
	ctx := context.Background()

	newPrice := int64(25000)
	inactive := catalog.StatusInactive

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo)
		productID := uuid.New()
		existing := &catalog.Product{ID: productID, Name: "Milho", Category: "Grão", ReferencePrice: 20000, Status: catalog.StatusActive}

		mockRepo.On("GetByID", ctx, productID).Return(existing, nil).Once()
		mockRepo.On("Update", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.ID == productID && p.ReferencePrice == 25000 && p.Status == catalog.StatusInactive
		})).Return(nil).Once()

		p, err := service.UpdateProduct(ctx, productID, catalog.ProductUpdate{
			ReferencePrice: &newPrice,
			Status:         &inactive,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(25000), p.ReferencePrice)
		assert.Equal(t, catalog.StatusInactive, p.Status)
		assert.Equal(t, "Milho", p.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo)
		productID := uuid.New()

		mockRepo.On("GetByID", ctx, productID).Return(nil, catalog.ErrProductNotFound{ProductID: productID}).Once()

		p, err := service.UpdateProduct(ctx, productID, catalog.ProductUpdate{ReferencePrice: &newPrice})

		assert.Error(t, err)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound{})
		mockRepo.AssertNotCalled(t, "Update", ctx, mock.AnythingOfType("*catalog.Product"))
	})

	t.Run("InvalidPrice", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo)
		productID := uuid.New()
		existing := &catalog.Product{ID: productID, Name: "Milho", ReferencePrice: 20000, Status: catalog.StatusActive}
		zeroPrice := int64(0)

		mockRepo.On("GetByID", ctx, productID).Return(existing, nil).Once()

		p, err := service.UpdateProduct(ctx, productID, catalog.ProductUpdate{ReferencePrice: &zeroPrice})

		assert.Error(t, err)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, catalog.ErrInvalidPrice)
		mockRepo.AssertNotCalled(t, "Update", ctx, mock.AnythingOfType("*catalog.Product"))
	})

	t.Run("RepositoryUpdateError", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo)
		productID := uuid.New()
		existing := &catalog.Product{ID: productID, Name: "Milho", ReferencePrice: 20000, Status: catalog.StatusActive}
		repoError := errors.New("database error")

		mockRepo.On("GetByID", ctx, productID).Return(existing, nil).Once()
		mockRepo.On("Update", ctx, mock.AnythingOfType("*catalog.Product")).Return(repoError).Once()

		p, err := service.UpdateProduct(ctx, productID, catalog.ProductUpdate{ReferencePrice: &newPrice})

		assert.Error(t, err)
		assert.Nil(t, p)
		assert.Equal(t, repoError, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestProductServiceImpl_ListProducts(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)
	expected := []*catalog.Product{
		{ID: uuid.New(), Name: "Milho"},
		{ID: uuid.New(), Name: "Feijão"},
	}

	mockRepo.On("List", ctx).Return(expected, nil).Once()

	products, err := service.ListProducts(ctx)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	mockRepo.AssertExpectations(t)
}

var _ catalog.Repository = (*MockProductRepository)(nil)
