package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/catalog"
	"github.com/pricepilot/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates a product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySKU", ctx, tenantID, "SKU-001").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		service := NewProductService(repo, nil)
		minMargin := 25.0
		inventory := 12
		resp, err := service.Create(ctx, tenantID, CreateProductRequest{
			SKU:              "SKU-001",
			Name:             "Test Product",
			BaseCost:         1000,
			CurrentPrice:     1999,
			MinMarginPercent: &minMargin,
			InventoryLevel:   &inventory,
			DemandElasticity: "1.8",
		})

		require.NoError(t, err)
		assert.Equal(t, "SKU-001", resp.SKU)
		assert.Equal(t, int64(1999), resp.CurrentPrice)
		assert.Equal(t, 25.0, resp.MinMarginPercent)
		assert.Equal(t, 12, resp.InventoryLevel)
		assert.Equal(t, "1.8", resp.DemandElasticity)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate SKU", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySKU", ctx, tenantID, "SKU-001").Return(true, nil)

		service := NewProductService(repo, nil)
		_, err := service.Create(ctx, tenantID, CreateProductRequest{
			SKU:          "SKU-001",
			Name:         "Test Product",
			BaseCost:     1000,
			CurrentPrice: 1999,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("propagates invalid product data", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySKU", ctx, tenantID, "SKU-001").Return(false, nil)

		service := NewProductService(repo, nil)
		_, err := service.Create(ctx, tenantID, CreateProductRequest{
			SKU:          "SKU-001",
			Name:         "Test Product",
			BaseCost:     1000,
			CurrentPrice: 0,
		})

		require.Error(t, err)
	})
}

func TestProductServiceUpdate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	newStoredProduct := func(t *testing.T) *catalog.Product {
		product, err := catalog.NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)
		product.ClearDomainEvents()
		return product
	}

	t.Run("updates price and constraints", func(t *testing.T) {
		product := newStoredProduct(t)
		repo := new(MockProductRepository)
		repo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		repo.On("Save", ctx, product).Return(nil)

		service := NewProductService(repo, nil)
		newPrice := int64(2499)
		maxPrice := int64(5000)
		resp, err := service.Update(ctx, tenantID, product.ID, UpdateProductRequest{
			CurrentPrice: &newPrice,
			MaxPrice:     &maxPrice,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(2499), resp.CurrentPrice)
		require.NotNil(t, resp.MaxPrice)
		assert.Equal(t, int64(5000), *resp.MaxPrice)
		repo.AssertExpectations(t)
	})

	t.Run("not found bubbles up", func(t *testing.T) {
		missing := uuid.New()
		repo := new(MockProductRepository)
		repo.On("FindByIDForTenant", ctx, tenantID, missing).Return(nil, shared.ErrNotFound)

		service := NewProductService(repo, nil)
		_, err := service.Update(ctx, tenantID, missing, UpdateProductRequest{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductServiceList(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("applies default pagination", func(t *testing.T) {
		product, err := catalog.NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)

		repo := new(MockProductRepository)
		repo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20
		})).Return([]catalog.Product{*product}, nil)
		repo.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(1), nil)

		service := NewProductService(repo, nil)
		items, total, err := service.List(ctx, tenantID, ProductListFilter{})

		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, int64(1), total)
	})
}
