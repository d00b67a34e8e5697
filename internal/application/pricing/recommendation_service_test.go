package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/catalog"
	"github.com/pricepilot/backend/internal/domain/market"
	"github.com/pricepilot/backend/internal/domain/pricing"
	"github.com/pricepilot/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
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

// MockCompetitorPriceRepository is a mock implementation of market.CompetitorPriceRepository
type MockCompetitorPriceRepository struct {
	mock.Mock
}

func (m *MockCompetitorPriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*market.CompetitorPrice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*market.CompetitorPrice), args.Error(1)
}

func (m *MockCompetitorPriceRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]market.CompetitorPrice, error) {
	args := m.Called(ctx, tenantID, productID, filter)
	return args.Get(0).([]market.CompetitorPrice), args.Error(1)
}

func (m *MockCompetitorPriceRepository) FindLatestByProduct(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]market.CompetitorPrice, error) {
	args := m.Called(ctx, tenantID, productID, limit)
	return args.Get(0).([]market.CompetitorPrice), args.Error(1)
}

func (m *MockCompetitorPriceRepository) Save(ctx context.Context, price *market.CompetitorPrice) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}

func (m *MockCompetitorPriceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockCompetitorPriceRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockDemandRecordRepository is a mock implementation of market.DemandRecordRepository
type MockDemandRecordRepository struct {
	mock.Mock
}

func (m *MockDemandRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*market.DemandRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*market.DemandRecord), args.Error(1)
}

func (m *MockDemandRecordRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]market.DemandRecord, error) {
	args := m.Called(ctx, tenantID, productID, filter)
	return args.Get(0).([]market.DemandRecord), args.Error(1)
}

func (m *MockDemandRecordRepository) FindRecentByProduct(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]market.DemandRecord, error) {
	args := m.Called(ctx, tenantID, productID, limit)
	return args.Get(0).([]market.DemandRecord), args.Error(1)
}

func (m *MockDemandRecordRepository) Save(ctx context.Context, record *market.DemandRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDemandRecordRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockDemandRecordRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPriceChangeRepository is a mock implementation of pricing.PriceChangeRepository
type MockPriceChangeRepository struct {
	mock.Mock
}

func (m *MockPriceChangeRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PriceChange, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PriceChange), args.Error(1)
}

func (m *MockPriceChangeRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]pricing.PriceChange, error) {
	args := m.Called(ctx, tenantID, productID, filter)
	return args.Get(0).([]pricing.PriceChange), args.Error(1)
}

func (m *MockPriceChangeRepository) Save(ctx context.Context, change *pricing.PriceChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockPriceChangeRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Get(0).(int64), args.Error(1)
}

// fakeCache is an in-process RecommendationCache for tests
type fakeCache struct {
	entries map[uuid.UUID]*pricing.PipelineResult
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[uuid.UUID]*pricing.PipelineResult)}
}

func (c *fakeCache) Get(_ context.Context, _, productID uuid.UUID) (*pricing.PipelineResult, bool, error) {
	result, ok := c.entries[productID]
	return result, ok, nil
}

func (c *fakeCache) Set(_ context.Context, _, productID uuid.UUID, result *pricing.PipelineResult) error {
	c.entries[productID] = result
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, _, productID uuid.UUID) error {
	delete(c.entries, productID)
	return nil
}

func newTestProduct(t *testing.T, tenantID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(tenantID, "SKU-001", "Test Product", 4500, 7999)
	require.NoError(t, err)
	require.NoError(t, product.SetPricingConstraints(20, nil))
	require.NoError(t, product.SetInventoryLevel(40))
	product.ClearDomainEvents()
	return product
}

func TestRecommendationServiceRunPipeline(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("runs the pipeline and caches the result", func(t *testing.T) {
		product := newTestProduct(t, tenantID)

		competitor, err := market.NewCompetitorPrice(tenantID, product.ID, "Acme", 7499, time.Now())
		require.NoError(t, err)

		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		competitorRepo := new(MockCompetitorPriceRepository)
		competitorRepo.On("FindLatestByProduct", ctx, tenantID, product.ID, competitorFetchLimit).
			Return([]market.CompetitorPrice{*competitor}, nil)
		demandRepo := new(MockDemandRecordRepository)
		demandRepo.On("FindRecentByProduct", ctx, tenantID, product.ID, demandFetchLimit).
			Return([]market.DemandRecord{}, nil)

		cache := newFakeCache()
		service := NewRecommendationService(productRepo, competitorRepo, demandRepo, new(MockPriceChangeRepository), cache, nil)

		resp, err := service.RunPipeline(ctx, tenantID, product.ID, false)
		require.NoError(t, err)

		assert.False(t, resp.Cached)
		assert.Equal(t, 1, resp.Result.Stages.Scraper.CompetitorCount)
		assert.Equal(t, int64(7499), resp.Result.Stages.Scraper.LatestCompetitorPrice)
		assert.Equal(t, resp.Result.Stages.Strategy.FinalPrice, resp.Result.Recommendation.RecommendedPrice)
		assert.Len(t, cache.entries, 1)
	})

	t.Run("serves the cached result until refreshed", func(t *testing.T) {
		product := newTestProduct(t, tenantID)

		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		competitorRepo := new(MockCompetitorPriceRepository)
		demandRepo := new(MockDemandRecordRepository)

		cache := newFakeCache()
		cached := pricing.RunPipeline(pricing.ProductSnapshot{
			BaseCost:         product.BaseCost,
			CurrentPrice:     product.CurrentPrice,
			MinMarginPercent: product.MinMarginPercent,
			Inventory:        product.InventoryLevel,
			DemandElasticity: product.ElasticityValue(),
		}, nil, nil)
		require.NoError(t, cache.Set(ctx, tenantID, product.ID, &cached))

		service := NewRecommendationService(productRepo, competitorRepo, demandRepo, new(MockPriceChangeRepository), cache, nil)

		resp, err := service.RunPipeline(ctx, tenantID, product.ID, false)
		require.NoError(t, err)
		assert.True(t, resp.Cached)
		competitorRepo.AssertNotCalled(t, "FindLatestByProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a product with non-positive price", func(t *testing.T) {
		product := newTestProduct(t, tenantID)
		product.CurrentPrice = 0

		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)

		service := NewRecommendationService(productRepo, new(MockCompetitorPriceRepository), new(MockDemandRecordRepository), new(MockPriceChangeRepository), nil, nil)

		_, err := service.RunPipeline(ctx, tenantID, product.ID, false)
		assert.ErrorIs(t, err, shared.ErrInvalidPrice)
	})

	t.Run("missing product surfaces not found", func(t *testing.T) {
		missing := uuid.New()
		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDForTenant", ctx, tenantID, missing).Return(nil, shared.ErrNotFound)

		service := NewRecommendationService(productRepo, new(MockCompetitorPriceRepository), new(MockDemandRecordRepository), new(MockPriceChangeRepository), nil, nil)

		_, err := service.RunPipeline(ctx, tenantID, missing, false)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestRecommendationServiceApply(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("applies the price and records history", func(t *testing.T) {
		product := newTestProduct(t, tenantID)

		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		productRepo.On("Save", ctx, product).Return(nil)

		historyRepo := new(MockPriceChangeRepository)
		var saved *pricing.PriceChange
		historyRepo.On("Save", ctx, mock.AnythingOfType("*pricing.PriceChange")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*pricing.PriceChange)
			}).Return(nil)

		cache := newFakeCache()
		cache.entries[product.ID] = &pricing.PipelineResult{}

		service := NewRecommendationService(productRepo, new(MockCompetitorPriceRepository), new(MockDemandRecordRepository), historyRepo, cache, nil)

		resp, err := service.ApplyRecommendation(ctx, tenantID, product.ID, ApplyRecommendationRequest{
			RecommendedPrice: 8499,
			Reason:           "Undercut competitor price",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(8499), resp.NewPrice)
		assert.Equal(t, int64(8499), product.CurrentPrice)

		require.NotNil(t, saved)
		assert.Equal(t, int64(7999), saved.PreviousPrice)
		assert.Equal(t, int64(8499), saved.NewPrice)
		assert.True(t, saved.Applied)
		assert.Equal(t, "Undercut competitor price", saved.Reason)
		// profitBefore = 3499*50, profitAfter = 3999*50 -> +14%
		assert.Equal(t, 14, saved.ExpectedProfitChange)

		assert.Empty(t, cache.entries, "cache entry must be invalidated")
	})

	t.Run("rejects non-positive recommended price", func(t *testing.T) {
		product := newTestProduct(t, tenantID)

		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)

		service := NewRecommendationService(productRepo, new(MockCompetitorPriceRepository), new(MockDemandRecordRepository), new(MockPriceChangeRepository), nil, nil)

		_, err := service.ApplyRecommendation(ctx, tenantID, product.ID, ApplyRecommendationRequest{RecommendedPrice: 0})
		require.Error(t, err)
	})
}

func TestRecommendationServiceSimulate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("evaluates a candidate price", func(t *testing.T) {
		product := newTestProduct(t, tenantID)

		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		competitorRepo := new(MockCompetitorPriceRepository)
		competitorRepo.On("FindLatestByProduct", ctx, tenantID, product.ID, competitorFetchLimit).
			Return([]market.CompetitorPrice{}, nil)
		demandRepo := new(MockDemandRecordRepository)
		demandRepo.On("FindRecentByProduct", ctx, tenantID, product.ID, demandFetchLimit).
			Return([]market.DemandRecord{}, nil)

		service := NewRecommendationService(productRepo, competitorRepo, demandRepo, new(MockPriceChangeRepository), nil, nil)

		resp, err := service.Simulate(ctx, tenantID, product.ID, SimulateRequest{Price: 8999})
		require.NoError(t, err)

		// No history: baseline 50, elasticity from the product record
		expected := pricing.SimulateScenario(8999, 4500, pricing.DefaultBaselineDemand, 7999, product.ElasticityValue(), 7999, pricing.DefaultCompetitorWeight)
		assert.Equal(t, expected, resp.Scenario)
	})
}

func TestRecommendationServiceHistory(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("lists pricing history", func(t *testing.T) {
		product := newTestProduct(t, tenantID)
		change, err := pricing.NewPriceChange(tenantID, product.ID, 7999, 8499, 8499, 14, "Undercut competitor price", true)
		require.NoError(t, err)

		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		historyRepo := new(MockPriceChangeRepository)
		historyRepo.On("FindByProduct", ctx, tenantID, product.ID, mock.Anything).
			Return([]pricing.PriceChange{*change}, nil)
		historyRepo.On("CountByProduct", ctx, tenantID, product.ID).Return(int64(1), nil)

		service := NewRecommendationService(productRepo, new(MockCompetitorPriceRepository), new(MockDemandRecordRepository), historyRepo, nil, nil)

		items, total, err := service.History(ctx, tenantID, product.ID, HistoryFilter{})
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, int64(8499), items[0].NewPrice)
		assert.True(t, items[0].Applied)
	})
}
