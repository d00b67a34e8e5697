package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	catalogapp "github.com/pricepilot/backend/internal/application/catalog"
	marketapp "github.com/pricepilot/backend/internal/application/market"
	pricingapp "github.com/pricepilot/backend/internal/application/pricing"
	"github.com/pricepilot/backend/internal/domain/catalog"
	"github.com/pricepilot/backend/internal/domain/market"
	"github.com/pricepilot/backend/internal/domain/pricing"
	"github.com/pricepilot/backend/internal/infrastructure/cache"
	"github.com/pricepilot/backend/internal/infrastructure/persistence"
	"github.com/pricepilot/backend/internal/interfaces/http/dto"
	"github.com/pricepilot/backend/internal/interfaces/http/middleware"
)

// testEnv wires handlers against an in-memory database for API-level tests
type testEnv struct {
	engine   *gin.Engine
	tenantID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&market.CompetitorPrice{},
		&market.DemandRecord{},
		&pricing.PriceChange{},
	))

	productRepo := persistence.NewGormProductRepository(db)
	competitorRepo := persistence.NewGormCompetitorPriceRepository(db)
	demandRepo := persistence.NewGormDemandRecordRepository(db)
	historyRepo := persistence.NewGormPriceChangeRepository(db)

	recommendationCache := cache.NewInMemoryRecommendationCache()
	t.Cleanup(func() { _ = recommendationCache.Close() })

	productService := catalogapp.NewProductService(productRepo, nil)
	marketService := marketapp.NewMarketService(productRepo, competitorRepo, demandRepo)
	recommendationService := pricingapp.NewRecommendationService(
		productRepo, competitorRepo, demandRepo, historyRepo, recommendationCache, nil,
	)
	healthService := pricingapp.NewHealthService(productRepo, competitorRepo, demandRepo)

	productHandler := NewProductHandler(productService)
	marketHandler := NewMarketHandler(marketService)
	pricingHandler := NewPricingHandler(recommendationService, healthService)

	engine := gin.New()
	engine.Use(middleware.TenantMiddleware())

	api := engine.Group("/api/v1")
	api.POST("/catalog/products", productHandler.Create)
	api.GET("/catalog/products", productHandler.List)
	api.GET("/catalog/products/:id", productHandler.GetByID)
	api.DELETE("/catalog/products/:id", productHandler.Delete)
	api.POST("/market/products/:id/competitor-prices", marketHandler.RecordCompetitorPrice)
	api.GET("/market/products/:id/competitor-prices", marketHandler.ListCompetitorPrices)
	api.DELETE("/market/competitor-prices/:id", marketHandler.DeleteCompetitorPrice)
	api.POST("/market/products/:id/demand", marketHandler.RecordDemand)
	api.GET("/market/products/:id/demand", marketHandler.ListDemandRecords)
	api.POST("/pricing/products/:id/recommendation", pricingHandler.RunPipeline)
	api.POST("/pricing/products/:id/apply", pricingHandler.ApplyRecommendation)
	api.POST("/pricing/products/:id/simulate", pricingHandler.Simulate)
	api.GET("/pricing/products/:id/history", pricingHandler.History)
	api.GET("/pricing/products/:id/health", pricingHandler.ProductHealth)
	api.GET("/pricing/health", pricingHandler.CatalogHealth)

	return &testEnv{
		engine:   engine,
		tenantID: uuid.New(),
	}
}

func (env *testEnv) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", env.tenantID.String())

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// createProduct inserts a product through the API and returns its ID
func (env *testEnv) createProduct(t *testing.T) uuid.UUID {
	t.Helper()

	w := env.request(t, http.MethodPost, "/api/v1/catalog/products", map[string]any{
		"sku":           "WIDGET-1",
		"name":          "Widget",
		"base_cost":     4500,
		"current_price": 7999,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var product catalogapp.ProductResponse
	require.NoError(t, json.Unmarshal(data, &product))
	return product.ID
}

// seedHistory posts demand and competitor observations for the product
func (env *testEnv) seedHistory(t *testing.T, productID uuid.UUID) {
	t.Helper()

	base := time.Now().Add(-10 * 24 * time.Hour)
	for i := 0; i < 8; i++ {
		w := env.request(t, http.MethodPost,
			fmt.Sprintf("/api/v1/market/products/%s/demand", productID),
			map[string]any{
				"price":         7999,
				"quantity_sold": 20 + i,
				"recorded_at":   base.Add(time.Duration(i) * 24 * time.Hour).Format(time.RFC3339),
			})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/market/products/%s/competitor-prices", productID),
		map[string]any{
			"competitor_name": "Acme",
			"price":           7499,
		})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestTenantMiddlewareRequired(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeTenantRequired, resp.Error.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	req.Header.Set("X-Tenant-ID", "not-a-uuid")
	w = httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp = decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeTenantInvalid, resp.Error.Code)
}

func TestProductLifecycle(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createProduct(t)

	w := env.request(t, http.MethodGet, "/api/v1/catalog/products/"+productID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	// Duplicate SKU is rejected
	w = env.request(t, http.MethodPost, "/api/v1/catalog/products", map[string]any{
		"sku":           "widget-1",
		"name":          "Widget Clone",
		"base_cost":     4500,
		"current_price": 7999,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.request(t, http.MethodDelete, "/api/v1/catalog/products/"+productID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/catalog/products/"+productID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunPipelineAndCache(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createProduct(t)
	env.seedHistory(t, productID)

	w := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/pricing/products/%s/recommendation", productID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var first pricingapp.PipelineResponse
	require.NoError(t, json.Unmarshal(data, &first))
	assert.False(t, first.Cached)
	assert.Equal(t, int64(7999), first.Result.Recommendation.CurrentPrice)
	assert.Greater(t, first.Result.Recommendation.RecommendedPrice, int64(0))
	assert.NotEmpty(t, first.Result.Recommendation.Reason)

	// Second run hits the cache
	w = env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/pricing/products/%s/recommendation", productID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp = decodeResponse(t, w)
	data, err = json.Marshal(resp.Data)
	require.NoError(t, err)

	var second pricingapp.PipelineResponse
	require.NoError(t, json.Unmarshal(data, &second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Result.Recommendation.RecommendedPrice, second.Result.Recommendation.RecommendedPrice)

	// refresh=true bypasses the cache
	w = env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/pricing/products/%s/recommendation?refresh=true", productID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp = decodeResponse(t, w)
	data, err = json.Marshal(resp.Data)
	require.NoError(t, err)

	var third pricingapp.PipelineResponse
	require.NoError(t, json.Unmarshal(data, &third))
	assert.False(t, third.Cached)
}

func TestApplyRecommendationWritesHistory(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createProduct(t)
	env.seedHistory(t, productID)

	w := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/pricing/products/%s/apply", productID),
		map[string]any{
			"recommended_price": 8499,
			"reason":            "Optimization recommended",
		})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Product carries the new price
	w = env.request(t, http.MethodGet, "/api/v1/catalog/products/"+productID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var product catalogapp.ProductResponse
	require.NoError(t, json.Unmarshal(data, &product))
	assert.Equal(t, int64(8499), product.CurrentPrice)

	// History records the change
	w = env.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/pricing/products/%s/history", productID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp = decodeResponse(t, w)
	data, err = json.Marshal(resp.Data)
	require.NoError(t, err)

	var changes []pricingapp.PriceChangeResponse
	require.NoError(t, json.Unmarshal(data, &changes))
	require.Len(t, changes, 1)
	assert.Equal(t, int64(7999), changes[0].PreviousPrice)
	assert.Equal(t, int64(8499), changes[0].NewPrice)
	assert.True(t, changes[0].Applied)
}

func TestMarketHistoryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createProduct(t)
	env.seedHistory(t, productID)

	w := env.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/market/products/%s/demand", productID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(8), resp.Meta.Total)

	w = env.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/market/products/%s/competitor-prices", productID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp = decodeResponse(t, w)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var prices []marketapp.CompetitorPriceResponse
	require.NoError(t, json.Unmarshal(data, &prices))
	require.Len(t, prices, 1)
	assert.Equal(t, "Acme", prices[0].CompetitorName)

	w = env.request(t, http.MethodDelete,
		"/api/v1/market/competitor-prices/"+prices[0].ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/market/products/%s/competitor-prices", productID), nil)
	resp = decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(0), resp.Meta.Total)
}

func TestSimulateScenario(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createProduct(t)
	env.seedHistory(t, productID)

	w := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/pricing/products/%s/simulate", productID),
		map[string]any{"price": 8999})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var simulation pricingapp.SimulateResponse
	require.NoError(t, json.Unmarshal(data, &simulation))
	assert.Equal(t, int64(8999), simulation.Price)
	assert.Greater(t, simulation.Scenario.Demand, 0)
}

func TestProductHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createProduct(t)
	env.seedHistory(t, productID)

	w := env.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/pricing/products/%s/health", productID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var report pricingapp.ProductHealthResponse
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, productID, report.ProductID)
	assert.Positive(t, report.Score)
	assert.NotEmpty(t, report.Status)

	w = env.request(t, http.MethodGet, "/api/v1/pricing/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp = decodeResponse(t, w)
	data, err = json.Marshal(resp.Data)
	require.NoError(t, err)

	var reports []pricingapp.ProductHealthResponse
	require.NoError(t, json.Unmarshal(data, &reports))
	require.Len(t, reports, 1)
}
