package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/catalog"
	"github.com/pricepilot/backend/internal/domain/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthServiceScoreAll(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("scores every active product", func(t *testing.T) {
		healthy, err := catalog.NewProduct(tenantID, "SKU-OK", "Healthy Product", 1000, 1500)
		require.NoError(t, err)
		thin, err := catalog.NewProduct(tenantID, "SKU-THIN", "Thin Margin", 1000, 1050)
		require.NoError(t, err)

		competitor, err := market.NewCompetitorPrice(tenantID, healthy.ID, "Acme", 1500, time.Now())
		require.NoError(t, err)

		productRepo := new(MockProductRepository)
		productRepo.On("FindActive", ctx, tenantID, mock.Anything).
			Return([]catalog.Product{*healthy, *thin}, nil)

		competitorRepo := new(MockCompetitorPriceRepository)
		competitorRepo.On("FindLatestByProduct", ctx, tenantID, healthy.ID, competitorFetchLimit).
			Return([]market.CompetitorPrice{*competitor}, nil)
		competitorRepo.On("FindLatestByProduct", ctx, tenantID, thin.ID, competitorFetchLimit).
			Return([]market.CompetitorPrice{}, nil)

		demandRepo := new(MockDemandRecordRepository)
		demandRepo.On("CountByProduct", ctx, tenantID, healthy.ID).Return(int64(10), nil)
		demandRepo.On("CountByProduct", ctx, tenantID, thin.ID).Return(int64(0), nil)

		service := NewHealthService(productRepo, competitorRepo, demandRepo)
		reports, err := service.ScoreAll(ctx, tenantID)
		require.NoError(t, err)
		require.Len(t, reports, 2)

		assert.Equal(t, "SKU-OK", reports[0].SKU)
		assert.Equal(t, 100, reports[0].Score)
		assert.Equal(t, "healthy", reports[0].Status)

		// Margin below min (-35), no competitors (-15), no demand (-10)
		assert.Equal(t, "SKU-THIN", reports[1].SKU)
		assert.Equal(t, 40, reports[1].Score)
		assert.Equal(t, "critical", reports[1].Status)
		assert.Contains(t, reports[1].Issues, "Margin below minimum")
		assert.Contains(t, reports[1].Issues, "No competitor data")
	})
}

func TestHealthServiceScoreProduct(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("scores a single product", func(t *testing.T) {
		product, err := catalog.NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1500)
		require.NoError(t, err)
		require.NoError(t, product.SetInventoryLevel(3))

		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		competitorRepo := new(MockCompetitorPriceRepository)
		competitorRepo.On("FindLatestByProduct", ctx, tenantID, product.ID, competitorFetchLimit).
			Return([]market.CompetitorPrice{}, nil)
		demandRepo := new(MockDemandRecordRepository)
		demandRepo.On("CountByProduct", ctx, tenantID, product.ID).Return(int64(5), nil)

		service := NewHealthService(productRepo, competitorRepo, demandRepo)
		report, err := service.ScoreProduct(ctx, tenantID, product.ID)
		require.NoError(t, err)

		// No competitors (-15), low inventory (-5)
		assert.Equal(t, 80, report.Score)
		assert.Equal(t, "healthy", report.Status)
		assert.Contains(t, report.Issues, "Low inventory")
	})
}
