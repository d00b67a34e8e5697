package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/catalog"
	"github.com/pricepilot/backend/internal/domain/market"
	"github.com/pricepilot/backend/internal/domain/pricing"
	"github.com/pricepilot/backend/internal/domain/shared"
)

// healthProductPageSize bounds how many products one health sweep scores
const healthProductPageSize = 200

// HealthService scores pricing health across a tenant's catalog
type HealthService struct {
	productRepo    catalog.ProductRepository
	competitorRepo market.CompetitorPriceRepository
	demandRepo     market.DemandRecordRepository
}

// NewHealthService creates a new HealthService
func NewHealthService(
	productRepo catalog.ProductRepository,
	competitorRepo market.CompetitorPriceRepository,
	demandRepo market.DemandRecordRepository,
) *HealthService {
	return &HealthService{
		productRepo:    productRepo,
		competitorRepo: competitorRepo,
		demandRepo:     demandRepo,
	}
}

// ScoreAll scores every active product for a tenant
func (s *HealthService) ScoreAll(ctx context.Context, tenantID uuid.UUID) ([]ProductHealthResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = healthProductPageSize

	products, err := s.productRepo.FindActive(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	reports := make([]ProductHealthResponse, 0, len(products))
	for i := range products {
		report, err := s.scoreProduct(ctx, tenantID, &products[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	return reports, nil
}

// ScoreProduct scores a single product
func (s *HealthService) ScoreProduct(ctx context.Context, tenantID, productID uuid.UUID) (*ProductHealthResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return s.scoreProduct(ctx, tenantID, product)
}

func (s *HealthService) scoreProduct(ctx context.Context, tenantID uuid.UUID, product *catalog.Product) (*ProductHealthResponse, error) {
	competitorPrices, err := s.competitorRepo.FindLatestByProduct(ctx, tenantID, product.ID, competitorFetchLimit)
	if err != nil {
		return nil, err
	}
	demandCount, err := s.demandRepo.CountByProduct(ctx, tenantID, product.ID)
	if err != nil {
		return nil, err
	}

	observations := make([]pricing.CompetitorObservation, len(competitorPrices))
	for i, c := range competitorPrices {
		observations[i] = pricing.CompetitorObservation{
			CompetitorName: c.CompetitorName,
			Price:          c.Price,
		}
	}

	snapshot := pricing.ProductSnapshot{
		BaseCost:         product.BaseCost,
		CurrentPrice:     product.CurrentPrice,
		MinMarginPercent: product.MinMarginPercent,
		MaxPrice:         product.MaxPrice,
		Inventory:        product.InventoryLevel,
		DemandElasticity: product.ElasticityValue(),
	}

	report := pricing.ScoreHealth(snapshot, observations, int(demandCount))

	return &ProductHealthResponse{
		ProductID:          product.ID,
		SKU:                product.SKU,
		Name:               product.Name,
		CurrentPrice:       product.CurrentPrice,
		Score:              report.Score,
		Status:             string(report.Status),
		MarginPct:          report.MarginPct,
		CompetitorCount:    report.CompetitorCount,
		AvgCompetitorPrice: report.AvgCompetitorPrice,
		Issues:             report.Issues,
	}, nil
}
