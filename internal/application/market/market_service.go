package market

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/catalog"
	"github.com/pricepilot/backend/internal/domain/market"
	"github.com/pricepilot/backend/internal/domain/shared"
)

// MarketService handles competitor price and demand history operations
type MarketService struct {
	productRepo    catalog.ProductRepository
	competitorRepo market.CompetitorPriceRepository
	demandRepo     market.DemandRecordRepository
}

// NewMarketService creates a new MarketService
func NewMarketService(
	productRepo catalog.ProductRepository,
	competitorRepo market.CompetitorPriceRepository,
	demandRepo market.DemandRecordRepository,
) *MarketService {
	return &MarketService{
		productRepo:    productRepo,
		competitorRepo: competitorRepo,
		demandRepo:     demandRepo,
	}
}

// RecordCompetitorPrice stores a competitor price observation for a product
func (s *MarketService) RecordCompetitorPrice(ctx context.Context, tenantID, productID uuid.UUID, req RecordCompetitorPriceRequest) (*CompetitorPriceResponse, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return nil, err
	}

	recordedAt := time.Time{}
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	observation, err := market.NewCompetitorPrice(tenantID, productID, req.CompetitorName, req.Price, recordedAt)
	if err != nil {
		return nil, err
	}

	if req.URL != "" {
		observation.SetURL(req.URL)
	}
	if req.InStock != nil {
		observation.SetInStock(*req.InStock)
	}

	if err := s.competitorRepo.Save(ctx, observation); err != nil {
		return nil, err
	}

	response := ToCompetitorPriceResponse(observation)
	return &response, nil
}

// ListCompetitorPrices lists competitor observations for a product, newest first
func (s *MarketService) ListCompetitorPrices(ctx context.Context, tenantID, productID uuid.UUID, filter ListFilter) ([]CompetitorPriceResponse, int64, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return nil, 0, err
	}

	domainFilter := listFilterToDomain(filter)
	prices, err := s.competitorRepo.FindByProduct(ctx, tenantID, productID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.competitorRepo.CountByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, 0, err
	}

	return ToCompetitorPriceResponses(prices), total, nil
}

// DeleteCompetitorPrice removes a competitor observation
func (s *MarketService) DeleteCompetitorPrice(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.competitorRepo.DeleteForTenant(ctx, tenantID, id)
}

// RecordDemand stores a demand history entry for a product
func (s *MarketService) RecordDemand(ctx context.Context, tenantID, productID uuid.UUID, req RecordDemandRequest) (*DemandRecordResponse, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return nil, err
	}

	recordedAt := time.Time{}
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}
	seasonality := 1.0
	if req.Seasonality != nil {
		seasonality = *req.Seasonality
	}

	record, err := market.NewDemandRecord(tenantID, productID, req.Price, req.QuantitySold, seasonality, recordedAt)
	if err != nil {
		return nil, err
	}

	if err := s.demandRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToDemandRecordResponse(record)
	return &response, nil
}

// ListDemandRecords lists demand history for a product, newest first
func (s *MarketService) ListDemandRecords(ctx context.Context, tenantID, productID uuid.UUID, filter ListFilter) ([]DemandRecordResponse, int64, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return nil, 0, err
	}

	domainFilter := listFilterToDomain(filter)
	records, err := s.demandRepo.FindByProduct(ctx, tenantID, productID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.demandRepo.CountByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, 0, err
	}

	return ToDemandRecordResponses(records), total, nil
}

// DeleteDemandRecord removes a demand history entry
func (s *MarketService) DeleteDemandRecord(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.demandRepo.DeleteForTenant(ctx, tenantID, id)
}

func listFilterToDomain(filter ListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "recorded_at"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	return domainFilter
}
