package pricing

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/catalog"
	"github.com/pricepilot/backend/internal/domain/market"
	"github.com/pricepilot/backend/internal/domain/pricing"
	"github.com/pricepilot/backend/internal/domain/shared"
)

// History windows fed into the pipeline. The forecast only ever looks at
// the 30 most recent demand records, so fetching more is wasted I/O.
const (
	competitorFetchLimit = 10
	demandFetchLimit     = 30
)

// RecommendationCache caches pipeline results per product so repeated reads
// between data changes skip the grid search.
type RecommendationCache interface {
	// Get returns the cached result, or false when absent
	Get(ctx context.Context, tenantID, productID uuid.UUID) (*pricing.PipelineResult, bool, error)
	// Set stores a result
	Set(ctx context.Context, tenantID, productID uuid.UUID, result *pricing.PipelineResult) error
	// Invalidate drops a cached result
	Invalidate(ctx context.Context, tenantID, productID uuid.UUID) error
}

// RecommendationService runs the pricing pipeline and manages pricing history
type RecommendationService struct {
	productRepo    catalog.ProductRepository
	competitorRepo market.CompetitorPriceRepository
	demandRepo     market.DemandRecordRepository
	historyRepo    pricing.PriceChangeRepository
	cache          RecommendationCache
	eventPublisher shared.EventPublisher
}

// NewRecommendationService creates a new RecommendationService
func NewRecommendationService(
	productRepo catalog.ProductRepository,
	competitorRepo market.CompetitorPriceRepository,
	demandRepo market.DemandRecordRepository,
	historyRepo pricing.PriceChangeRepository,
	cache RecommendationCache,
	eventPublisher shared.EventPublisher,
) *RecommendationService {
	return &RecommendationService{
		productRepo:    productRepo,
		competitorRepo: competitorRepo,
		demandRepo:     demandRepo,
		historyRepo:    historyRepo,
		cache:          cache,
		eventPublisher: eventPublisher,
	}
}

// RunPipeline produces a pricing recommendation for a product.
// With refresh false a cached result is returned when available.
func (s *RecommendationService) RunPipeline(ctx context.Context, tenantID, productID uuid.UUID, refresh bool) (*PipelineResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product.CurrentPrice <= 0 {
		return nil, shared.ErrInvalidPrice
	}

	if !refresh && s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, tenantID, productID); err == nil && ok {
			return &PipelineResponse{
				ProductID:   productID,
				Result:      *cached,
				Cached:      true,
				GeneratedAt: time.Now(),
			}, nil
		}
	}

	snapshot, competitors, demand, err := s.loadPipelineInputs(ctx, tenantID, product)
	if err != nil {
		return nil, err
	}

	result := pricing.RunPipeline(snapshot, competitors, demand)

	if s.cache != nil {
		_ = s.cache.Set(ctx, tenantID, productID, &result)
	}

	return &PipelineResponse{
		ProductID:   productID,
		Result:      result,
		GeneratedAt: time.Now(),
	}, nil
}

// ApplyRecommendation moves the product to the recommended price and records
// the decision in pricing history.
//
// The write is not transactionally isolated against concurrent appliers; the
// last writer wins on currentPrice.
func (s *RecommendationService) ApplyRecommendation(ctx context.Context, tenantID, productID uuid.UUID, req ApplyRecommendationRequest) (*ApplyRecommendationResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	previousPrice := product.CurrentPrice
	if err := product.ChangePrice(req.RecommendedPrice, req.RecommendedPrice, req.Reason); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	// Coarse profit estimate at the default baseline demand
	profitBefore := (previousPrice - product.BaseCost) * pricing.DefaultBaselineDemand
	profitAfter := (req.RecommendedPrice - product.BaseCost) * pricing.DefaultBaselineDemand
	profitChange := 0
	if profitBefore > 0 {
		profitChange = int(math.Round(float64(profitAfter-profitBefore) / float64(profitBefore) * 100))
	}

	change, err := pricing.NewPriceChange(tenantID, productID, previousPrice, req.RecommendedPrice, req.RecommendedPrice, profitChange, req.Reason, true)
	if err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(ctx, change); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		events := product.GetDomainEvents()
		if len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			product.ClearDomainEvents()
		}
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, tenantID, productID)
	}

	return &ApplyRecommendationResponse{
		ProductID: productID,
		NewPrice:  req.RecommendedPrice,
		Message:   "Price updated successfully",
	}, nil
}

// Simulate evaluates a hypothetical price against the product's current
// demand picture without touching any state.
func (s *RecommendationService) Simulate(ctx context.Context, tenantID, productID uuid.UUID, req SimulateRequest) (*SimulateResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product.CurrentPrice <= 0 {
		return nil, shared.ErrInvalidPrice
	}

	snapshot, competitors, demand, err := s.loadPipelineInputs(ctx, tenantID, product)
	if err != nil {
		return nil, err
	}

	// Derive forecast inputs exactly as a pipeline run would see them
	stages := pricing.RunPipeline(snapshot, competitors, demand).Stages

	scenario := pricing.SimulateScenario(
		req.Price,
		product.BaseCost,
		stages.Forecast.BaselineDemand,
		product.CurrentPrice,
		stages.Forecast.Elasticity,
		stages.Scraper.LatestCompetitorPrice,
		pricing.DefaultCompetitorWeight,
	)

	return &SimulateResponse{
		ProductID: productID,
		Price:     req.Price,
		Scenario:  scenario,
	}, nil
}

// History lists pricing history for a product, newest first
func (s *RecommendationService) History(ctx context.Context, tenantID, productID uuid.UUID, filter HistoryFilter) ([]PriceChangeResponse, int64, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	changes, err := s.historyRepo.FindByProduct(ctx, tenantID, productID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.historyRepo.CountByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, 0, err
	}

	return ToPriceChangeResponses(changes), total, nil
}

// loadPipelineInputs assembles the snapshot and history windows for one run
func (s *RecommendationService) loadPipelineInputs(ctx context.Context, tenantID uuid.UUID, product *catalog.Product) (pricing.ProductSnapshot, []pricing.CompetitorRecord, []pricing.DemandObservation, error) {
	competitorPrices, err := s.competitorRepo.FindLatestByProduct(ctx, tenantID, product.ID, competitorFetchLimit)
	if err != nil {
		return pricing.ProductSnapshot{}, nil, nil, err
	}
	demandRecords, err := s.demandRepo.FindRecentByProduct(ctx, tenantID, product.ID, demandFetchLimit)
	if err != nil {
		return pricing.ProductSnapshot{}, nil, nil, err
	}

	snapshot := pricing.ProductSnapshot{
		BaseCost:         product.BaseCost,
		CurrentPrice:     product.CurrentPrice,
		MinMarginPercent: product.MinMarginPercent,
		MaxPrice:         product.MaxPrice,
		Inventory:        product.InventoryLevel,
		DemandElasticity: product.ElasticityValue(),
	}

	competitors := make([]pricing.CompetitorRecord, len(competitorPrices))
	for i, c := range competitorPrices {
		competitors[i] = pricing.CompetitorRecord{
			CompetitorName: c.CompetitorName,
			Price:          c.Price,
			RecordedAt:     c.RecordedAt,
		}
	}

	demand := make([]pricing.DemandObservation, len(demandRecords))
	for i, d := range demandRecords {
		demand[i] = pricing.DemandObservation{
			Price:      d.Price,
			Quantity:   d.QuantitySold,
			RecordedAt: d.RecordedAt,
		}
	}

	return snapshot, competitors, demand, nil
}
