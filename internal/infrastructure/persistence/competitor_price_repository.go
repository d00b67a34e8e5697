package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/market"
	"github.com/pricepilot/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCompetitorPriceRepository implements CompetitorPriceRepository using GORM
type GormCompetitorPriceRepository struct {
	db *gorm.DB
}

// NewGormCompetitorPriceRepository creates a new GormCompetitorPriceRepository
func NewGormCompetitorPriceRepository(db *gorm.DB) *GormCompetitorPriceRepository {
	return &GormCompetitorPriceRepository{db: db}
}

// FindByID finds an observation by its ID
func (r *GormCompetitorPriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*market.CompetitorPrice, error) {
	var price market.CompetitorPrice
	if err := r.db.WithContext(ctx).First(&price, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &price, nil
}

// FindByProduct finds observations for a product, most recent first
func (r *GormCompetitorPriceRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]market.CompetitorPrice, error) {
	var prices []market.CompetitorPrice
	query := r.db.WithContext(ctx).Model(&market.CompetitorPrice{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)

	if filter.Search != "" {
		query = query.Where("competitor_name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CompetitorPriceSortFields, "recorded_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.Order(orderBy + " " + orderDir).Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// FindLatestByProduct returns up to limit most recent observations for a product
func (r *GormCompetitorPriceRepository) FindLatestByProduct(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]market.CompetitorPrice, error) {
	var prices []market.CompetitorPrice
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// Save creates or updates an observation
func (r *GormCompetitorPriceRepository) Save(ctx context.Context, price *market.CompetitorPrice) error {
	return r.db.WithContext(ctx).Save(price).Error
}

// DeleteForTenant deletes an observation within a tenant
func (r *GormCompetitorPriceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&market.CompetitorPrice{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByProduct counts observations for a product
func (r *GormCompetitorPriceRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&market.CompetitorPrice{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormCompetitorPriceRepository implements CompetitorPriceRepository
var _ market.CompetitorPriceRepository = (*GormCompetitorPriceRepository)(nil)
