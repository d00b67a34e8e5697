package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/pricing"
	"github.com/pricepilot/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPriceChangeRepository implements PriceChangeRepository using GORM
type GormPriceChangeRepository struct {
	db *gorm.DB
}

// NewGormPriceChangeRepository creates a new GormPriceChangeRepository
func NewGormPriceChangeRepository(db *gorm.DB) *GormPriceChangeRepository {
	return &GormPriceChangeRepository{db: db}
}

// FindByID finds a history entry by its ID
func (r *GormPriceChangeRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PriceChange, error) {
	var change pricing.PriceChange
	if err := r.db.WithContext(ctx).First(&change, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &change, nil
}

// FindByProduct finds history entries for a product, most recent first
func (r *GormPriceChangeRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]pricing.PriceChange, error) {
	var changes []pricing.PriceChange
	query := r.db.WithContext(ctx).Model(&pricing.PriceChange{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)

	if applied, ok := filter.Filters["applied"]; ok {
		query = query.Where("applied = ?", applied)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PriceChangeSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.Order(orderBy + " " + orderDir).Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}

// Save creates or updates a history entry
func (r *GormPriceChangeRepository) Save(ctx context.Context, change *pricing.PriceChange) error {
	return r.db.WithContext(ctx).Save(change).Error
}

// CountByProduct counts history entries for a product
func (r *GormPriceChangeRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&pricing.PriceChange{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormPriceChangeRepository implements PriceChangeRepository
var _ pricing.PriceChangeRepository = (*GormPriceChangeRepository)(nil)
