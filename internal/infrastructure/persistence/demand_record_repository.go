package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/market"
	"github.com/pricepilot/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDemandRecordRepository implements DemandRecordRepository using GORM
type GormDemandRecordRepository struct {
	db *gorm.DB
}

// NewGormDemandRecordRepository creates a new GormDemandRecordRepository
func NewGormDemandRecordRepository(db *gorm.DB) *GormDemandRecordRepository {
	return &GormDemandRecordRepository{db: db}
}

// FindByID finds a record by its ID
func (r *GormDemandRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*market.DemandRecord, error) {
	var record market.DemandRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProduct finds records for a product, most recent first
func (r *GormDemandRecordRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]market.DemandRecord, error) {
	var records []market.DemandRecord
	query := r.db.WithContext(ctx).Model(&market.DemandRecord{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DemandRecordSortFields, "recorded_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.Order(orderBy + " " + orderDir).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindRecentByProduct returns up to limit most recent records for a product
func (r *GormDemandRecordRepository) FindRecentByProduct(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]market.DemandRecord, error) {
	var records []market.DemandRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a record
func (r *GormDemandRecordRepository) Save(ctx context.Context, record *market.DemandRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// DeleteForTenant deletes a record within a tenant
func (r *GormDemandRecordRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&market.DemandRecord{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByProduct counts records for a product
func (r *GormDemandRecordRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&market.DemandRecord{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormDemandRecordRepository implements DemandRecordRepository
var _ market.DemandRecordRepository = (*GormDemandRecordRepository)(nil)
