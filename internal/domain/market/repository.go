package market

import (
	"context"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/shared"
)

// CompetitorPriceRepository defines the interface for competitor price persistence
type CompetitorPriceRepository interface {
	// FindByID finds an observation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CompetitorPrice, error)

	// FindByProduct finds observations for a product, most recent first
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]CompetitorPrice, error)

	// FindLatestByProduct returns up to limit most recent observations for a product
	FindLatestByProduct(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]CompetitorPrice, error)

	// Save creates or updates an observation
	Save(ctx context.Context, price *CompetitorPrice) error

	// DeleteForTenant deletes an observation within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountByProduct counts observations for a product
	CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)
}

// DemandRecordRepository defines the interface for demand history persistence
type DemandRecordRepository interface {
	// FindByID finds a record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*DemandRecord, error)

	// FindByProduct finds records for a product, most recent first
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]DemandRecord, error)

	// FindRecentByProduct returns up to limit most recent records for a product
	FindRecentByProduct(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]DemandRecord, error)

	// Save creates or updates a record
	Save(ctx context.Context, record *DemandRecord) error

	// DeleteForTenant deletes a record within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountByProduct counts records for a product
	CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)
}
