package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/shared"
)

// PriceChange is one entry in a product's pricing history: a recommendation
// that was produced, and whether it was applied to the live price. Amounts
// are minor currency units.
type PriceChange struct {
	shared.TenantAggregateRoot
	ProductID            uuid.UUID `gorm:"type:uuid;not null;index"`
	PreviousPrice        int64     `gorm:"not null"`
	NewPrice             int64     `gorm:"not null"`
	RecommendedPrice     int64     `gorm:"not null"`
	Reason               string    `gorm:"type:varchar(200);not null"`
	ExpectedProfitChange int       `gorm:"not null;default:0"` // Rounded percent
	Applied              bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PriceChange) TableName() string {
	return "pricing_history"
}

// NewPriceChange records a pricing decision for a product
func NewPriceChange(tenantID, productID uuid.UUID, previousPrice, newPrice, recommendedPrice int64, expectedProfitChange int, reason string, applied bool) (*PriceChange, error) {
	if newPrice <= 0 || recommendedPrice <= 0 {
		return nil, shared.ErrInvalidPrice
	}
	if reason == "" {
		reason = "Price optimization"
	}

	return &PriceChange{
		TenantAggregateRoot:  shared.NewTenantAggregateRoot(tenantID),
		ProductID:            productID,
		PreviousPrice:        previousPrice,
		NewPrice:             newPrice,
		RecommendedPrice:     recommendedPrice,
		Reason:               reason,
		ExpectedProfitChange: expectedProfitChange,
		Applied:              applied,
	}, nil
}

// PriceChangeRepository defines the interface for pricing history persistence
type PriceChangeRepository interface {
	// FindByID finds a history entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PriceChange, error)

	// FindByProduct finds history entries for a product, most recent first
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]PriceChange, error)

	// Save creates or updates a history entry
	Save(ctx context.Context, change *PriceChange) error

	// CountByProduct counts history entries for a product
	CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)
}
