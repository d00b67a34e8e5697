package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// DefaultElasticity is the price elasticity assumed for products without
// enough demand history to estimate one.
const DefaultElasticity = "1.2"

// Product represents a priced SKU in the catalog.
// It is the aggregate root for product-related operations.
// All monetary amounts are stored in minor currency units (cents).
type Product struct {
	shared.TenantAggregateRoot
	SKU              string        `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_sku,priority:2"`
	Name             string        `gorm:"type:varchar(200);not null"`
	Description      string        `gorm:"type:text"`
	BaseCost         int64         `gorm:"not null;default:0"` // Unit cost in cents
	CurrentPrice     int64         `gorm:"not null;default:0"` // Active selling price in cents
	MinMarginPercent float64       `gorm:"not null;default:10"`
	MaxPrice         *int64        `gorm:""` // Optional hard price ceiling in cents
	InventoryLevel   int           `gorm:"not null;default:0"`
	DemandElasticity string        `gorm:"type:varchar(20);not null;default:'1.2'"`
	Status           ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, sku, name string, baseCost, currentPrice int64) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if baseCost < 0 {
		return nil, shared.NewDomainError("INVALID_COST", "Base cost cannot be negative")
	}
	if currentPrice <= 0 {
		return nil, shared.ErrInvalidPrice
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		BaseCost:            baseCost,
		CurrentPrice:        currentPrice,
		MinMarginPercent:    10,
		DemandElasticity:    DefaultElasticity,
		Status:              ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// ChangePrice moves the product to a new selling price.
// The recommended price and reason are carried on the event so downstream
// consumers can record why the change happened.
func (p *Product) ChangePrice(newPrice, recommendedPrice int64, reason string) error {
	if newPrice <= 0 {
		return shared.ErrInvalidPrice
	}

	oldPrice := p.CurrentPrice
	p.CurrentPrice = newPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice, recommendedPrice, reason))

	return nil
}

// UpdateCost updates the unit cost
func (p *Product) UpdateCost(baseCost int64) error {
	if baseCost < 0 {
		return shared.NewDomainError("INVALID_COST", "Base cost cannot be negative")
	}

	p.BaseCost = baseCost
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPricingConstraints sets the margin floor and optional price ceiling
func (p *Product) SetPricingConstraints(minMarginPercent float64, maxPrice *int64) error {
	if minMarginPercent < 0 || minMarginPercent > 100 {
		return shared.NewDomainError("INVALID_MARGIN", "Minimum margin must be between 0 and 100 percent")
	}
	if maxPrice != nil && *maxPrice <= 0 {
		return shared.NewDomainError("INVALID_MAX_PRICE", "Maximum price must be positive")
	}

	p.MinMarginPercent = minMarginPercent
	p.MaxPrice = maxPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetInventoryLevel sets the current stock on hand
func (p *Product) SetInventoryLevel(level int) error {
	if level < 0 {
		return shared.NewDomainError("INVALID_INVENTORY", "Inventory level cannot be negative")
	}

	p.InventoryLevel = level
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetDemandElasticity stores an elasticity estimate for the product
func (p *Product) SetDemandElasticity(elasticity string) error {
	if elasticity == "" {
		elasticity = DefaultElasticity
	}
	if _, err := decimal.NewFromString(elasticity); err != nil {
		return shared.NewDomainError("INVALID_ELASTICITY", "Elasticity must be a decimal number")
	}

	p.DemandElasticity = elasticity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ElasticityValue parses the stored elasticity, falling back to the
// default when the stored value is missing or malformed.
func (p *Product) ElasticityValue() float64 {
	d, err := decimal.NewFromString(p.DemandElasticity)
	if err != nil {
		d, _ = decimal.NewFromString(DefaultElasticity)
	}
	f, _ := d.Float64()
	return f
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_ACTIVATE", "Cannot activate a discontinued product")
	}

	oldStatus := p.Status
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusActive))

	return nil
}

// Deactivate deactivates the product
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_DEACTIVATE", "Cannot deactivate a discontinued product")
	}

	oldStatus := p.Status
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusInactive))

	return nil
}

// Discontinue marks the product as discontinued
// A discontinued product cannot be reactivated
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Product is already discontinued")
	}

	oldStatus := p.Status
	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusDiscontinued))

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsDiscontinued returns true if the product is discontinued
func (p *Product) IsDiscontinued() bool {
	return p.Status == ProductStatusDiscontinued
}

// MarginPercent returns the current margin over cost as a percentage.
// Returns 0 if the base cost is zero.
func (p *Product) MarginPercent() float64 {
	if p.BaseCost == 0 {
		return 0
	}
	return float64(p.CurrentPrice-p.BaseCost) / float64(p.BaseCost) * 100
}

// validateSKU validates the product SKU
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 50 characters")
	}
	// SKU should be alphanumeric with underscores and hyphens
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "Product SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
