package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU              string   `json:"sku" binding:"required,min=1,max=50"`
	Name             string   `json:"name" binding:"required,min=1,max=200"`
	Description      string   `json:"description" binding:"max=2000"`
	BaseCost         int64    `json:"base_cost" binding:"min=0"`
	CurrentPrice     int64    `json:"current_price" binding:"required,gt=0"`
	MinMarginPercent *float64 `json:"min_margin_percent" binding:"omitempty,min=0,max=100"`
	MaxPrice         *int64   `json:"max_price" binding:"omitempty,gt=0"`
	InventoryLevel   *int     `json:"inventory_level" binding:"omitempty,min=0"`
	DemandElasticity string   `json:"demand_elasticity" binding:"max=20"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name             *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Description      *string  `json:"description" binding:"omitempty,max=2000"`
	BaseCost         *int64   `json:"base_cost" binding:"omitempty,min=0"`
	CurrentPrice     *int64   `json:"current_price" binding:"omitempty,gt=0"`
	MinMarginPercent *float64 `json:"min_margin_percent" binding:"omitempty,min=0,max=100"`
	MaxPrice         *int64   `json:"max_price" binding:"omitempty,gt=0"`
	InventoryLevel   *int     `json:"inventory_level" binding:"omitempty,min=0"`
	DemandElasticity *string  `json:"demand_elasticity" binding:"omitempty,max=20"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               uuid.UUID `json:"id"`
	TenantID         uuid.UUID `json:"tenant_id"`
	SKU              string    `json:"sku"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	BaseCost         int64     `json:"base_cost"`
	CurrentPrice     int64     `json:"current_price"`
	MinMarginPercent float64   `json:"min_margin_percent"`
	MaxPrice         *int64    `json:"max_price"`
	InventoryLevel   int       `json:"inventory_level"`
	DemandElasticity string    `json:"demand_elasticity"`
	MarginPercent    float64   `json:"margin_percent"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Version          int       `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive discontinued"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:               p.ID,
		TenantID:         p.TenantID,
		SKU:              p.SKU,
		Name:             p.Name,
		Description:      p.Description,
		BaseCost:         p.BaseCost,
		CurrentPrice:     p.CurrentPrice,
		MinMarginPercent: p.MinMarginPercent,
		MaxPrice:         p.MaxPrice,
		InventoryLevel:   p.InventoryLevel,
		DemandElasticity: p.DemandElasticity,
		MarginPercent:    p.MarginPercent(),
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Version:          p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
