package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"sku":                true,
	"name":               true,
	"status":             true,
	"base_cost":          true,
	"current_price":      true,
	"min_margin_percent": true,
	"inventory_level":    true,
}

// CompetitorPriceSortFields contains allowed sort fields for competitor price observations
var CompetitorPriceSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"competitor_name": true,
	"price":           true,
	"in_stock":        true,
	"recorded_at":     true,
}

// DemandRecordSortFields contains allowed sort fields for demand history
var DemandRecordSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"price":         true,
	"quantity_sold": true,
	"revenue":       true,
	"recorded_at":   true,
}

// PriceChangeSortFields contains allowed sort fields for pricing history
var PriceChangeSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"previous_price":    true,
	"new_price":         true,
	"recommended_price": true,
	"applied":           true,
}
