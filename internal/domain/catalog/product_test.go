package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, tenantID, product.TenantID)
		assert.Equal(t, "SKU-001", product.SKU)
		assert.Equal(t, "Test Product", product.Name)
		assert.Equal(t, int64(1000), product.BaseCost)
		assert.Equal(t, int64(1999), product.CurrentPrice)
		assert.Equal(t, float64(10), product.MinMarginPercent)
		assert.Nil(t, product.MaxPrice)
		assert.Equal(t, DefaultElasticity, product.DemandElasticity)
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("converts SKU to uppercase", func(t *testing.T) {
		product, err := NewProduct(tenantID, "sku-001", "Test Product", 1000, 1999)
		require.NoError(t, err)
		assert.Equal(t, "SKU-001", product.SKU)
	})

	t.Run("publishes ProductCreated event", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-002", "Test Product", 1000, 1999)
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())

		event, ok := events[0].(*ProductCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, product.ID, event.ProductID)
		assert.Equal(t, product.SKU, event.SKU)
		assert.Equal(t, product.BaseCost, event.BaseCost)
		assert.Equal(t, product.CurrentPrice, event.CurrentPrice)
	})

	t.Run("fails with empty SKU", func(t *testing.T) {
		_, err := NewProduct(tenantID, "", "Test Product", 1000, 1999)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SKU cannot be empty")
	})

	t.Run("fails with invalid SKU characters", func(t *testing.T) {
		_, err := NewProduct(tenantID, "SKU@001", "Test Product", 1000, 1999)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "can only contain letters")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct(tenantID, "SKU-001", "", 1000, 1999)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with negative cost", func(t *testing.T) {
		_, err := NewProduct(tenantID, "SKU-001", "Test Product", -1, 1999)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})

	t.Run("fails with zero price", func(t *testing.T) {
		_, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "positive")
	})

	t.Run("accepts SKU with underscore and hyphen", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU_TEST-001", "Test Product", 1000, 1999)
		require.NoError(t, err)
		assert.Equal(t, "SKU_TEST-001", product.SKU)
	})
}

func TestProductChangePrice(t *testing.T) {
	tenantID := uuid.New()

	newTestProduct := func(t *testing.T) *Product {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)
		product.ClearDomainEvents()
		return product
	}

	t.Run("changes price and publishes event", func(t *testing.T) {
		product := newTestProduct(t)

		err := product.ChangePrice(2499, 2450, "Undercut competitor")
		require.NoError(t, err)
		assert.Equal(t, int64(2499), product.CurrentPrice)
		assert.Equal(t, 2, product.GetVersion())

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*ProductPriceChangedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(1999), event.OldPrice)
		assert.Equal(t, int64(2499), event.NewPrice)
		assert.Equal(t, int64(2450), event.RecommendedPrice)
		assert.Equal(t, "Undercut competitor", event.Reason)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		product := newTestProduct(t)

		err := product.ChangePrice(0, 0, "")
		require.Error(t, err)
		assert.Equal(t, int64(1999), product.CurrentPrice)
		assert.Empty(t, product.GetDomainEvents())
	})
}

func TestProductPricingConstraints(t *testing.T) {
	tenantID := uuid.New()

	t.Run("sets margin floor and ceiling", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)

		maxPrice := int64(5000)
		err = product.SetPricingConstraints(25, &maxPrice)
		require.NoError(t, err)
		assert.Equal(t, float64(25), product.MinMarginPercent)
		require.NotNil(t, product.MaxPrice)
		assert.Equal(t, int64(5000), *product.MaxPrice)
	})

	t.Run("rejects margin outside 0-100", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)

		err = product.SetPricingConstraints(-1, nil)
		require.Error(t, err)

		err = product.SetPricingConstraints(101, nil)
		require.Error(t, err)
	})

	t.Run("rejects non-positive max price", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)

		maxPrice := int64(0)
		err = product.SetPricingConstraints(10, &maxPrice)
		require.Error(t, err)
	})
}

func TestProductElasticity(t *testing.T) {
	tenantID := uuid.New()

	t.Run("stores a valid elasticity", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)

		err = product.SetDemandElasticity("2.35")
		require.NoError(t, err)
		assert.Equal(t, "2.35", product.DemandElasticity)
		assert.InDelta(t, 2.35, product.ElasticityValue(), 1e-9)
	})

	t.Run("empty elasticity falls back to default", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)

		err = product.SetDemandElasticity("")
		require.NoError(t, err)
		assert.Equal(t, DefaultElasticity, product.DemandElasticity)
	})

	t.Run("rejects malformed elasticity", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)

		err = product.SetDemandElasticity("not-a-number")
		require.Error(t, err)
	})

	t.Run("malformed stored value parses as default", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)

		product.DemandElasticity = "garbage"
		assert.InDelta(t, 1.2, product.ElasticityValue(), 1e-9)
	})
}

func TestProductStatusTransitions(t *testing.T) {
	tenantID := uuid.New()

	t.Run("deactivate then activate", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)

		require.NoError(t, product.Deactivate())
		assert.Equal(t, ProductStatusInactive, product.Status)

		require.NoError(t, product.Activate())
		assert.Equal(t, ProductStatusActive, product.Status)
	})

	t.Run("cannot activate discontinued product", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1999)
		require.NoError(t, err)

		require.NoError(t, product.Discontinue())
		err = product.Activate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "discontinued")
	})
}

func TestProductMarginPercent(t *testing.T) {
	tenantID := uuid.New()

	t.Run("computes margin over cost", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 1000, 1500)
		require.NoError(t, err)
		assert.InDelta(t, 50.0, product.MarginPercent(), 1e-9)
	})

	t.Run("zero cost yields zero margin", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", 0, 1500)
		require.NoError(t, err)
		assert.Zero(t, product.MarginPercent())
	})
}
