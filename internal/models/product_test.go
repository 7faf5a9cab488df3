package models_test

import (
	"testing"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

func TestDeriveStockStatus(t *testing.T) {
	tests := []struct {
		name    string
		stock   int64
		reorder int64
		want    models.StockStatus
	}{
		{"Zero is out of stock", 0, 5, models.StockStatusOutOfStock},
		{"Negative is out of stock", -3, 5, models.StockStatusOutOfStock},
		{"At reorder level is low", 5, 5, models.StockStatusLowStock},
		{"Just above zero is low", 1, 5, models.StockStatusLowStock},
		{"Above reorder level is in stock", 6, 5, models.StockStatusInStock},
		{"Zero reorder level", 1, 0, models.StockStatusInStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.DeriveStockStatus(tt.stock, tt.reorder))
		})
	}
}

func TestEffectiveStock(t *testing.T) {
	t.Run("Client inventory wins over base stock", func(t *testing.T) {
		// Arrange
		p := &models.Product{
			Stock:        100,
			ReorderLevel: int64Ptr(50),
			ClientInventory: &models.ClientInventory{
				CurrentStock: 3,
				ReorderLevel: 2,
			},
		}

		// Act
		level := p.EffectiveStock(models.DefaultReorderLevel)

		// Assert
		assert.Equal(t, int64(3), level.Stock)
		assert.Equal(t, int64(2), level.ReorderLevel)
		assert.Equal(t, models.StockStatusInStock, level.Status)
		assert.False(t, level.MissingInventory)
	})

	t.Run("Client uploaded without inventory reports zero", func(t *testing.T) {
		p := &models.Product{Stock: 40, IsClientUploaded: true}

		level := p.EffectiveStock(models.DefaultReorderLevel)

		assert.Equal(t, int64(0), level.Stock)
		assert.Equal(t, models.StockStatusOutOfStock, level.Status)
		assert.True(t, level.MissingInventory)
	})

	t.Run("Base stock with default reorder level", func(t *testing.T) {
		p := &models.Product{Stock: 4}

		level := p.EffectiveStock(models.DefaultReorderLevel)

		assert.Equal(t, int64(4), level.Stock)
		assert.Equal(t, models.DefaultReorderLevel, level.ReorderLevel)
		assert.Equal(t, models.StockStatusLowStock, level.Status)
	})

	t.Run("Base stock with own reorder level", func(t *testing.T) {
		p := &models.Product{Stock: 4, ReorderLevel: int64Ptr(2)}

		level := p.EffectiveStock(10)

		assert.Equal(t, int64(2), level.ReorderLevel)
		assert.Equal(t, models.StockStatusInStock, level.Status)
	})

	t.Run("Non-positive default falls back to package default", func(t *testing.T) {
		p := &models.Product{Stock: 5}

		level := p.EffectiveStock(0)

		assert.Equal(t, models.DefaultReorderLevel, level.ReorderLevel)
	})
}
