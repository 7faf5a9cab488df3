package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
	ProductStatusOutOfStock   ProductStatus = "out_of_stock"
	ProductStatusLowStock     ProductStatus = "low_stock"
	ProductStatusComingSoon   ProductStatus = "coming_soon"
)

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// DefaultReorderLevel applies when a product carries no reorder level of its own.
const DefaultReorderLevel int64 = 5

// ClientInventory is the stock a client holds of a product, either uploaded by
// the client or received through an approved purchase request.
type ClientInventory struct {
	InitialStock int64     `json:"initialStock"`
	CurrentStock int64     `json:"currentStock"`
	ReorderLevel int64     `json:"reorderLevel"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

type Product struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	SKU              string           `json:"sku"`
	Description      string           `json:"description,omitempty"`
	Category         string           `json:"category"`
	Price            decimal.Decimal  `json:"price"`
	Points           int64            `json:"points"`
	Stock            int64            `json:"stock"`
	ReorderLevel     *int64           `json:"reorderLevel,omitempty"`
	ReservedStock    int64            `json:"reservedStock"`
	Status           ProductStatus    `json:"status"`
	IsClientUploaded bool             `json:"isClientUploaded"`
	CreatedBy        uuid.UUID        `json:"createdBy"`
	ClientID         *uuid.UUID       `json:"clientId,omitempty"`
	OrganizationID   uuid.UUID        `json:"organizationId"`
	ClientInventory  *ClientInventory `json:"clientInventory,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (p Product) Identifier() uuid.UUID { return p.ID }

func (p Product) DisplayName() string { return p.Name }

// StockLevel is the stock figure used for display and threshold checks.
type StockLevel struct {
	Stock            int64       `json:"stock"`
	ReorderLevel     int64       `json:"reorderLevel"`
	Status           StockStatus `json:"status"`
	MissingInventory bool        `json:"missingInventory,omitempty"`
}

// EffectiveStock resolves which stock figure applies to the product.
// A client inventory always wins over the base stock field. A client-uploaded
// product without its inventory record reports zero and flags the gap.
func (p *Product) EffectiveStock(defaultReorderLevel int64) StockLevel {
	if defaultReorderLevel <= 0 {
		defaultReorderLevel = DefaultReorderLevel
	}

	baseReorder := defaultReorderLevel
	if p.ReorderLevel != nil {
		baseReorder = *p.ReorderLevel
	}

	switch {
	case p.ClientInventory != nil:
		return StockLevel{
			Stock:        p.ClientInventory.CurrentStock,
			ReorderLevel: p.ClientInventory.ReorderLevel,
			Status:       DeriveStockStatus(p.ClientInventory.CurrentStock, p.ClientInventory.ReorderLevel),
		}
	case p.IsClientUploaded:
		return StockLevel{
			Stock:            0,
			ReorderLevel:     baseReorder,
			Status:           StockStatusOutOfStock,
			MissingInventory: true,
		}
	default:
		return StockLevel{
			Stock:        p.Stock,
			ReorderLevel: baseReorder,
			Status:       DeriveStockStatus(p.Stock, baseReorder),
		}
	}
}

func DeriveStockStatus(stock, reorderLevel int64) StockStatus {
	switch {
	case stock <= 0:
		return StockStatusOutOfStock
	case stock <= reorderLevel:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=2,max=200"`
	SKU          string          `json:"sku" validate:"required,min=3,max=50"`
	Description  string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category     string          `json:"category" validate:"required,max=100"`
	Price        decimal.Decimal `json:"price"`
	Points       int64           `json:"points" validate:"gte=0"`
	Stock        int64           `json:"stock" validate:"gte=0"`
	ReorderLevel *int64          `json:"reorderLevel,omitempty" validate:"omitempty,gte=0"`
	Status       ProductStatus   `json:"status,omitempty" validate:"omitempty,oneof=active inactive discontinued out_of_stock low_stock coming_soon"`
}

type CreateClientProductRequest struct {
	Name         string          `json:"name" validate:"required,min=2,max=200"`
	SKU          string          `json:"sku" validate:"required,min=3,max=50"`
	Description  string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category     string          `json:"category" validate:"required,max=100"`
	Price        decimal.Decimal `json:"price"`
	InitialStock int64           `json:"initialStock" validate:"gte=0"`
	ReorderLevel *int64          `json:"reorderLevel,omitempty" validate:"omitempty,gte=0"`
}

type UpdateInventoryRequest struct {
	CurrentStock  *int64 `json:"currentStock" validate:"required,gte=0"`
	ReorderLevel  *int64 `json:"reorderLevel,omitempty" validate:"omitempty,gte=0"`
	ReservedStock *int64 `json:"reservedStock,omitempty" validate:"omitempty,gte=0"`
}

type UpdateClientInventoryRequest struct {
	CurrentStock *int64 `json:"currentStock" validate:"required,gte=0"`
	ReorderLevel *int64 `json:"reorderLevel,omitempty" validate:"omitempty,gte=0"`
}

type AdjustStockRequest struct {
	Delta int64 `json:"delta" validate:"required"`
}
