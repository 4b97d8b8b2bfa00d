package inventory

import (
	"time"

	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// RegisterItemRequest registers a new inventory item
type RegisterItemRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	SKU      string  `json:"sku" binding:"required,max=100"`
	Kind     string  `json:"kind" binding:"required,oneof=raw_material supply finished_good"`
	Unit     string  `json:"unit" binding:"required,max=50"`
	MinStock string  `json:"min_stock,omitempty" binding:"omitempty,decimal"`
	MaxStock string  `json:"max_stock,omitempty" binding:"omitempty,decimal"`
	UnitCost *string `json:"unit_cost,omitempty" binding:"omitempty,decimal"`
}

// UpdateItemRequest updates item master data
type UpdateItemRequest struct {
	Name     *string `json:"name,omitempty"`
	Unit     *string `json:"unit,omitempty"`
	MinStock *string `json:"min_stock,omitempty" binding:"omitempty,decimal"`
	MaxStock *string `json:"max_stock,omitempty" binding:"omitempty,decimal"`
	UnitCost *string `json:"unit_cost,omitempty" binding:"omitempty,decimal"`
}

// AdjustStockRequest applies a signed delta to an item's stock
type AdjustStockRequest struct {
	Delta  string `json:"delta" binding:"required,decimal"`
	Reason string `json:"reason,omitempty"`
}

// RestockRequest adds a positive quantity to an item's stock
type RestockRequest struct {
	Quantity string `json:"quantity" binding:"required,decimal"`
}

// ListFilter filters the item listing
type ListFilter struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	Search       string `form:"search"`
	Kind         string `form:"kind"`
	BelowMinimum bool   `form:"below_minimum"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir"`
}

// ItemResponse is the API representation of an inventory item
type ItemResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	SKU             string     `json:"sku"`
	Kind            string     `json:"kind"`
	Unit            string     `json:"unit"`
	CurrentStock    string     `json:"current_stock"`
	MinStock        string     `json:"min_stock"`
	MaxStock        string     `json:"max_stock"`
	UnitCost        *string    `json:"unit_cost,omitempty"`
	Active          bool       `json:"active"`
	BelowMinimum    bool       `json:"below_minimum"`
	LastRestockedAt *time.Time `json:"last_restocked_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// StockResponse is the result of a stock mutation or read
type StockResponse struct {
	ItemID       string `json:"item_id"`
	CurrentStock string `json:"current_stock"`
	BelowMinimum bool   `json:"below_minimum"`
}

// ToItemResponse maps a domain item to its API representation
func ToItemResponse(item *inventory.InventoryItem) ItemResponse {
	resp := ItemResponse{
		ID:              item.ID.String(),
		Name:            item.Name,
		SKU:             item.SKU,
		Kind:            string(item.Kind),
		Unit:            item.Unit,
		CurrentStock:    item.CurrentStock.String(),
		MinStock:        item.MinStock.String(),
		MaxStock:        item.MaxStock.String(),
		Active:          item.Active,
		BelowMinimum:    item.IsBelowMinimum(),
		LastRestockedAt: item.LastRestockedAt,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
	if item.UnitCost.Valid {
		cost := item.UnitCost.Decimal.String()
		resp.UnitCost = &cost
	}
	return resp
}

// ToStockResponse maps the stock view of an item
func ToStockResponse(item *inventory.InventoryItem) StockResponse {
	return StockResponse{
		ItemID:       item.ID.String(),
		CurrentStock: item.CurrentStock.String(),
		BelowMinimum: item.IsBelowMinimum(),
	}
}

func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
