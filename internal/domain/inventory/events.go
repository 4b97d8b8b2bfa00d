package inventory

import (
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the inventory ledger
const (
	EventTypeItemRegistered    = "inventory.item_registered"
	EventTypeStockAdjusted     = "inventory.stock_adjusted"
	EventTypeStockBelowMinimum = "inventory.stock_below_minimum"
	EventTypeItemCostChanged   = "inventory.item_cost_changed"
)

const aggregateTypeInventoryItem = "InventoryItem"

// ItemRegisteredEvent is emitted when a new stockable item is created
type ItemRegisteredEvent struct {
	shared.BaseDomainEvent
	Name string   `json:"name"`
	SKU  string   `json:"sku"`
	Kind ItemKind `json:"kind"`
}

// NewItemRegisteredEvent creates an ItemRegisteredEvent
func NewItemRegisteredEvent(item *InventoryItem) *ItemRegisteredEvent {
	return &ItemRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemRegistered, aggregateTypeInventoryItem, item.ID),
		Name:            item.Name,
		SKU:             item.SKU,
		Kind:            item.Kind,
	}
}

// StockAdjustedEvent is emitted after every committed stock delta
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ItemName      string          `json:"item_name"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	Delta         decimal.Decimal `json:"delta"`
	NewStock      decimal.Decimal `json:"new_stock"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent
func NewStockAdjustedEvent(item *InventoryItem, previous, delta decimal.Decimal) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, aggregateTypeInventoryItem, item.ID),
		ItemName:        item.Name,
		PreviousStock:   previous,
		Delta:           delta,
		NewStock:        item.CurrentStock,
	}
}

// StockBelowMinimumEvent is emitted when stock crosses under the minimum threshold
type StockBelowMinimumEvent struct {
	shared.BaseDomainEvent
	ItemName     string          `json:"item_name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
}

// NewStockBelowMinimumEvent creates a StockBelowMinimumEvent
func NewStockBelowMinimumEvent(item *InventoryItem) *StockBelowMinimumEvent {
	return &StockBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowMinimum, aggregateTypeInventoryItem, item.ID),
		ItemName:        item.Name,
		CurrentStock:    item.CurrentStock,
		MinStock:        item.MinStock,
	}
}

// ItemCostChangedEvent is emitted when an item's unit cost changes.
// Recipe cost recomputation subscribes to this.
type ItemCostChangedEvent struct {
	shared.BaseDomainEvent
	ItemName     string          `json:"item_name"`
	PreviousCost decimal.Decimal `json:"previous_cost"`
	NewCost      decimal.Decimal `json:"new_cost"`
}

// NewItemCostChangedEvent creates an ItemCostChangedEvent
func NewItemCostChangedEvent(item *InventoryItem, previous, current decimal.Decimal) *ItemCostChangedEvent {
	return &ItemCostChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCostChanged, aggregateTypeInventoryItem, item.ID),
		ItemName:        item.Name,
		PreviousCost:    previous,
		NewCost:         current,
	}
}
