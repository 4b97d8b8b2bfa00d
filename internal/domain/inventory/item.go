package inventory

import (
	"time"

	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/craftpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ItemKind classifies a stockable entity
type ItemKind string

const (
	KindRawMaterial  ItemKind = "raw_material"
	KindSupply       ItemKind = "supply"
	KindFinishedGood ItemKind = "finished_good"
)

// IsValid checks if the kind is a known ItemKind
func (k ItemKind) IsValid() bool {
	switch k {
	case KindRawMaterial, KindSupply, KindFinishedGood:
		return true
	}
	return false
}

// InventoryItem is the aggregate root for the stock ledger. It is the single
// source of truth for the stock quantity of any stockable entity: raw
// materials, supplies, and finished goods.
//
// Invariant: CurrentStock never goes negative after a committed operation.
type InventoryItem struct {
	shared.BaseAggregateRoot
	Name            string              `gorm:"size:255;not null"`
	SKU             string              `gorm:"size:64;not null;uniqueIndex"`
	Kind            ItemKind            `gorm:"size:32;not null;index"`
	Unit            string              `gorm:"size:32;not null"`
	CurrentStock    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	MinStock        decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	MaxStock        decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost        decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Active          bool                `gorm:"not null;default:true;index"`
	LastRestockedAt *time.Time
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem registers a new stockable item with zero stock
func NewInventoryItem(name, sku string, kind ItemKind, unit string) (*InventoryItem, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Item SKU cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Item kind must be raw_material, supply, or finished_good")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit of measure cannot be empty")
	}

	item := &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		Kind:              kind,
		Unit:              unit,
		CurrentStock:      decimal.Zero,
		MinStock:          decimal.Zero,
		MaxStock:          decimal.Zero,
		Active:            true,
	}

	item.AddDomainEvent(NewItemRegisteredEvent(item))

	return item, nil
}

// ApplyDelta adjusts the current stock by delta, which may be negative
// (consumption, sale) or positive (restock, production output). A delta of
// zero is a no-op. A positive delta stamps the last-restock date.
//
// Fails with INSUFFICIENT_STOCK when the adjustment would push stock below
// zero; the item is left unchanged in that case.
func (i *InventoryItem) ApplyDelta(delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}

	newStock := i.CurrentStock.Add(delta)
	if newStock.IsNegative() {
		return shared.NewInsufficientStockError([]shared.Shortfall{{
			ItemID:    i.ID.String(),
			ItemName:  i.Name,
			Required:  delta.Neg().String(),
			Available: i.CurrentStock.String(),
		}})
	}

	previous := i.CurrentStock
	i.CurrentStock = newStock
	now := time.Now()
	if delta.IsPositive() {
		i.LastRestockedAt = &now
	}
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewStockAdjustedEvent(i, previous, delta))

	if i.IsBelowMinimum() {
		i.AddDomainEvent(NewStockBelowMinimumEvent(i))
	}

	return nil
}

// Restock increases stock by a strictly positive quantity. Zero or negative
// quantities are rejected rather than treated as a no-op.
func (i *InventoryItem) Restock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}
	return i.ApplyDelta(quantity)
}

// CanFulfill returns true if current stock covers the requested quantity
func (i *InventoryItem) CanFulfill(quantity decimal.Decimal) bool {
	return i.CurrentStock.GreaterThanOrEqual(quantity)
}

// EffectiveUnitCost returns the unit cost, or zero when none is recorded
func (i *InventoryItem) EffectiveUnitCost() decimal.Decimal {
	if !i.UnitCost.Valid {
		return decimal.Zero
	}
	return i.UnitCost.Decimal
}

// SetUnitCost updates the unit cost and emits ItemCostChanged so that
// recipes referencing this item can recompute their cached totals.
func (i *InventoryItem) SetUnitCost(cost valueobject.Money) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	previous := i.EffectiveUnitCost()
	i.UnitCost = decimal.NewNullDecimal(cost.Amount())
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	if !previous.Equal(cost.Amount()) {
		i.AddDomainEvent(NewItemCostChangedEvent(i, previous, cost.Amount()))
	}

	return nil
}

// UpdateDetails mutates the non-stock fields
func (i *InventoryItem) UpdateDetails(name, unit string, minStock, maxStock decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit of measure cannot be empty")
	}
	if minStock.IsNegative() || maxStock.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock thresholds cannot be negative")
	}

	i.Name = name
	i.Unit = unit
	i.MinStock = minStock
	i.MaxStock = maxStock
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Deactivate soft-deletes the item. Stock records referencing it are kept.
func (i *InventoryItem) Deactivate() {
	i.Active = false
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// Activate re-enables a previously deactivated item
func (i *InventoryItem) Activate() {
	i.Active = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// IsBelowMinimum returns true if stock has fallen under the alert threshold
func (i *InventoryItem) IsBelowMinimum() bool {
	return i.MinStock.IsPositive() && i.CurrentStock.LessThan(i.MinStock)
}

// GetUnitCostMoney returns the effective unit cost as Money
func (i *InventoryItem) GetUnitCostMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(i.EffectiveUnitCost())
}
