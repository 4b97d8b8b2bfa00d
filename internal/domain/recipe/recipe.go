package recipe

import (
	"time"

	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeComponent is one line of a bill of materials: the quantity of an
// inventory item consumed by a single yield execution of the recipe.
// CostOverride, when set, takes precedence over the item's unit cost in the
// total-cost rollup.
type RecipeComponent struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey"`
	RecipeID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	ItemID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	QuantityRequired decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	CostOverride     decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Notes            string              `gorm:"size:500"`
	CreatedAt        time.Time           `gorm:"not null"`
	UpdatedAt        time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RecipeComponent) TableName() string {
	return "recipe_components"
}

// EffectiveUnitCost returns the cost override when present, otherwise the
// given item unit cost (zero when the item carries no cost).
func (c *RecipeComponent) EffectiveUnitCost(itemUnitCost decimal.Decimal) decimal.Decimal {
	if c.CostOverride.Valid {
		return c.CostOverride.Decimal
	}
	return itemUnitCost
}

// Recipe is the bill-of-materials aggregate root. TotalCost is a cached
// rollup over the components; it is recomputed synchronously on every
// component mutation and whenever a referenced item's unit cost changes.
//
// Invariant: TotalCost == Σ(component.QuantityRequired × effective unit cost).
type Recipe struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"size:255;not null"`
	FinishedGoodID *uuid.UUID      `gorm:"type:uuid;index"`
	YieldQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`

	Components []RecipeComponent `gorm:"foreignKey:RecipeID;references:ID"`
}

// TableName returns the table name for GORM
func (Recipe) TableName() string {
	return "recipes"
}

// NewRecipe creates a new bill of materials with no components
func NewRecipe(name string, yieldQuantity decimal.Decimal) (*Recipe, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Recipe name cannot be empty")
	}
	if yieldQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_YIELD", "Yield quantity must be positive")
	}

	return &Recipe{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		YieldQuantity:     yieldQuantity,
		TotalCost:         decimal.Zero,
		Active:            true,
		Components:        make([]RecipeComponent, 0),
	}, nil
}

// LinkFinishedGood ties the recipe to the finished-good inventory item its
// executions credit.
func (r *Recipe) LinkFinishedGood(itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Finished good item ID cannot be empty")
	}
	r.FinishedGoodID = &itemID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// UnlinkFinishedGood detaches the finished-good item
func (r *Recipe) UnlinkFinishedGood() {
	r.FinishedGoodID = nil
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// AddComponent appends a component line. The caller must trigger a cost
// recalculation afterwards; the application service does both in one step.
func (r *Recipe) AddComponent(itemID uuid.UUID, quantityRequired decimal.Decimal, costOverride *decimal.Decimal, notes string) (*RecipeComponent, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Component item ID cannot be empty")
	}
	if quantityRequired.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Component quantity must be positive")
	}
	for _, c := range r.Components {
		if c.ItemID == itemID {
			return nil, shared.NewDomainError("DUPLICATE_COMPONENT", "Item is already a component of this recipe")
		}
	}

	now := time.Now()
	component := RecipeComponent{
		ID:               uuid.New(),
		RecipeID:         r.ID,
		ItemID:           itemID,
		QuantityRequired: quantityRequired,
		Notes:            notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if costOverride != nil {
		if costOverride.IsNegative() {
			return nil, shared.NewDomainError("INVALID_COST", "Cost override cannot be negative")
		}
		component.CostOverride = decimal.NewNullDecimal(*costOverride)
	}

	r.Components = append(r.Components, component)
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewComponentAddedEvent(r, &component))

	return &component, nil
}

// RemoveComponent deletes a component line by ID
func (r *Recipe) RemoveComponent(componentID uuid.UUID) error {
	for idx, c := range r.Components {
		if c.ID == componentID {
			r.Components = append(r.Components[:idx], r.Components[idx+1:]...)
			r.UpdatedAt = time.Now()
			r.IncrementVersion()
			r.AddDomainEvent(NewComponentRemovedEvent(r, componentID, c.ItemID))
			return nil
		}
	}
	return shared.NewDomainError("COMPONENT_NOT_FOUND", "Recipe component not found")
}

// GetComponent returns a component by its ID
func (r *Recipe) GetComponent(componentID uuid.UUID) *RecipeComponent {
	for idx := range r.Components {
		if r.Components[idx].ID == componentID {
			return &r.Components[idx]
		}
	}
	return nil
}

// ComponentItemIDs returns the inventory item IDs of all components
func (r *Recipe) ComponentItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Components))
	for _, c := range r.Components {
		ids = append(ids, c.ItemID)
	}
	return ids
}

// RecalculateTotalCost recomputes the cached total cost from the component
// lines. itemUnitCosts maps item ID to that item's current unit cost; items
// missing from the map roll up at zero. A recipe with no components costs
// zero. The recomputation is idempotent.
func (r *Recipe) RecalculateTotalCost(itemUnitCosts map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Components {
		unitCost := c.EffectiveUnitCost(itemUnitCosts[c.ItemID])
		total = total.Add(c.QuantityRequired.Mul(unitCost))
	}

	if !r.TotalCost.Equal(total) {
		previous := r.TotalCost
		r.TotalCost = total
		r.UpdatedAt = time.Now()
		r.IncrementVersion()
		r.AddDomainEvent(NewCostRecalculatedEvent(r, previous))
	}

	return total
}

// Deactivate soft-deletes the recipe
func (r *Recipe) Deactivate() {
	r.Active = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
