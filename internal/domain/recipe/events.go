package recipe

import (
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for recipes
const (
	EventTypeComponentAdded   = "recipe.component_added"
	EventTypeComponentRemoved = "recipe.component_removed"
	EventTypeCostRecalculated = "recipe.cost_recalculated"
)

const aggregateTypeRecipe = "Recipe"

// ComponentAddedEvent is emitted when a component line is added
type ComponentAddedEvent struct {
	shared.BaseDomainEvent
	ComponentID      uuid.UUID       `json:"component_id"`
	ItemID           uuid.UUID       `json:"item_id"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
}

// NewComponentAddedEvent creates a ComponentAddedEvent
func NewComponentAddedEvent(r *Recipe, c *RecipeComponent) *ComponentAddedEvent {
	return &ComponentAddedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeComponentAdded, aggregateTypeRecipe, r.ID),
		ComponentID:      c.ID,
		ItemID:           c.ItemID,
		QuantityRequired: c.QuantityRequired,
	}
}

// ComponentRemovedEvent is emitted when a component line is removed
type ComponentRemovedEvent struct {
	shared.BaseDomainEvent
	ComponentID uuid.UUID `json:"component_id"`
	ItemID      uuid.UUID `json:"item_id"`
}

// NewComponentRemovedEvent creates a ComponentRemovedEvent
func NewComponentRemovedEvent(r *Recipe, componentID, itemID uuid.UUID) *ComponentRemovedEvent {
	return &ComponentRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeComponentRemoved, aggregateTypeRecipe, r.ID),
		ComponentID:     componentID,
		ItemID:          itemID,
	}
}

// CostRecalculatedEvent is emitted when the cached total cost changes
type CostRecalculatedEvent struct {
	shared.BaseDomainEvent
	PreviousCost decimal.Decimal `json:"previous_cost"`
	NewCost      decimal.Decimal `json:"new_cost"`
}

// NewCostRecalculatedEvent creates a CostRecalculatedEvent
func NewCostRecalculatedEvent(r *Recipe, previous decimal.Decimal) *CostRecalculatedEvent {
	return &CostRecalculatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCostRecalculated, aggregateTypeRecipe, r.ID),
		PreviousCost:    previous,
		NewCost:         r.TotalCost,
	}
}
