package recipe

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CachedCost is the cost view of a recipe as stored in the cache
type CachedCost struct {
	TotalCost decimal.Decimal `json:"total_cost"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CostCache is a read-through cache for recipe costs. The persisted
// TotalCost column remains the source of truth; the cache only shortcuts
// repeated cost reads and is invalidated on every recomputation.
type CostCache interface {
	// Get returns the cached cost, or found=false on a miss
	Get(ctx context.Context, recipeID uuid.UUID) (cost CachedCost, found bool, err error)

	// Set stores the cost
	Set(ctx context.Context, recipeID uuid.UUID, cost CachedCost) error

	// Invalidate drops the cached cost
	Invalidate(ctx context.Context, recipeID uuid.UUID) error
}
