package recipe

import (
	"context"

	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the persistence interface for recipes. Components are
// child entities of the Recipe aggregate and are persisted through Save via
// association handling; RemoveComponentRow exists because deleting a line
// from a slice does not delete the underlying row.
type Repository interface {
	// FindByID finds a recipe with its components
	FindByID(ctx context.Context, id uuid.UUID) (*Recipe, error)

	// FindAll finds recipes matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Recipe, error)

	// FindByFinishedGood finds recipes yielding the given finished-good item
	FindByFinishedGood(ctx context.Context, itemID uuid.UUID) ([]Recipe, error)

	// FindReferencingItem finds recipes with a component referencing the item
	FindReferencingItem(ctx context.Context, itemID uuid.UUID) ([]Recipe, error)

	// Save creates or updates a recipe and its component rows
	Save(ctx context.Context, r *Recipe) error

	// RemoveComponentRow deletes a single component row
	RemoveComponentRow(ctx context.Context, componentID uuid.UUID) error

	// Count counts recipes matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
