package inventory

import (
	"context"

	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemRepository defines the persistence interface for inventory items
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindActiveByID finds an item by ID, treating inactive items as absent
	FindActiveByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindBySKU finds an item by its SKU
	FindBySKU(ctx context.Context, sku string) (*InventoryItem, error)

	// FindByIDs finds multiple items by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]InventoryItem, error)

	// FindAll finds items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryItem, error)

	// FindBelowMinimum finds active items under their minimum threshold
	FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]InventoryItem, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *InventoryItem) error

	// Count counts items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySKU checks whether a SKU is already registered
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
