package production

import (
	"context"

	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the persistence interface for production orders
type OrderRepository interface {
	// FindByID finds an order with its material usage lines
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionOrder, error)

	// FindByOrderNumber finds an order by its human-readable number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*ProductionOrder, error)

	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductionOrder, error)

	// FindByStatus finds orders in the given status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]ProductionOrder, error)

	// Save creates or updates an order and its usage lines
	Save(ctx context.Context, order *ProductionOrder) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextOrderNumber allocates the next sequential order number
	NextOrderNumber(ctx context.Context) (string, error)
}
