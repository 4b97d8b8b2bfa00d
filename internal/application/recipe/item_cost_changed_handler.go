package recipe

import (
	"context"

	"github.com/craftpos/backend/internal/domain/inventory"
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemCostChangedHandler eagerly recomputes the cached cost of every recipe
// referencing an item whose unit cost just changed. Keeping the rollup on
// the write path means cost reads stay a single row fetch.
type ItemCostChangedHandler struct {
	costService *CostService
	logger      *zap.Logger
}

// NewItemCostChangedHandler creates a new handler
func NewItemCostChangedHandler(costService *CostService, logger *zap.Logger) *ItemCostChangedHandler {
	return &ItemCostChangedHandler{
		costService: costService,
		logger:      logger,
	}
}

// EventTypes implements shared.EventHandler
func (h *ItemCostChangedHandler) EventTypes() []string {
	return []string{inventory.EventTypeItemCostChanged}
}

// Handle implements shared.EventHandler
func (h *ItemCostChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	itemID := event.AggregateID()
	if itemID == uuid.Nil {
		h.logger.Error("item cost change event without an aggregate ID",
			zap.String("event_id", event.EventID().String()))
		return nil
	}

	if err := h.costService.RecalculateForItem(ctx, itemID); err != nil {
		h.logger.Error("recipe cost recomputation failed",
			zap.String("item_id", itemID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

var _ shared.EventHandler = (*ItemCostChangedHandler)(nil)
