package production

import (
	"fmt"
	"time"

	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Priority levels for production scheduling
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the priority is a known value
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ProductionOrder is the aggregate root for a planned execution of a recipe.
// Status moves planned → in_progress → completed, with cancelled reachable
// from either non-terminal state. Stock only moves on completion.
type ProductionOrder struct {
	shared.BaseAggregateRoot
	OrderNumber       string          `gorm:"size:50;not null;uniqueIndex"`
	RecipeID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityToProduce decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status            OrderStatus     `gorm:"size:20;not null;default:'planned';index"`
	Priority          Priority        `gorm:"size:20;not null;default:'normal'"`
	PlannedDate       *time.Time      `gorm:""`
	StartedAt         *time.Time      `gorm:""`
	CompletedAt       *time.Time      `gorm:""`
	Notes             string          `gorm:"size:1000"`
	CreatedBy         string          `gorm:"size:255"`

	MaterialUsages []MaterialUsage `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductionOrder) TableName() string {
	return "production_orders"
}

// NewProductionOrder creates a new order in the planned state
func NewProductionOrder(orderNumber string, recipeID uuid.UUID, quantity decimal.Decimal, createdBy string) (*ProductionOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if recipeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPE", "Recipe ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity to produce must be positive")
	}

	order := &ProductionOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		RecipeID:          recipeID,
		QuantityToProduce: quantity,
		Status:            StatusPlanned,
		Priority:          PriorityNormal,
		CreatedBy:         createdBy,
		MaterialUsages:    make([]MaterialUsage, 0),
	}
	order.AddDomainEvent(NewOrderPlannedEvent(order))
	return order, nil
}

// TransitionTo moves the order to the target status, enforcing the state
// machine. Timestamps are stamped as a side effect: started_at on entering
// in_progress, completed_at on entering completed.
func (o *ProductionOrder) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewInvalidTransitionError(string(o.Status), string(target))
	}

	previous := o.Status
	o.Status = target
	now := time.Now()
	switch target {
	case StatusInProgress:
		o.StartedAt = &now
	case StatusCompleted:
		o.CompletedAt = &now
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderTransitionedEvent(o, previous))
	return nil
}

// Start moves the order from planned to in_progress
func (o *ProductionOrder) Start() error {
	return o.TransitionTo(StatusInProgress)
}

// Complete marks the order completed. The caller performs the stock
// movements first; this only records the outcome.
func (o *ProductionOrder) Complete() error {
	return o.TransitionTo(StatusCompleted)
}

// Cancel abandons the order
func (o *ProductionOrder) Cancel() error {
	return o.TransitionTo(StatusCancelled)
}

// SetPriority changes the scheduling priority
func (o *ProductionOrder) SetPriority(p Priority) error {
	if !p.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", fmt.Sprintf("Unknown priority: %s", p))
	}
	o.Priority = p
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetPlannedDate schedules the order
func (o *ProductionOrder) SetPlannedDate(d time.Time) {
	o.PlannedDate = &d
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// RecordMaterialUsage appends a usage line with planned and actual
// quantities and a snapshot of the item's unit cost at execution time.
func (o *ProductionOrder) RecordMaterialUsage(itemID uuid.UUID, planned, used, unitCost decimal.Decimal) (*MaterialUsage, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Material item ID cannot be empty")
	}
	if used.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Used quantity cannot be negative")
	}

	now := time.Now()
	usage := MaterialUsage{
		ID:               uuid.New(),
		OrderID:          o.ID,
		ItemID:           itemID,
		QuantityPlanned:  planned,
		QuantityUsed:     used,
		UnitCostSnapshot: unitCost,
		CreatedAt:        now,
	}
	o.MaterialUsages = append(o.MaterialUsages, usage)
	o.UpdatedAt = now
	return &usage, nil
}

// TotalMaterialCost sums used quantity times the cost snapshot
func (o *ProductionOrder) TotalMaterialCost() decimal.Decimal {
	total := decimal.Zero
	for _, u := range o.MaterialUsages {
		total = total.Add(u.QuantityUsed.Mul(u.UnitCostSnapshot))
	}
	return total
}
