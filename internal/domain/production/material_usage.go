package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialUsage records one material consumed by a completed production
// order. QuantityPlanned is the recipe requirement scaled by the order
// quantity; QuantityUsed is what was actually debited. UnitCostSnapshot
// freezes the item's unit cost at execution time so later cost changes do
// not rewrite history.
type MaterialUsage struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityPlanned  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityUsed     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCostSnapshot decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MaterialUsage) TableName() string {
	return "production_material_usages"
}
