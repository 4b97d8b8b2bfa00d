package sales

import (
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for sales
const (
	EventTypeSaleCompleted = "sales.sale_completed"
)

const aggregateTypeSale = "SaleTransaction"

// SaleCompletedEvent is emitted when a sale is recorded
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	TransactionNumber string          `json:"transaction_number"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	LineCount         int             `json:"line_count"`
}

// NewSaleCompletedEvent creates a SaleCompletedEvent
func NewSaleCompletedEvent(tx *SaleTransaction) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeSaleCompleted, aggregateTypeSale, tx.ID),
		TransactionNumber: tx.TransactionNumber,
		TotalAmount:       tx.TotalAmount.Amount(),
		LineCount:         len(tx.LineItems),
	}
}
