package sales

import (
	"time"

	"github.com/craftpos/backend/internal/domain/checkout"
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/craftpos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a sale was paid
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentQRIS     PaymentMethod = "qris"
	PaymentTransfer PaymentMethod = "transfer"
)

// IsValid checks if the payment method is a known value
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentQRIS, PaymentTransfer:
		return true
	}
	return false
}

// SaleLineItem is one sold position, frozen at sale time. Name and unit
// price are denormalized so later catalog edits do not rewrite receipts.
type SaleLineItem struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID         `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	ItemName      string            `gorm:"size:255;not null"`
	Quantity      decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	UnitPrice     valueobject.Money `gorm:"type:decimal(18,4);not null"`
	LineTotal     valueobject.Money `gorm:"type:decimal(18,4);not null"`
	CreatedAt     time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleLineItem) TableName() string {
	return "sale_line_items"
}

// SaleTransaction is the immutable record of a completed sale. It is built
// once from a priced receipt and never mutated afterwards; corrections are
// new compensating transactions, not edits.
type SaleTransaction struct {
	shared.BaseAggregateRoot
	TransactionNumber string            `gorm:"size:50;not null;uniqueIndex"`
	Subtotal          valueobject.Money `gorm:"type:decimal(18,4);not null"`
	DiscountAmount    valueobject.Money `gorm:"type:decimal(18,4);not null"`
	TaxAmount         valueobject.Money `gorm:"type:decimal(18,4);not null"`
	TotalAmount       valueobject.Money `gorm:"type:decimal(18,4);not null"`
	PaymentAmount     valueobject.Money `gorm:"type:decimal(18,4);not null"`
	ChangeAmount      valueobject.Money `gorm:"type:decimal(18,4);not null"`
	PaymentMethod     PaymentMethod     `gorm:"size:20;not null;default:'cash'"`
	CashierName       string            `gorm:"size:255"`
	Notes             string            `gorm:"size:1000"`
	OccurredAt        time.Time         `gorm:"not null;index"`

	LineItems []SaleLineItem `gorm:"foreignKey:TransactionID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleTransaction) TableName() string {
	return "sale_transactions"
}

// NewSaleTransaction freezes a priced receipt and its payment into a sale
// record. All monetary amounts are rounded to the currency minor unit here,
// at the persistence boundary.
func NewSaleTransaction(
	transactionNumber string,
	receipt *checkout.PricedReceipt,
	payment valueobject.Money,
	change valueobject.Money,
	method PaymentMethod,
	cashierName string,
) (*SaleTransaction, error) {
	if transactionNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_NUMBER", "Transaction number cannot be empty")
	}
	if receipt == nil || len(receipt.Lines) == 0 {
		return nil, shared.ErrEmptyCart
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	now := time.Now()
	tx := &SaleTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TransactionNumber: transactionNumber,
		Subtotal:          receipt.Subtotal.RoundMinor(),
		DiscountAmount:    receipt.DiscountAmount.RoundMinor(),
		TaxAmount:         receipt.TaxAmount.RoundMinor(),
		TotalAmount:       receipt.Total.RoundMinor(),
		PaymentAmount:     payment.RoundMinor(),
		ChangeAmount:      change.RoundMinor(),
		PaymentMethod:     method,
		CashierName:       cashierName,
		OccurredAt:        now,
		LineItems:         make([]SaleLineItem, 0, len(receipt.Lines)),
	}

	for _, l := range receipt.Lines {
		tx.LineItems = append(tx.LineItems, SaleLineItem{
			ID:            uuid.New(),
			TransactionID: tx.ID,
			ItemID:        l.ItemID,
			ItemName:      l.ItemName,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice.RoundMinor(),
			LineTotal:     l.Total.RoundMinor(),
			CreatedAt:     now,
		})
	}

	tx.AddDomainEvent(NewSaleCompletedEvent(tx))
	return tx, nil
}
