package sales

import (
	"time"

	"github.com/craftpos/backend/internal/domain/checkout"
	"github.com/craftpos/backend/internal/domain/sales"
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/craftpos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLineRequest is one cart position in a pricing or checkout request
type CartLineRequest struct {
	ItemID    string `json:"item_id" binding:"required,uuid"`
	Quantity  string `json:"quantity" binding:"required,decimal"`
	UnitPrice string `json:"unit_price" binding:"required,decimal"`
}

// DiscountRequest describes the cart-level discount
type DiscountRequest struct {
	Type  string `json:"type" binding:"omitempty,oneof=none percentage fixed"`
	Value string `json:"value,omitempty" binding:"omitempty,decimal"`
}

// TaxRequest describes the tax step
type TaxRequest struct {
	Enabled bool   `json:"enabled"`
	Rate    string `json:"rate,omitempty" binding:"omitempty,decimal"`
}

// PriceCartRequest prices a cart without touching stock
type PriceCartRequest struct {
	Lines    []CartLineRequest `json:"lines" binding:"required,dive"`
	Discount DiscountRequest   `json:"discount"`
	Tax      TaxRequest        `json:"tax"`
}

// CompleteSaleRequest prices a cart, validates payment, debits stock, and
// records the sale.
type CompleteSaleRequest struct {
	Lines         []CartLineRequest `json:"lines" binding:"required,dive"`
	Discount      DiscountRequest   `json:"discount"`
	Tax           TaxRequest        `json:"tax"`
	PaymentAmount string            `json:"payment_amount" binding:"required,decimal"`
	PaymentMethod string            `json:"payment_method" binding:"omitempty,oneof=cash card qris transfer"`
	CashierName   string            `json:"cashier_name,omitempty"`
}

// PricedLineResponse is one priced cart position
type PricedLineResponse struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// ReceiptResponse is the priced view of a cart
type ReceiptResponse struct {
	Lines          []PricedLineResponse `json:"lines"`
	Subtotal       string               `json:"subtotal"`
	DiscountAmount string               `json:"discount_amount"`
	TaxAmount      string               `json:"tax_amount"`
	Total          string               `json:"total"`
}

// SaleResponse is the recorded sale
type SaleResponse struct {
	ID                string               `json:"id"`
	TransactionNumber string               `json:"transaction_number"`
	Lines             []PricedLineResponse `json:"lines"`
	Subtotal          string               `json:"subtotal"`
	DiscountAmount    string               `json:"discount_amount"`
	TaxAmount         string               `json:"tax_amount"`
	TotalAmount       string               `json:"total_amount"`
	PaymentAmount     string               `json:"payment_amount"`
	ChangeAmount      string               `json:"change_amount"`
	PaymentMethod     string               `json:"payment_method"`
	CashierName       string               `json:"cashier_name,omitempty"`
	OccurredAt        time.Time            `json:"occurred_at"`
}

// ListFilter filters the sale listing
type ListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

func toCartLines(reqs []CartLineRequest) ([]checkout.CartLine, error) {
	lines := make([]checkout.CartLine, 0, len(reqs))
	for _, req := range reqs {
		itemID, err := uuid.Parse(req.ItemID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ITEM", "Invalid item_id value")
		}
		quantity, err := decimal.NewFromString(req.Quantity)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Invalid quantity value")
		}
		price, err := decimal.NewFromString(req.UnitPrice)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PRICE", "Invalid unit_price value")
		}
		lines = append(lines, checkout.CartLine{
			ItemID:    itemID,
			Quantity:  quantity,
			UnitPrice: valueobject.NewMoneyIDR(price),
		})
	}
	return lines, nil
}

func toDiscount(req DiscountRequest) (checkout.Discount, error) {
	if req.Type == "" || req.Type == string(checkout.DiscountNone) {
		return checkout.NoDiscount(), nil
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		return checkout.Discount{}, shared.NewDomainError("INVALID_DISCOUNT", "Invalid discount value")
	}
	switch checkout.DiscountType(req.Type) {
	case checkout.DiscountPercentage:
		return checkout.PercentageDiscount(value), nil
	case checkout.DiscountFixed:
		return checkout.FixedDiscount(value), nil
	default:
		return checkout.Discount{}, shared.NewDomainError("INVALID_DISCOUNT", "Unknown discount type")
	}
}

func toTaxPolicy(req TaxRequest) (checkout.TaxPolicy, error) {
	if !req.Enabled {
		return checkout.TaxPolicy{}, nil
	}
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		return checkout.TaxPolicy{}, shared.NewDomainError("INVALID_TAX_RATE", "Invalid tax rate value")
	}
	return checkout.TaxPolicy{Enabled: true, Rate: rate}, nil
}

func toReceiptResponse(receipt *checkout.PricedReceipt) ReceiptResponse {
	lines := make([]PricedLineResponse, 0, len(receipt.Lines))
	for _, l := range receipt.Lines {
		lines = append(lines, PricedLineResponse{
			ItemID:    l.ItemID.String(),
			ItemName:  l.ItemName,
			Quantity:  l.Quantity.String(),
			UnitPrice: l.UnitPrice.Amount().String(),
			LineTotal: l.Total.Amount().String(),
		})
	}
	return ReceiptResponse{
		Lines:          lines,
		Subtotal:       receipt.Subtotal.Amount().String(),
		DiscountAmount: receipt.DiscountAmount.Amount().String(),
		TaxAmount:      receipt.TaxAmount.Amount().String(),
		Total:          receipt.Total.Amount().String(),
	}
}

// ToSaleResponse maps a recorded sale to its API representation
func ToSaleResponse(tx *sales.SaleTransaction) SaleResponse {
	lines := make([]PricedLineResponse, 0, len(tx.LineItems))
	for _, l := range tx.LineItems {
		lines = append(lines, PricedLineResponse{
			ItemID:    l.ItemID.String(),
			ItemName:  l.ItemName,
			Quantity:  l.Quantity.String(),
			UnitPrice: l.UnitPrice.Amount().String(),
			LineTotal: l.LineTotal.Amount().String(),
		})
	}
	return SaleResponse{
		ID:                tx.ID.String(),
		TransactionNumber: tx.TransactionNumber,
		Lines:             lines,
		Subtotal:          tx.Subtotal.Amount().String(),
		DiscountAmount:    tx.DiscountAmount.Amount().String(),
		TaxAmount:         tx.TaxAmount.Amount().String(),
		TotalAmount:       tx.TotalAmount.Amount().String(),
		PaymentAmount:     tx.PaymentAmount.Amount().String(),
		ChangeAmount:      tx.ChangeAmount.Amount().String(),
		PaymentMethod:     string(tx.PaymentMethod),
		CashierName:       tx.CashierName,
		OccurredAt:        tx.OccurredAt,
	}
}
