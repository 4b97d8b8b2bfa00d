package checkout

import (
	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/craftpos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType selects how a cart-level discount is interpreted
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount is a cart-level price reduction. Percentage values are expressed
// as 0–100; fixed values are an absolute amount capped at the subtotal.
type Discount struct {
	Type  DiscountType
	Value decimal.Decimal
}

// NoDiscount returns the zero discount
func NoDiscount() Discount {
	return Discount{Type: DiscountNone, Value: decimal.Zero}
}

// PercentageDiscount builds a percentage discount
func PercentageDiscount(percent decimal.Decimal) Discount {
	return Discount{Type: DiscountPercentage, Value: percent}
}

// FixedDiscount builds a fixed-amount discount
func FixedDiscount(amount decimal.Decimal) Discount {
	return Discount{Type: DiscountFixed, Value: amount}
}

// TaxPolicy controls the tax step. Rate is a percentage (e.g. 10 for 10%)
// applied to the discounted base.
type TaxPolicy struct {
	Enabled bool
	Rate    decimal.Decimal
}

// CartLine is one priced position in a cart
type CartLine struct {
	ItemID    uuid.UUID
	ItemName  string
	Quantity  decimal.Decimal
	UnitPrice valueobject.Money
}

// LineTotal returns quantity times unit price
func (l CartLine) LineTotal() valueobject.Money {
	return l.UnitPrice.Multiply(l.Quantity)
}

// PricedLine is a cart line with its extended total
type PricedLine struct {
	CartLine
	Total valueobject.Money
}

// PricedReceipt is the outcome of pricing a cart. All amounts derive from the
// lines in a fixed order: subtotal, then discount, then tax on the discounted
// base. Amounts are rounded to the currency's minor unit only at the end.
type PricedReceipt struct {
	Lines          []PricedLine
	Subtotal       valueobject.Money
	DiscountAmount valueobject.Money
	TaxableBase    valueobject.Money
	TaxAmount      valueobject.Money
	Total          valueobject.Money
}

// PriceCart prices a cart deterministically. The computation is pure: no
// clock, no randomness, no I/O. Order of operations is fixed and discount is
// always applied before tax.
func PriceCart(lines []CartLine, discount Discount, tax TaxPolicy) (*PricedReceipt, error) {
	if len(lines) == 0 {
		return nil, shared.ErrEmptyCart
	}

	currency := lines[0].UnitPrice.Currency()
	subtotal := valueobject.Zero(currency)
	priced := make([]PricedLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
		total := line.LineTotal()
		var err error
		subtotal, err = subtotal.Add(total)
		if err != nil {
			return nil, shared.NewDomainError("CURRENCY_MISMATCH", "All cart lines must share one currency")
		}
		priced = append(priced, PricedLine{CartLine: line, Total: total.RoundMinor()})
	}

	discountAmount, err := resolveDiscount(discount, subtotal)
	if err != nil {
		return nil, err
	}

	base, err := subtotal.Subtract(discountAmount)
	if err != nil {
		return nil, err
	}

	taxAmount := valueobject.Zero(currency)
	if tax.Enabled {
		if tax.Rate.IsNegative() {
			return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
		}
		taxAmount = base.CalculatePercentage(tax.Rate)
	}

	total := base.MustAdd(taxAmount)

	return &PricedReceipt{
		Lines:          priced,
		Subtotal:       subtotal.RoundMinor(),
		DiscountAmount: discountAmount.RoundMinor(),
		TaxableBase:    base.RoundMinor(),
		TaxAmount:      taxAmount.RoundMinor(),
		Total:          total.RoundMinor(),
	}, nil
}

func resolveDiscount(d Discount, subtotal valueobject.Money) (valueobject.Money, error) {
	currency := subtotal.Currency()
	switch d.Type {
	case DiscountNone, "":
		return valueobject.Zero(currency), nil
	case DiscountPercentage:
		if d.Value.IsNegative() || d.Value.GreaterThan(decimal.NewFromInt(100)) {
			return valueobject.Money{}, shared.NewDomainError("INVALID_DISCOUNT", "Percentage discount must be between 0 and 100")
		}
		return subtotal.CalculatePercentage(d.Value), nil
	case DiscountFixed:
		if d.Value.IsNegative() {
			return valueobject.Money{}, shared.NewDomainError("INVALID_DISCOUNT", "Fixed discount cannot be negative")
		}
		// a fixed discount never drives the total negative
		if d.Value.GreaterThan(subtotal.Amount()) {
			return subtotal, nil
		}
		amount, err := valueobject.NewMoney(d.Value, currency)
		if err != nil {
			return valueobject.Money{}, shared.NewDomainError("INVALID_DISCOUNT", err.Error())
		}
		return amount, nil
	default:
		return valueobject.Money{}, shared.NewDomainError("INVALID_DISCOUNT", "Unknown discount type")
	}
}

// ValidatePayment checks the tendered amount against the receipt total and
// returns the change due. Payments below the total are rejected.
func ValidatePayment(receipt *PricedReceipt, payment valueobject.Money) (valueobject.Money, error) {
	if payment.IsNegative() {
		return valueobject.Money{}, shared.NewDomainError("INVALID_PAYMENT", "Payment cannot be negative")
	}
	short, err := payment.LessThan(receipt.Total)
	if err != nil {
		return valueobject.Money{}, shared.NewDomainError("CURRENCY_MISMATCH", err.Error())
	}
	if short {
		return valueobject.Money{}, shared.ErrInsufficientPayment.WithDetails(map[string]string{
			"total_due": receipt.Total.Amount().String(),
			"tendered":  payment.Amount().String(),
		})
	}
	change, err := payment.Subtract(receipt.Total)
	if err != nil {
		return valueobject.Money{}, err
	}
	return change.RoundMinor(), nil
}
