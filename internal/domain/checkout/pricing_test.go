package checkout

import (
	"testing"

	"github.com/craftpos/backend/internal/domain/shared"
	"github.com/craftpos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(name string, qty int64, unitPrice int64) CartLine {
	return CartLine{
		ItemID:    uuid.New(),
		ItemName:  name,
		Quantity:  decimal.NewFromInt(qty),
		UnitPrice: valueobject.NewMoneyIDR(decimal.NewFromInt(unitPrice)),
	}
}

func TestPriceCart(t *testing.T) {
	t.Run("empty cart is rejected", func(t *testing.T) {
		_, err := PriceCart(nil, NoDiscount(), TaxPolicy{})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_CART", domainErr.Code)
	})

	t.Run("subtotal sums line totals", func(t *testing.T) {
		receipt, err := PriceCart([]CartLine{
			line("Latte", 2, 25000),
			line("Croissant", 1, 18000),
		}, NoDiscount(), TaxPolicy{})

		require.NoError(t, err)
		assert.True(t, receipt.Subtotal.Amount().Equal(decimal.NewFromInt(68000)))
		assert.True(t, receipt.DiscountAmount.IsZero())
		assert.True(t, receipt.TaxAmount.IsZero())
		assert.True(t, receipt.Total.Amount().Equal(decimal.NewFromInt(68000)))
		require.Len(t, receipt.Lines, 2)
		assert.True(t, receipt.Lines[0].Total.Amount().Equal(decimal.NewFromInt(50000)))
	})

	t.Run("discount applies before tax", func(t *testing.T) {
		// subtotal 100,000; 10% discount; 10% tax on 90,000 = 9,000
		receipt, err := PriceCart([]CartLine{
			line("Bundle", 1, 100000),
		}, PercentageDiscount(decimal.NewFromInt(10)), TaxPolicy{Enabled: true, Rate: decimal.NewFromInt(10)})

		require.NoError(t, err)
		assert.True(t, receipt.Subtotal.Amount().Equal(decimal.NewFromInt(100000)))
		assert.True(t, receipt.DiscountAmount.Amount().Equal(decimal.NewFromInt(10000)))
		assert.True(t, receipt.TaxableBase.Amount().Equal(decimal.NewFromInt(90000)))
		assert.True(t, receipt.TaxAmount.Amount().Equal(decimal.NewFromInt(9000)))
		assert.True(t, receipt.Total.Amount().Equal(decimal.NewFromInt(99000)))
	})

	t.Run("fixed discount is capped at the subtotal", func(t *testing.T) {
		receipt, err := PriceCart([]CartLine{
			line("Latte", 1, 25000),
		}, FixedDiscount(decimal.NewFromInt(40000)), TaxPolicy{})

		require.NoError(t, err)
		assert.True(t, receipt.DiscountAmount.Amount().Equal(decimal.NewFromInt(25000)))
		assert.True(t, receipt.Total.IsZero())
	})

	t.Run("percentage discount outside 0-100 is rejected", func(t *testing.T) {
		_, err := PriceCart([]CartLine{line("Latte", 1, 25000)}, PercentageDiscount(decimal.NewFromInt(120)), TaxPolicy{})
		require.Error(t, err)

		_, err = PriceCart([]CartLine{line("Latte", 1, 25000)}, PercentageDiscount(decimal.NewFromInt(-5)), TaxPolicy{})
		assert.Error(t, err)
	})

	t.Run("hundred percent discount totals zero", func(t *testing.T) {
		receipt, err := PriceCart([]CartLine{
			line("Latte", 1, 25000),
		}, PercentageDiscount(decimal.NewFromInt(100)), TaxPolicy{Enabled: true, Rate: decimal.NewFromInt(10)})

		require.NoError(t, err)
		assert.True(t, receipt.Total.IsZero())
		assert.True(t, receipt.TaxAmount.IsZero())
	})

	t.Run("disabled tax adds nothing even with a rate set", func(t *testing.T) {
		receipt, err := PriceCart([]CartLine{
			line("Latte", 1, 25000),
		}, NoDiscount(), TaxPolicy{Enabled: false, Rate: decimal.NewFromInt(10)})

		require.NoError(t, err)
		assert.True(t, receipt.TaxAmount.IsZero())
		assert.True(t, receipt.Total.Amount().Equal(decimal.NewFromInt(25000)))
	})

	t.Run("rounds to the minor unit only at the end", func(t *testing.T) {
		// 3 × 3,333 = 9,999; 7.5% tax = 749.925 → total 10,748.925 → 10,749 IDR
		receipt, err := PriceCart([]CartLine{
			line("Sticker", 3, 3333),
		}, NoDiscount(), TaxPolicy{Enabled: true, Rate: decimal.NewFromFloat(7.5)})

		require.NoError(t, err)
		assert.True(t, receipt.Total.Amount().Equal(decimal.NewFromInt(10749)))
	})

	t.Run("rejects non-positive quantities and negative prices", func(t *testing.T) {
		bad := line("Latte", 0, 25000)
		_, err := PriceCart([]CartLine{bad}, NoDiscount(), TaxPolicy{})
		require.Error(t, err)

		bad = line("Latte", 1, -100)
		_, err = PriceCart([]CartLine{bad}, NoDiscount(), TaxPolicy{})
		assert.Error(t, err)
	})

	t.Run("pricing is deterministic", func(t *testing.T) {
		lines := []CartLine{line("Latte", 2, 25000), line("Croissant", 3, 18000)}
		discount := PercentageDiscount(decimal.NewFromFloat(12.5))
		tax := TaxPolicy{Enabled: true, Rate: decimal.NewFromInt(11)}

		first, err := PriceCart(lines, discount, tax)
		require.NoError(t, err)
		second, err := PriceCart(lines, discount, tax)
		require.NoError(t, err)

		assert.True(t, first.Total.Equals(second.Total))
		assert.True(t, first.TaxAmount.Equals(second.TaxAmount))
	})
}

func TestValidatePayment(t *testing.T) {
	receipt, err := PriceCart([]CartLine{
		line("Bundle", 1, 100000),
	}, PercentageDiscount(decimal.NewFromInt(10)), TaxPolicy{Enabled: true, Rate: decimal.NewFromInt(10)})
	require.NoError(t, err)

	t.Run("payment of 100,000 against 99,000 returns 1,000 change", func(t *testing.T) {
		change, err := ValidatePayment(receipt, valueobject.NewMoneyIDR(decimal.NewFromInt(100000)))

		require.NoError(t, err)
		assert.True(t, change.Amount().Equal(decimal.NewFromInt(1000)))
	})

	t.Run("exact payment returns zero change", func(t *testing.T) {
		change, err := ValidatePayment(receipt, valueobject.NewMoneyIDR(decimal.NewFromInt(99000)))

		require.NoError(t, err)
		assert.True(t, change.IsZero())
	})

	t.Run("short payment is rejected with amounts in details", func(t *testing.T) {
		_, err := ValidatePayment(receipt, valueobject.NewMoneyIDR(decimal.NewFromInt(98000)))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_PAYMENT", domainErr.Code)
		details, ok := domainErr.Details.(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "99000", details["total_due"])
	})

	t.Run("negative payment is rejected", func(t *testing.T) {
		_, err := ValidatePayment(receipt, valueobject.NewMoneyIDR(decimal.NewFromInt(-1)))
		assert.Error(t, err)
	})
}
