package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("adds amounts of the same currency", func(t *testing.T) {
		a := NewMoneyIDR(decimal.NewFromInt(1000))
		b := NewMoneyIDR(decimal.NewFromInt(500))

		sum, err := a.Add(b)

		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(1500)))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		a := NewMoneyIDR(decimal.NewFromInt(1000))
		b, err := NewMoney(decimal.NewFromInt(5), USD)
		require.NoError(t, err)

		_, err = a.Add(b)
		assert.Error(t, err)

		_, err = a.Subtract(b)
		assert.Error(t, err)
	})

	t.Run("calculates percentage without intermediate rounding", func(t *testing.T) {
		m := NewMoneyIDR(decimal.NewFromInt(90000))

		tax := m.CalculatePercentage(decimal.NewFromInt(10))

		assert.True(t, tax.Amount().Equal(decimal.NewFromInt(9000)))
	})
}

func TestMoney_RoundMinor(t *testing.T) {
	t.Run("IDR rounds to whole units", func(t *testing.T) {
		m := NewMoneyIDRFromFloat(1234.56)

		rounded := m.RoundMinor()

		assert.True(t, rounded.Amount().Equal(decimal.NewFromInt(1235)))
	})

	t.Run("USD keeps two decimal places", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(12.345), USD)
		require.NoError(t, err)

		rounded := m.RoundMinor()

		assert.Equal(t, "12.35", rounded.Amount().String())
	})
}

func TestMoney_JSON(t *testing.T) {
	m := NewMoneyIDR(decimal.NewFromInt(25000))

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("12500"))
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(12500)))
	assert.Equal(t, DefaultCurrency, m.Currency())

	var nilMoney Money
	require.NoError(t, nilMoney.Scan(nil))
	assert.True(t, nilMoney.IsZero())
}
