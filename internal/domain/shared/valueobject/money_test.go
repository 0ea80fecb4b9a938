package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), INR)
		require.NoError(t, err)
		assert.Equal(t, INR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", INR)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", INR)
		assert.Error(t, err)
	})
}

func TestNewMoneyINR(t *testing.T) {
	m := NewMoneyINR(decimal.NewFromInt(2500))
	assert.Equal(t, INR, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(2500)))
}

func TestZeroINR(t *testing.T) {
	m := ZeroINR()
	assert.True(t, m.IsZero())
	assert.Equal(t, INR, m.Currency())
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyINR(decimal.NewFromInt(1000))
	b := NewMoneyINR(decimal.NewFromInt(1500))

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(2500)))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := b.Subtract(a)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(500)))
	})

	t.Run("mismatched currency fails", func(t *testing.T) {
		usd, _ := NewMoney(decimal.NewFromInt(10), USD)
		_, err := a.Add(usd)
		assert.Error(t, err)
		_, err = a.Subtract(usd)
		assert.Error(t, err)
	})

	t.Run("multiply by int", func(t *testing.T) {
		m := a.MultiplyByInt(4)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(4000)))
	})

	t.Run("divide", func(t *testing.T) {
		q, err := b.Divide(decimal.NewFromInt(4))
		require.NoError(t, err)
		assert.True(t, q.Amount().Equal(decimal.NewFromFloat(375)))
	})

	t.Run("divide by zero fails", func(t *testing.T) {
		_, err := a.Divide(decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("negate", func(t *testing.T) {
		n := a.Negate()
		assert.True(t, n.IsNegative())
		assert.True(t, n.Amount().Equal(decimal.NewFromInt(-1000)))
	})
}

func TestMoneyRounding(t *testing.T) {
	t.Run("round", func(t *testing.T) {
		m := NewMoneyINR(decimal.NewFromFloat(333.3333))
		assert.Equal(t, "333.33", m.Round(2).StringFixed(2))
	})

	t.Run("banker's rounding on half", func(t *testing.T) {
		m := NewMoneyINR(decimal.NewFromFloat(0.125))
		assert.Equal(t, "0.12", m.RoundBank(2).StringFixed(2))
		m = NewMoneyINR(decimal.NewFromFloat(0.135))
		assert.Equal(t, "0.14", m.RoundBank(2).StringFixed(2))
	})
}

func TestMoneyComparison(t *testing.T) {
	a := NewMoneyINR(decimal.NewFromInt(100))
	b := NewMoneyINR(decimal.NewFromInt(200))

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gte, err := b.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, a.Equals(NewMoneyINR(decimal.NewFromInt(100))))
	assert.False(t, a.Equals(b))
}

func TestMoneyAllocate(t *testing.T) {
	t.Run("splits evenly", func(t *testing.T) {
		m := NewMoneyINR(decimal.NewFromInt(2000))
		parts, err := m.Allocate(4)
		require.NoError(t, err)
		require.Len(t, parts, 4)
		for _, p := range parts {
			assert.True(t, p.Amount().Equal(decimal.NewFromInt(500)))
		}
	})

	t.Run("distributes remainder cents", func(t *testing.T) {
		m := NewMoneyINR(decimal.NewFromFloat(100.01))
		parts, err := m.Allocate(3)
		require.NoError(t, err)
		total := decimal.Zero
		for _, p := range parts {
			total = total.Add(p.Amount())
		}
		assert.True(t, total.Equal(decimal.NewFromFloat(100.01)))
	})

	t.Run("rejects non-positive parts", func(t *testing.T) {
		m := NewMoneyINR(decimal.NewFromInt(100))
		_, err := m.Allocate(0)
		assert.Error(t, err)
	})
}

func TestMoneyCalculatePercentage(t *testing.T) {
	m := NewMoneyINR(decimal.NewFromInt(2500))
	p := m.CalculatePercentage(decimal.NewFromInt(5))
	assert.True(t, p.Amount().Equal(decimal.NewFromInt(125)))
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyINR(decimal.NewFromFloat(98.50))
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyScan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("123.45"))
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(42))
}
