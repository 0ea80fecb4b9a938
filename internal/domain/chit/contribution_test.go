package chit

import (
	"testing"
	"time"

	"github.com/chitfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContribution(t *testing.T, payable int64) *Contribution {
	t.Helper()
	group := testGroup(t, payable*4, 4)
	cycle, err := NewCycle(group, 1)
	require.NoError(t, err)
	member, err := NewGroupMember(group.ID, uuid.New(), time.Now())
	require.NoError(t, err)
	c, err := NewContribution(cycle, member, decimal.NewFromInt(payable))
	require.NoError(t, err)
	return c
}

func TestNewContribution(t *testing.T) {
	c := testContribution(t, 2500)
	assert.Equal(t, PaymentStatusPending, c.PaymentStatus)
	assert.True(t, c.AmountPaid.IsZero())
	assert.False(t, c.IsPartial)
	assert.True(t, c.Outstanding().Equal(decimal.NewFromInt(2500)))
}

func TestApplyPayment(t *testing.T) {
	t.Run("partial then full payment", func(t *testing.T) {
		c := testContribution(t, 2500)

		require.NoError(t, c.ApplyPayment(decimal.NewFromInt(1000), PaymentModeUPI, "REF-1"))
		assert.True(t, c.AmountPaid.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, PaymentStatusPending, c.PaymentStatus)
		assert.True(t, c.IsPartial)
		assert.NotNil(t, c.PaymentDate)

		require.NoError(t, c.ApplyPayment(decimal.NewFromInt(1500), PaymentModeCash, ""))
		assert.True(t, c.AmountPaid.Equal(decimal.NewFromInt(2500)))
		assert.Equal(t, PaymentStatusPaid, c.PaymentStatus)
		assert.False(t, c.IsPartial)
		assert.True(t, c.IsSettled())
	})

	t.Run("amount paid equals sum of payments", func(t *testing.T) {
		c := testContribution(t, 2500)
		payments := []int64{500, 750, 250, 1000}
		for _, p := range payments {
			require.NoError(t, c.ApplyPayment(decimal.NewFromInt(p), PaymentModeBank, ""))
		}
		assert.True(t, c.AmountPaid.Equal(decimal.NewFromInt(2500)))
		assert.Equal(t, PaymentStatusPaid, c.PaymentStatus)
	})

	t.Run("rejects overpayment with no state change", func(t *testing.T) {
		c := testContribution(t, 2500)
		require.NoError(t, c.ApplyPayment(decimal.NewFromInt(2000), PaymentModeUPI, ""))

		err := c.ApplyPayment(decimal.NewFromInt(1000), PaymentModeUPI, "")
		assert.ErrorIs(t, err, shared.ErrOverpayment)
		assert.True(t, c.AmountPaid.Equal(decimal.NewFromInt(2000)))
		assert.Equal(t, PaymentStatusPending, c.PaymentStatus)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		c := testContribution(t, 2500)
		assert.Error(t, c.ApplyPayment(decimal.Zero, PaymentModeUPI, ""))
		assert.Error(t, c.ApplyPayment(decimal.NewFromInt(-100), PaymentModeUPI, ""))
	})

	t.Run("rejects unknown payment mode", func(t *testing.T) {
		c := testContribution(t, 2500)
		assert.Error(t, c.ApplyPayment(decimal.NewFromInt(100), PaymentMode("crypto"), ""))
	})

	t.Run("payment on overdue contribution returns it to pending", func(t *testing.T) {
		c := testContribution(t, 2500)
		require.NoError(t, c.MarkOverdue())

		require.NoError(t, c.ApplyPayment(decimal.NewFromInt(500), PaymentModeCash, ""))
		assert.Equal(t, PaymentStatusPending, c.PaymentStatus)
		assert.True(t, c.IsPartial)
	})
}

func TestOverrideStatus(t *testing.T) {
	c := testContribution(t, 2500)

	require.NoError(t, c.OverrideStatus(PaymentStatusPartial))
	assert.Equal(t, PaymentStatusPartial, c.PaymentStatus)

	assert.Error(t, c.OverrideStatus(PaymentStatus("refunded")))
	assert.Equal(t, PaymentStatusPartial, c.PaymentStatus)
}

func TestMarkOverdue(t *testing.T) {
	t.Run("pending becomes overdue", func(t *testing.T) {
		c := testContribution(t, 2500)
		require.NoError(t, c.MarkOverdue())
		assert.Equal(t, PaymentStatusOverdue, c.PaymentStatus)
	})

	t.Run("idempotent on overdue", func(t *testing.T) {
		c := testContribution(t, 2500)
		require.NoError(t, c.MarkOverdue())
		require.NoError(t, c.MarkOverdue())
		assert.Equal(t, PaymentStatusOverdue, c.PaymentStatus)
	})

	t.Run("paid cannot become overdue", func(t *testing.T) {
		c := testContribution(t, 2500)
		require.NoError(t, c.ApplyPayment(decimal.NewFromInt(2500), PaymentModeUPI, ""))
		assert.ErrorIs(t, c.MarkOverdue(), shared.ErrInvalidState)
	})
}
