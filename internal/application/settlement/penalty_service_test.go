package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestApplyPenalty(t *testing.T) {
	ctx := context.Background()

	t.Run("creates penalty and journals the charge", func(t *testing.T) {
		r := newTestRepos()
		svc := NewPenaltyService(r.scope, r.penalties, zap.NewNop())

		group := newTestGroup(4, 2500)
		contribution, _ := newTestContribution(t, group)

		r.contributions.On("FindByID", mock.Anything, contribution.ID).Return(contribution, nil)
		r.penalties.On("Create", mock.Anything, mock.AnythingOfType("*chit.Penalty")).Return(nil)
		r.ledger.On("LatestBalance", mock.Anything, contribution.UserID).Return(decimal.Zero, nil)

		var entry *chit.LedgerEntry
		r.ledger.On("Append", mock.Anything, mock.AnythingOfType("*chit.LedgerEntry")).
			Run(func(args mock.Arguments) {
				entry = args.Get(1).(*chit.LedgerEntry)
			}).Return(nil)

		resp, err := svc.Apply(ctx, ApplyPenaltyInput{
			ContributionID: contribution.ID,
			Amount:         decimal.NewFromInt(125),
			Reason:         "Late payment",
		})
		require.NoError(t, err)

		assert.Equal(t, contribution.UserID, resp.UserID)
		assert.Equal(t, contribution.CycleID, resp.CycleID)
		assert.True(t, resp.PenaltyAmount.Equal(decimal.NewFromInt(125)))

		require.NotNil(t, entry)
		assert.Equal(t, chit.TransactionTypePenalty, entry.TransactionType)
		assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(-125)))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		r := newTestRepos()
		svc := NewPenaltyService(r.scope, r.penalties, zap.NewNop())

		group := newTestGroup(4, 2500)
		contribution, _ := newTestContribution(t, group)
		r.contributions.On("FindByID", mock.Anything, contribution.ID).Return(contribution, nil)

		_, err := svc.Apply(ctx, ApplyPenaltyInput{
			ContributionID: contribution.ID,
			Amount:         decimal.Zero,
			Reason:         "Late payment",
		})
		assert.Error(t, err)
		r.penalties.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAutoCheck(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*testRepos, *PenaltyService, *chit.Group, *chit.Contribution, *chit.Cycle) {
		r := newTestRepos()
		svc := NewPenaltyService(r.scope, r.penalties, zap.NewNop())
		group := newTestGroup(4, 2500)
		contribution, cycle := newTestContribution(t, group)
		r.groups.On("FindByID", mock.Anything, group.ID).Return(group, nil)
		return r, svc, group, contribution, cycle
	}

	// group starts January 2025 with due day 10, so cycle 1 is due Jan 10

	t.Run("penalises overdue pending contribution once", func(t *testing.T) {
		r, svc, group, contribution, cycle := setup(t)

		r.contributions.On("FindByGroupAndStatus", mock.Anything, group.ID, chit.PaymentStatusPending).
			Return([]*chit.Contribution{contribution}, nil)
		r.penalties.On("CountByContributionID", mock.Anything, contribution.ID).Return(int64(0), nil)
		r.cycles.On("FindByID", mock.Anything, cycle.ID).Return(cycle, nil)
		r.penalties.On("Create", mock.Anything, mock.AnythingOfType("*chit.Penalty")).Return(nil)
		r.ledger.On("LatestBalance", mock.Anything, contribution.UserID).Return(decimal.Zero, nil)
		r.ledger.On("Append", mock.Anything, mock.AnythingOfType("*chit.LedgerEntry")).Return(nil)
		r.contributions.On("Save", mock.Anything, contribution).Return(nil)

		asOf := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
		created, err := svc.AutoCheck(ctx, group.ID, asOf)
		require.NoError(t, err)

		require.Len(t, created, 1)
		assert.True(t, created[0].PenaltyAmount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, chit.PaymentStatusOverdue, contribution.PaymentStatus)
	})

	t.Run("skips contribution that already has a penalty", func(t *testing.T) {
		r, svc, group, contribution, _ := setup(t)

		r.contributions.On("FindByGroupAndStatus", mock.Anything, group.ID, chit.PaymentStatusPending).
			Return([]*chit.Contribution{contribution}, nil)
		r.penalties.On("CountByContributionID", mock.Anything, contribution.ID).Return(int64(1), nil)

		asOf := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
		created, err := svc.AutoCheck(ctx, group.ID, asOf)
		require.NoError(t, err)

		assert.Empty(t, created)
		r.penalties.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("skips contribution not yet due", func(t *testing.T) {
		r, svc, group, contribution, cycle := setup(t)

		r.contributions.On("FindByGroupAndStatus", mock.Anything, group.ID, chit.PaymentStatusPending).
			Return([]*chit.Contribution{contribution}, nil)
		r.penalties.On("CountByContributionID", mock.Anything, contribution.ID).Return(int64(0), nil)
		r.cycles.On("FindByID", mock.Anything, cycle.ID).Return(cycle, nil)

		asOf := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
		created, err := svc.AutoCheck(ctx, group.ID, asOf)
		require.NoError(t, err)

		assert.Empty(t, created)
		assert.Equal(t, chit.PaymentStatusPending, contribution.PaymentStatus)
	})

	t.Run("percentage penalty derives from amount payable", func(t *testing.T) {
		r := newTestRepos()
		svc := NewPenaltyService(r.scope, r.penalties, zap.NewNop())

		start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
		group, err := chit.NewGroup("Pct Chit", decimal.NewFromInt(10000), 4,
			decimal.NewFromInt(2500), start, chit.PenaltyTypePercentage, decimal.NewFromInt(5), 10)
		require.NoError(t, err)
		contribution, cycle := newTestContribution(t, group)

		r.groups.On("FindByID", mock.Anything, group.ID).Return(group, nil)
		r.contributions.On("FindByGroupAndStatus", mock.Anything, group.ID, chit.PaymentStatusPending).
			Return([]*chit.Contribution{contribution}, nil)
		r.penalties.On("CountByContributionID", mock.Anything, contribution.ID).Return(int64(0), nil)
		r.cycles.On("FindByID", mock.Anything, cycle.ID).Return(cycle, nil)
		r.penalties.On("Create", mock.Anything, mock.AnythingOfType("*chit.Penalty")).Return(nil)
		r.ledger.On("LatestBalance", mock.Anything, contribution.UserID).Return(decimal.Zero, nil)
		r.ledger.On("Append", mock.Anything, mock.AnythingOfType("*chit.LedgerEntry")).Return(nil)
		r.contributions.On("Save", mock.Anything, contribution).Return(nil)

		asOf := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
		created, err := svc.AutoCheck(ctx, group.ID, asOf)
		require.NoError(t, err)

		require.Len(t, created, 1)
		assert.True(t, created[0].PenaltyAmount.Equal(decimal.NewFromInt(125)))
	})
}
