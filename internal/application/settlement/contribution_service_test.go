package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/chitfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestContribution(t *testing.T, group *chit.Group) (*chit.Contribution, *chit.Cycle) {
	t.Helper()
	cycle, err := chit.NewCycle(group, 1)
	require.NoError(t, err)
	member, err := chit.NewGroupMember(group.ID, uuid.New(), time.Now())
	require.NoError(t, err)
	contribution, err := chit.NewContribution(cycle, member, group.MonthlyContribution)
	require.NoError(t, err)
	return contribution, cycle
}

func TestInitializeCycle(t *testing.T) {
	ctx := context.Background()

	t.Run("creates contributions only for uncovered members", func(t *testing.T) {
		r := newTestRepos()
		svc := NewContributionService(r.scope, r.contributions, r.ledger, zap.NewNop())

		group := newTestGroup(4, 2500)
		cycle, err := chit.NewCycle(group, 1)
		require.NoError(t, err)

		memberA, err := chit.NewGroupMember(group.ID, uuid.New(), time.Now())
		require.NoError(t, err)
		memberB, err := chit.NewGroupMember(group.ID, uuid.New(), time.Now())
		require.NoError(t, err)
		existing, err := chit.NewContribution(cycle, memberA, group.MonthlyContribution)
		require.NoError(t, err)

		r.cycles.On("FindByID", mock.Anything, cycle.ID).Return(cycle, nil)
		r.groups.On("FindByID", mock.Anything, group.ID).Return(group, nil)
		r.members.On("FindByGroupID", mock.Anything, group.ID).
			Return([]*chit.GroupMember{memberA, memberB}, nil)
		r.contributions.On("FindByCycleID", mock.Anything, cycle.ID).
			Return([]*chit.Contribution{existing}, nil)

		var batch []*chit.Contribution
		r.contributions.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*chit.Contribution")).
			Run(func(args mock.Arguments) {
				batch = args.Get(1).([]*chit.Contribution)
			}).Return(nil)

		responses, err := svc.InitializeCycle(ctx, cycle.ID)
		require.NoError(t, err)
		require.Len(t, responses, 1)
		require.Len(t, batch, 1)
		assert.Equal(t, memberB.ID, batch[0].GroupMemberID)
		assert.True(t, batch[0].AmountPayable.Equal(group.MonthlyContribution))
	})

	t.Run("rerun with full coverage writes nothing", func(t *testing.T) {
		r := newTestRepos()
		svc := NewContributionService(r.scope, r.contributions, r.ledger, zap.NewNop())

		group := newTestGroup(4, 2500)
		contribution, cycle := newTestContribution(t, group)
		member := &chit.GroupMember{}
		member.ID = contribution.GroupMemberID
		member.GroupID = group.ID
		member.UserID = contribution.UserID

		r.cycles.On("FindByID", mock.Anything, cycle.ID).Return(cycle, nil)
		r.groups.On("FindByID", mock.Anything, group.ID).Return(group, nil)
		r.members.On("FindByGroupID", mock.Anything, group.ID).
			Return([]*chit.GroupMember{member}, nil)
		r.contributions.On("FindByCycleID", mock.Anything, cycle.ID).
			Return([]*chit.Contribution{contribution}, nil)

		responses, err := svc.InitializeCycle(ctx, cycle.ID)
		require.NoError(t, err)
		assert.Empty(t, responses)
		r.contributions.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("partial payment updates contribution, cycle total, and journal", func(t *testing.T) {
		r := newTestRepos()
		svc := NewContributionService(r.scope, r.contributions, r.ledger, zap.NewNop())

		group := newTestGroup(4, 2500)
		contribution, cycle := newTestContribution(t, group)

		r.contributions.On("FindByID", mock.Anything, contribution.ID).Return(contribution, nil)
		r.contributions.On("Save", mock.Anything, contribution).Return(nil)
		r.cycles.On("FindByID", mock.Anything, cycle.ID).Return(cycle, nil)
		r.cycles.On("Save", mock.Anything, cycle).Return(nil)
		r.ledger.On("LatestBalance", mock.Anything, contribution.UserID).Return(decimal.Zero, nil)

		var entry *chit.LedgerEntry
		r.ledger.On("Append", mock.Anything, mock.AnythingOfType("*chit.LedgerEntry")).
			Run(func(args mock.Arguments) {
				entry = args.Get(1).(*chit.LedgerEntry)
			}).Return(nil)

		resp, err := svc.RecordPayment(ctx, RecordPaymentInput{
			ContributionID: contribution.ID,
			Amount:         decimal.NewFromInt(1000),
			PaymentMode:    chit.PaymentModeUPI,
			ReferenceNo:    "UPI-001",
		})
		require.NoError(t, err)

		assert.Equal(t, chit.PaymentStatusPending.String(), resp.PaymentStatus)
		assert.True(t, resp.IsPartial)
		assert.True(t, resp.AmountPaid.Equal(decimal.NewFromInt(1000)))
		assert.True(t, cycle.TotalCollectionReceived.Equal(decimal.NewFromInt(1000)))

		require.NotNil(t, entry)
		assert.Equal(t, chit.TransactionTypeContribution, entry.TransactionType)
		assert.Equal(t, contribution.UserID, entry.UserID)
		assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(-1000)))
		require.NotNil(t, entry.ContributionID)
		assert.Equal(t, contribution.ID, *entry.ContributionID)

		r.ledger.AssertExpectations(t)
	})

	t.Run("payment reaching payable marks contribution paid", func(t *testing.T) {
		r := newTestRepos()
		svc := NewContributionService(r.scope, r.contributions, r.ledger, zap.NewNop())

		group := newTestGroup(4, 2500)
		contribution, cycle := newTestContribution(t, group)
		require.NoError(t, contribution.ApplyPayment(decimal.NewFromInt(1000), chit.PaymentModeUPI, ""))

		r.contributions.On("FindByID", mock.Anything, contribution.ID).Return(contribution, nil)
		r.contributions.On("Save", mock.Anything, contribution).Return(nil)
		r.cycles.On("FindByID", mock.Anything, cycle.ID).Return(cycle, nil)
		r.cycles.On("Save", mock.Anything, cycle).Return(nil)
		r.ledger.On("LatestBalance", mock.Anything, contribution.UserID).Return(decimal.NewFromInt(-1000), nil)
		r.ledger.On("Append", mock.Anything, mock.AnythingOfType("*chit.LedgerEntry")).Return(nil)

		resp, err := svc.RecordPayment(ctx, RecordPaymentInput{
			ContributionID: contribution.ID,
			Amount:         decimal.NewFromInt(1500),
			PaymentMode:    chit.PaymentModeCash,
		})
		require.NoError(t, err)
		assert.Equal(t, chit.PaymentStatusPaid.String(), resp.PaymentStatus)
		assert.False(t, resp.IsPartial)
	})

	t.Run("overpayment fails without writing anything", func(t *testing.T) {
		r := newTestRepos()
		svc := NewContributionService(r.scope, r.contributions, r.ledger, zap.NewNop())

		group := newTestGroup(4, 2500)
		contribution, _ := newTestContribution(t, group)
		require.NoError(t, contribution.ApplyPayment(decimal.NewFromInt(2000), chit.PaymentModeUPI, ""))

		r.contributions.On("FindByID", mock.Anything, contribution.ID).Return(contribution, nil)

		_, err := svc.RecordPayment(ctx, RecordPaymentInput{
			ContributionID: contribution.ID,
			Amount:         decimal.NewFromInt(1000),
			PaymentMode:    chit.PaymentModeUPI,
		})
		assert.ErrorIs(t, err, shared.ErrOverpayment)
		r.contributions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		r.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestAddSubPayment(t *testing.T) {
	r := newTestRepos()
	svc := NewContributionService(r.scope, r.contributions, r.ledger, zap.NewNop())

	group := newTestGroup(4, 2500)
	contribution, cycle := newTestContribution(t, group)

	r.contributions.On("FindByID", mock.Anything, contribution.ID).Return(contribution, nil)
	r.contributions.On("Save", mock.Anything, contribution).Return(nil)
	r.cycles.On("FindByID", mock.Anything, cycle.ID).Return(cycle, nil)
	r.cycles.On("Save", mock.Anything, cycle).Return(nil)
	r.ledger.On("LatestBalance", mock.Anything, contribution.UserID).Return(decimal.Zero, nil)

	var entry *chit.LedgerEntry
	r.ledger.On("Append", mock.Anything, mock.AnythingOfType("*chit.LedgerEntry")).
		Run(func(args mock.Arguments) {
			entry = args.Get(1).(*chit.LedgerEntry)
		}).Return(nil)

	_, err := svc.AddSubPayment(context.Background(), SubPaymentInput{
		ContributionID: contribution.ID,
		Amount:         decimal.NewFromInt(500),
		PaymentMode:    chit.PaymentModeCash,
		PayerName:      "Ravi",
	})
	require.NoError(t, err)

	// the journal entry stays under the member, noting who paid
	require.NotNil(t, entry)
	assert.Equal(t, contribution.UserID, entry.UserID)
	assert.Equal(t, "Sub-payment by Ravi", entry.Notes)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("overrides status without touching amounts", func(t *testing.T) {
		r := newTestRepos()
		svc := NewContributionService(r.scope, r.contributions, r.ledger, zap.NewNop())

		group := newTestGroup(4, 2500)
		contribution, _ := newTestContribution(t, group)

		r.contributions.On("FindByID", mock.Anything, contribution.ID).Return(contribution, nil)
		r.contributions.On("Save", mock.Anything, contribution).Return(nil)

		resp, err := svc.UpdateStatus(ctx, contribution.ID, chit.PaymentStatusPartial)
		require.NoError(t, err)
		assert.Equal(t, chit.PaymentStatusPartial.String(), resp.PaymentStatus)
		assert.True(t, resp.AmountPaid.IsZero())
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		r := newTestRepos()
		svc := NewContributionService(r.scope, r.contributions, r.ledger, zap.NewNop())

		group := newTestGroup(4, 2500)
		contribution, _ := newTestContribution(t, group)
		r.contributions.On("FindByID", mock.Anything, contribution.ID).Return(contribution, nil)

		_, err := svc.UpdateStatus(ctx, contribution.ID, chit.PaymentStatus("refunded"))
		assert.Error(t, err)
		r.contributions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestGetSubPayments(t *testing.T) {
	r := newTestRepos()
	svc := NewContributionService(r.scope, r.contributions, r.ledger, zap.NewNop())

	contributionID := uuid.New()
	entry, err := chit.NewLedgerEntry(uuid.New(), uuid.New(), chit.TransactionTypeContribution,
		decimal.NewFromInt(500), decimal.Zero)
	require.NoError(t, err)
	entry.WithContribution(contributionID).WithNotes("Sub-payment by Asha")

	r.ledger.On("FindByContributionID", mock.Anything, contributionID, chit.TransactionTypeContribution).
		Return([]*chit.LedgerEntry{entry}, nil)

	resp, err := svc.GetSubPayments(context.Background(), contributionID)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "Sub-payment by Asha", resp[0].Notes)
}
