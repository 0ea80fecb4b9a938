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

func TestResolveAuction(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*testRepos, *AuctionService, *chit.Group, *chit.Cycle, []*chit.GroupMember) {
		r := newTestRepos()
		svc := NewAuctionService(r.scope, r.auctions, zap.NewNop())
		group := newTestGroup(4, 25000)
		cycle, err := chit.NewCycle(group, 1)
		require.NoError(t, err)
		members := make([]*chit.GroupMember, 0, 4)
		for i := 0; i < 4; i++ {
			m, merr := chit.NewGroupMember(group.ID, uuid.New(), time.Now())
			require.NoError(t, merr)
			members = append(members, m)
		}
		r.cycles.On("FindByID", mock.Anything, cycle.ID).Return(cycle, nil)
		r.groups.On("FindByID", mock.Anything, group.ID).Return(group, nil)
		return r, svc, group, cycle, members
	}

	t.Run("highest bid wins with earliest winning ties", func(t *testing.T) {
		r, svc, group, cycle, members := setup(t)

		r.auctions.On("FindByCycleID", mock.Anything, cycle.ID).Return(nil, shared.ErrNotFound)
		r.auctions.On("Upsert", mock.Anything, mock.AnythingOfType("*chit.Auction")).
			Return(func(_ context.Context, a *chit.Auction) *chit.Auction { return a }, nil)
		r.auctions.On("DeleteBids", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)

		var storedBids []*chit.Bid
		r.auctions.On("CreateBids", mock.Anything, mock.AnythingOfType("[]*chit.Bid")).
			Run(func(args mock.Arguments) {
				storedBids = args.Get(1).([]*chit.Bid)
			}).Return(nil)

		winner := members[1]
		r.members.On("FindByGroupAndUser", mock.Anything, group.ID, winner.UserID).Return(winner, nil)
		r.members.On("Save", mock.Anything, winner).Return(nil)
		r.cycles.On("Save", mock.Anything, cycle).Return(nil)

		resp, err := svc.Resolve(ctx, ResolveAuctionInput{
			CycleID:     cycle.ID,
			AuctionType: chit.AuctionTypeOffline,
			Bids: []chit.BidSubmission{
				{UserID: members[0].UserID, Amount: decimal.NewFromInt(1000)},
				{UserID: members[1].UserID, Amount: decimal.NewFromInt(2000)},
				{UserID: members[2].UserID, Amount: decimal.NewFromInt(2000)},
				{UserID: members[3].UserID, Amount: decimal.NewFromInt(1500)},
			},
		})
		require.NoError(t, err)

		require.NotNil(t, resp.WinnerUserID)
		assert.Equal(t, winner.UserID, *resp.WinnerUserID)
		assert.True(t, resp.WinningBidAmount.Equal(decimal.NewFromInt(2000)))
		assert.True(t, resp.WinnerPayoutAmount.Equal(decimal.NewFromInt(98000)))
		assert.True(t, resp.DividendPerMember.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, chit.AuctionStatusComplete.String(), resp.Status)

		assert.True(t, winner.HasWon())
		assert.True(t, cycle.IsAuctionComplete())
		require.Len(t, storedBids, 4)
	})

	t.Run("re-resolution replaces the previous result and bid set", func(t *testing.T) {
		r, svc, group, cycle, members := setup(t)

		existing, err := chit.NewAuction(group.ID, cycle.ID, chit.AuctionTypeOnline)
		require.NoError(t, err)
		existing.ApplySettlement(chit.ComputeSettlement(group,
			chit.BidSubmission{UserID: members[0].UserID, Amount: decimal.NewFromInt(1000)}))

		r.auctions.On("FindByCycleID", mock.Anything, cycle.ID).Return(existing, nil)
		r.auctions.On("Upsert", mock.Anything, existing).Return(existing, nil)
		r.auctions.On("DeleteBids", mock.Anything, existing.ID).Return(nil)
		r.auctions.On("CreateBids", mock.Anything, mock.AnythingOfType("[]*chit.Bid")).Return(nil)

		winner := members[2]
		r.members.On("FindByGroupAndUser", mock.Anything, group.ID, winner.UserID).Return(winner, nil)
		r.members.On("FindByGroupAndUser", mock.Anything, group.ID, members[0].UserID).Return(members[0], nil)
		r.members.On("Save", mock.Anything, mock.AnythingOfType("*chit.GroupMember")).Return(nil)
		r.cycles.On("Save", mock.Anything, cycle).Return(nil)

		resp, err := svc.Resolve(ctx, ResolveAuctionInput{
			CycleID:     cycle.ID,
			AuctionType: chit.AuctionTypeOffline,
			Bids: []chit.BidSubmission{
				{UserID: winner.UserID, Amount: decimal.NewFromInt(3000)},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, winner.UserID, *resp.WinnerUserID)
		assert.True(t, resp.WinningBidAmount.Equal(decimal.NewFromInt(3000)))
		assert.Equal(t, chit.AuctionTypeOffline.String(), resp.AuctionType)
		r.auctions.AssertCalled(t, "DeleteBids", mock.Anything, existing.ID)
	})

	t.Run("fails without valid bids", func(t *testing.T) {
		r, svc, _, cycle, _ := setup(t)

		_, err := svc.Resolve(ctx, ResolveAuctionInput{
			CycleID:     cycle.ID,
			AuctionType: chit.AuctionTypeOnline,
			Bids:        []chit.BidSubmission{},
		})
		assert.ErrorIs(t, err, shared.ErrNoValidBids)
		r.auctions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown auction type", func(t *testing.T) {
		r, svc, _, cycle, members := setup(t)

		_, err := svc.Resolve(ctx, ResolveAuctionInput{
			CycleID:     cycle.ID,
			AuctionType: chit.AuctionType("silent"),
			Bids: []chit.BidSubmission{
				{UserID: members[0].UserID, Amount: decimal.NewFromInt(1000)},
			},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AUCTION_TYPE", domainErr.Code)
		r.cycles.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("non-positive submissions are stored with the sheet", func(t *testing.T) {
		r, svc, group, cycle, members := setup(t)

		r.auctions.On("FindByCycleID", mock.Anything, cycle.ID).Return(nil, shared.ErrNotFound)
		r.auctions.On("Upsert", mock.Anything, mock.AnythingOfType("*chit.Auction")).
			Return(func(_ context.Context, a *chit.Auction) *chit.Auction { return a }, nil)
		r.auctions.On("DeleteBids", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)

		var storedBids []*chit.Bid
		r.auctions.On("CreateBids", mock.Anything, mock.AnythingOfType("[]*chit.Bid")).
			Run(func(args mock.Arguments) {
				storedBids = args.Get(1).([]*chit.Bid)
			}).Return(nil)

		winner := members[0]
		r.members.On("FindByGroupAndUser", mock.Anything, group.ID, winner.UserID).Return(winner, nil)
		r.members.On("Save", mock.Anything, winner).Return(nil)
		r.cycles.On("Save", mock.Anything, cycle).Return(nil)

		resp, err := svc.Resolve(ctx, ResolveAuctionInput{
			CycleID:     cycle.ID,
			AuctionType: chit.AuctionTypeOffline,
			Bids: []chit.BidSubmission{
				{UserID: members[0].UserID, Amount: decimal.NewFromInt(2000)},
				{UserID: members[1].UserID, Amount: decimal.Zero},
				{UserID: members[2].UserID, Amount: decimal.NewFromInt(-500)},
			},
		})
		require.NoError(t, err)

		// the full sheet is the audit trail, zero and negative bids included
		require.Len(t, storedBids, 3)
		assert.True(t, storedBids[1].BidAmount.IsZero())
		assert.True(t, storedBids[2].BidAmount.Equal(decimal.NewFromInt(-500)))
		assert.Equal(t, winner.UserID, *resp.WinnerUserID)
	})

	t.Run("re-resolution clears the previous winner's flag", func(t *testing.T) {
		r, svc, group, cycle, members := setup(t)

		first := members[0]
		first.MarkWon()
		existing, err := chit.NewAuction(group.ID, cycle.ID, chit.AuctionTypeOnline)
		require.NoError(t, err)
		existing.ApplySettlement(chit.ComputeSettlement(group,
			chit.BidSubmission{UserID: first.UserID, Amount: decimal.NewFromInt(1000)}))

		r.auctions.On("FindByCycleID", mock.Anything, cycle.ID).Return(existing, nil)
		r.auctions.On("Upsert", mock.Anything, existing).Return(existing, nil)
		r.auctions.On("DeleteBids", mock.Anything, existing.ID).Return(nil)
		r.auctions.On("CreateBids", mock.Anything, mock.AnythingOfType("[]*chit.Bid")).Return(nil)

		second := members[2]
		r.members.On("FindByGroupAndUser", mock.Anything, group.ID, second.UserID).Return(second, nil)
		r.members.On("FindByGroupAndUser", mock.Anything, group.ID, first.UserID).Return(first, nil)
		r.members.On("Save", mock.Anything, mock.AnythingOfType("*chit.GroupMember")).Return(nil)
		r.cycles.On("Save", mock.Anything, cycle).Return(nil)

		resp, err := svc.Resolve(ctx, ResolveAuctionInput{
			CycleID:     cycle.ID,
			AuctionType: chit.AuctionTypeOffline,
			Bids: []chit.BidSubmission{
				{UserID: second.UserID, Amount: decimal.NewFromInt(3000)},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, second.UserID, *resp.WinnerUserID)
		assert.True(t, second.HasWon())
		assert.False(t, first.HasWon())
		r.members.AssertCalled(t, "Save", mock.Anything, first)
	})
}

func TestDisburse(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*testRepos, *AuctionService, *chit.Group, *chit.Cycle, *chit.Auction, []*chit.GroupMember) {
		r := newTestRepos()
		svc := NewAuctionService(r.scope, r.auctions, zap.NewNop())
		group := newTestGroup(4, 25000)
		cycle, err := chit.NewCycle(group, 1)
		require.NoError(t, err)
		members := make([]*chit.GroupMember, 0, 4)
		for i := 0; i < 4; i++ {
			m, merr := chit.NewGroupMember(group.ID, uuid.New(), time.Now())
			require.NoError(t, merr)
			members = append(members, m)
		}
		auction, err := chit.NewAuction(group.ID, cycle.ID, chit.AuctionTypeOffline)
		require.NoError(t, err)
		auction.ApplySettlement(chit.ComputeSettlement(group,
			chit.BidSubmission{UserID: members[0].UserID, Amount: decimal.NewFromInt(2000)}))
		r.cycles.On("FindByID", mock.Anything, cycle.ID).Return(cycle, nil)
		return r, svc, group, cycle, auction, members
	}

	t.Run("journals winner payout and member dividends", func(t *testing.T) {
		r, svc, group, cycle, auction, members := setup(t)

		r.auctions.On("FindByCycleID", mock.Anything, cycle.ID).Return(auction, nil)
		r.ledger.On("HasEntryForCycle", mock.Anything, cycle.ID, chit.TransactionTypeWinnerPayout).
			Return(false, nil)
		r.ledger.On("LatestBalance", mock.Anything, mock.AnythingOfType("uuid.UUID")).
			Return(decimal.Zero, nil)
		r.members.On("FindByGroupID", mock.Anything, group.ID).Return(members, nil)

		var appended []*chit.LedgerEntry
		r.ledger.On("Append", mock.Anything, mock.AnythingOfType("*chit.LedgerEntry")).
			Run(func(args mock.Arguments) {
				appended = append(appended, args.Get(1).(*chit.LedgerEntry))
			}).Return(nil)

		entries, err := svc.Disburse(ctx, cycle.ID)
		require.NoError(t, err)

		// one payout plus one dividend per member
		require.Len(t, entries, 5)
		assert.Equal(t, chit.TransactionTypeWinnerPayout.String(), entries[0].TransactionType)
		assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(98000)))
		for _, e := range entries[1:] {
			assert.Equal(t, chit.TransactionTypeDividend.String(), e.TransactionType)
			assert.True(t, e.Amount.Equal(decimal.NewFromInt(500)))
		}
		require.Len(t, appended, 5)
	})

	t.Run("second disbursement is rejected", func(t *testing.T) {
		r, svc, _, cycle, auction, _ := setup(t)

		r.auctions.On("FindByCycleID", mock.Anything, cycle.ID).Return(auction, nil)
		r.ledger.On("HasEntryForCycle", mock.Anything, cycle.ID, chit.TransactionTypeWinnerPayout).
			Return(true, nil)

		_, err := svc.Disburse(ctx, cycle.ID)
		assert.ErrorIs(t, err, shared.ErrAlreadyDisbursed)
		r.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("unresolved auction cannot be disbursed", func(t *testing.T) {
		r, svc, group, cycle, _, _ := setup(t)

		pending, err := chit.NewAuction(group.ID, cycle.ID, chit.AuctionTypeOnline)
		require.NoError(t, err)
		r.auctions.On("FindByCycleID", mock.Anything, cycle.ID).Return(pending, nil)

		_, err = svc.Disburse(ctx, cycle.ID)
		assert.Error(t, err)
		r.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestPlaceBid(t *testing.T) {
	ctx := context.Background()

	t.Run("records bid against existing auction", func(t *testing.T) {
		r := newTestRepos()
		svc := NewAuctionService(r.scope, r.auctions, zap.NewNop())

		group := newTestGroup(4, 25000)
		cycle, err := chit.NewCycle(group, 1)
		require.NoError(t, err)
		auction, err := chit.NewAuction(group.ID, cycle.ID, chit.AuctionTypeOnline)
		require.NoError(t, err)

		r.auctions.On("FindByID", mock.Anything, auction.ID).Return(auction, nil)
		r.auctions.On("CreateBids", mock.Anything, mock.AnythingOfType("[]*chit.Bid")).Return(nil)

		userID := uuid.New()
		resp, err := svc.PlaceBid(ctx, auction.ID, userID, decimal.NewFromInt(1500))
		require.NoError(t, err)
		assert.Equal(t, auction.ID, resp.AuctionID)
		assert.Equal(t, userID, resp.UserID)
	})

	t.Run("fails when auction does not exist", func(t *testing.T) {
		r := newTestRepos()
		svc := NewAuctionService(r.scope, r.auctions, zap.NewNop())

		auctionID := uuid.New()
		r.auctions.On("FindByID", mock.Anything, auctionID).Return(nil, shared.ErrNotFound)

		_, err := svc.PlaceBid(ctx, auctionID, uuid.New(), decimal.NewFromInt(1000))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects non-positive bid", func(t *testing.T) {
		r := newTestRepos()
		svc := NewAuctionService(r.scope, r.auctions, zap.NewNop())

		group := newTestGroup(4, 25000)
		cycle, err := chit.NewCycle(group, 1)
		require.NoError(t, err)
		auction, err := chit.NewAuction(group.ID, cycle.ID, chit.AuctionTypeOnline)
		require.NoError(t, err)
		r.auctions.On("FindByID", mock.Anything, auction.ID).Return(auction, nil)

		_, err = svc.PlaceBid(ctx, auction.ID, uuid.New(), decimal.Zero)
		assert.Error(t, err)
		r.auctions.AssertNotCalled(t, "CreateBids", mock.Anything, mock.Anything)
	})
}
