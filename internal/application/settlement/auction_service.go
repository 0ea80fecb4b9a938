package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/chitfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ResolveAuctionInput carries a full bid sheet for settling a cycle's auction
type ResolveAuctionInput struct {
	CycleID     uuid.UUID
	AuctionType chit.AuctionType
	Bids        []chit.BidSubmission
}

// AuctionService settles cycle auctions. Resolution picks the winner from a
// bid sheet, computes the payout and per-member dividend, and records the
// outcome; a later resolution of the same cycle replaces the previous one.
// Disbursement journals the money movement and can happen only once per
// cycle.
type AuctionService struct {
	scope    TransactionScope
	auctions chit.AuctionRepository
	logger   *zap.Logger
}

// NewAuctionService creates a new auction service
func NewAuctionService(scope TransactionScope, auctions chit.AuctionRepository, logger *zap.Logger) *AuctionService {
	return &AuctionService{
		scope:    scope,
		auctions: auctions,
		logger:   logger,
	}
}

// Resolve settles the auction for a cycle from a full bid sheet. The highest
// bid wins, with the earliest submission winning ties. The previous result
// and bid set, if any, are replaced; the winner is flagged on the group
// roster and the cycle's auction is marked complete.
func (s *AuctionService) Resolve(ctx context.Context, input ResolveAuctionInput) (*AuctionResponse, error) {
	if !input.AuctionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_AUCTION_TYPE", "Invalid auction type")
	}

	var resolved *chit.Auction

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		cycle, err := repos.Cycles().FindByID(ctx, input.CycleID)
		if err != nil {
			return err
		}
		group, err := repos.Groups().FindByID(ctx, cycle.GroupID)
		if err != nil {
			return err
		}

		winner, err := chit.SelectWinningBid(input.Bids)
		if err != nil {
			return err
		}
		settlement := chit.ComputeSettlement(group, winner)

		auction, err := repos.Auctions().FindByCycleID(ctx, input.CycleID)
		if errors.Is(err, shared.ErrNotFound) {
			auction, err = chit.NewAuction(group.ID, cycle.ID, input.AuctionType)
		}
		if err != nil {
			return err
		}
		var previousWinner *uuid.UUID
		if auction.WinnerUserID != nil {
			prior := *auction.WinnerUserID
			previousWinner = &prior
		}

		auction.AuctionType = input.AuctionType
		auction.ApplySettlement(settlement)

		auction, err = repos.Auctions().Upsert(ctx, auction)
		if err != nil {
			return err
		}

		// Replace the bid set wholesale. Every submission is recorded, even
		// non-positive ones that can never win; the stored sheet is the audit
		// trail of what was actually submitted.
		if err := repos.Auctions().DeleteBids(ctx, auction.ID); err != nil {
			return err
		}
		bids := make([]*chit.Bid, 0, len(input.Bids))
		for _, submission := range input.Bids {
			bid, err := chit.NewSubmittedBid(auction.ID, submission.UserID, submission.Amount)
			if err != nil {
				return err
			}
			bids = append(bids, bid)
		}
		if len(bids) > 0 {
			if err := repos.Auctions().CreateBids(ctx, bids); err != nil {
				return err
			}
		}

		member, err := repos.Members().FindByGroupAndUser(ctx, group.ID, winner.UserID)
		if err != nil {
			return err
		}
		member.MarkWon()
		if err := repos.Members().Save(ctx, member); err != nil {
			return err
		}

		// A re-resolution that changes the winner must also unflag the
		// member the previous result had marked.
		if previousWinner != nil && *previousWinner != winner.UserID {
			prior, err := repos.Members().FindByGroupAndUser(ctx, group.ID, *previousWinner)
			if err != nil {
				return err
			}
			prior.ClearWon()
			if err := repos.Members().Save(ctx, prior); err != nil {
				return err
			}
		}

		cycle.CompleteAuction()
		if err := repos.Cycles().Save(ctx, cycle); err != nil {
			return err
		}

		resolved = auction
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("auction resolved",
		zap.String("cycle_id", input.CycleID.String()),
		zap.String("winner_user_id", resolved.WinnerUserID.String()),
		zap.String("winning_bid", resolved.WinningBidAmount.String()),
		zap.String("payout", resolved.WinnerPayoutAmount.String()),
		zap.String("dividend_per_member", resolved.DividendPerMember.String()))

	resp := ToAuctionResponse(resolved)
	return &resp, nil
}

// PlaceBid records a standalone bid against an existing auction, without any
// winner computation. Standalone bids are advisory; settlement happens
// through Resolve with the full bid sheet.
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, userID uuid.UUID, amount decimal.Decimal) (*BidResponse, error) {
	var placed *chit.Bid

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		auction, err := repos.Auctions().FindByID(ctx, auctionID)
		if err != nil {
			return err
		}
		bid, err := chit.NewBid(auction.ID, userID, amount)
		if err != nil {
			return err
		}
		if err := repos.Auctions().CreateBids(ctx, []*chit.Bid{bid}); err != nil {
			return err
		}
		placed = bid
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToBidResponse(placed)
	return &resp, nil
}

// Disburse journals the resolved auction's money movement: a payout entry for
// the winner and a dividend entry for every member. A cycle can be disbursed
// only once; re-running returns ErrAlreadyDisbursed.
func (s *AuctionService) Disburse(ctx context.Context, cycleID uuid.UUID) ([]LedgerEntryResponse, error) {
	var entries []*chit.LedgerEntry

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		cycle, err := repos.Cycles().FindByID(ctx, cycleID)
		if err != nil {
			return err
		}
		auction, err := repos.Auctions().FindByCycleID(ctx, cycleID)
		if err != nil {
			return err
		}
		if !auction.IsComplete() || auction.WinnerUserID == nil {
			return shared.NewDomainError("AUCTION_NOT_RESOLVED", "Cycle auction has not been resolved")
		}

		disbursed, err := repos.Ledger().HasEntryForCycle(ctx, cycleID, chit.TransactionTypeWinnerPayout)
		if err != nil {
			return err
		}
		if disbursed {
			return shared.ErrAlreadyDisbursed
		}

		payout, err := newJournalEntry(ctx, repos.Ledger(), *auction.WinnerUserID, auction.GroupID,
			chit.TransactionTypeWinnerPayout, auction.WinnerPayoutAmount)
		if err != nil {
			return err
		}
		payout.WithCycle(cycleID).WithNotes(fmt.Sprintf("Auction payout for %s", cycle.CycleMonthYear))
		if err := repos.Ledger().Append(ctx, payout); err != nil {
			return err
		}
		entries = append(entries, payout)

		if !auction.DividendPerMember.IsPositive() {
			return nil
		}
		members, err := repos.Members().FindByGroupID(ctx, auction.GroupID)
		if err != nil {
			return err
		}
		for _, member := range members {
			dividend, err := newJournalEntry(ctx, repos.Ledger(), member.UserID, auction.GroupID,
				chit.TransactionTypeDividend, auction.DividendPerMember)
			if err != nil {
				return err
			}
			dividend.WithCycle(cycleID).WithNotes(fmt.Sprintf("Dividend for %s", cycle.CycleMonthYear))
			if err := repos.Ledger().Append(ctx, dividend); err != nil {
				return err
			}
			entries = append(entries, dividend)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cycle disbursed",
		zap.String("cycle_id", cycleID.String()),
		zap.Int("entries", len(entries)))

	return toLedgerResponses(entries), nil
}

// GetAuction returns the auction recorded for a cycle
func (s *AuctionService) GetAuction(ctx context.Context, cycleID uuid.UUID) (*AuctionResponse, error) {
	auction, err := s.auctions.FindByCycleID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	resp := ToAuctionResponse(auction)
	return &resp, nil
}

// GetBids returns an auction's bids, highest first
func (s *AuctionService) GetBids(ctx context.Context, auctionID uuid.UUID) ([]BidResponse, error) {
	auction, err := s.auctions.FindByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	bids, err := s.auctions.FindBids(ctx, auction.ID)
	if err != nil {
		return nil, err
	}
	responses := make([]BidResponse, 0, len(bids))
	for _, bid := range bids {
		responses = append(responses, ToBidResponse(bid))
	}
	return responses, nil
}
