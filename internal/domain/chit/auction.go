package chit

import (
	"time"

	"github.com/chitfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionType represents how an auction was conducted
type AuctionType string

const (
	AuctionTypeOnline  AuctionType = "online"
	AuctionTypeOffline AuctionType = "offline"
)

// IsValid returns true if the auction type is valid
func (t AuctionType) IsValid() bool {
	return t == AuctionTypeOnline || t == AuctionTypeOffline
}

// String returns the string representation of AuctionType
func (t AuctionType) String() string {
	return string(t)
}

// BidSubmission is one member's offered discount in a resolution request,
// in submission order.
type BidSubmission struct {
	UserID uuid.UUID
	Amount decimal.Decimal
}

// Bid is an immutable record of a submitted bid against an auction
type Bid struct {
	shared.BaseEntity
	AuctionID uuid.UUID
	UserID    uuid.UUID
	BidAmount decimal.Decimal
}

// NewBid creates a bid against an auction
func NewBid(auctionID, userID uuid.UUID, amount decimal.Decimal) (*Bid, error) {
	if auctionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUCTION", "Auction ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_BID_AMOUNT", "Bid amount must be positive")
	}
	return &Bid{
		BaseEntity: shared.NewBaseEntity(),
		AuctionID:  auctionID,
		UserID:     userID,
		BidAmount:  amount,
	}, nil
}

// NewSubmittedBid records a bid from a resolution sheet as submitted, amount
// as-is. Non-positive amounts are kept for the audit trail; they can never
// win because SelectWinningBid only accepts positive bids.
func NewSubmittedBid(auctionID, userID uuid.UUID, amount decimal.Decimal) (*Bid, error) {
	if auctionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUCTION", "Auction ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Bid{
		BaseEntity: shared.NewBaseEntity(),
		AuctionID:  auctionID,
		UserID:     userID,
		BidAmount:  amount,
	}, nil
}

// SelectWinningBid picks the winner from bids in submission order. The scan
// replaces the current best only on a strictly greater amount, so the first
// occurrence of the maximum wins ties. Returns ErrNoValidBids when the list
// is empty or no bid has a positive amount.
func SelectWinningBid(bids []BidSubmission) (BidSubmission, error) {
	winner := BidSubmission{Amount: decimal.Zero}
	for _, bid := range bids {
		if bid.Amount.GreaterThan(winner.Amount) {
			winner = bid
		}
	}
	if winner.UserID == uuid.Nil {
		return BidSubmission{}, shared.ErrNoValidBids
	}
	return winner, nil
}

// Settlement holds the financial outcome of a resolved auction
type Settlement struct {
	WinnerUserID      uuid.UUID
	WinningBidAmount  decimal.Decimal
	WinnerPayout      decimal.Decimal
	DividendPerMember decimal.Decimal
}

// ComputeSettlement derives the payout and dividend for a winning bid:
// payout = chit value - winning bid; dividend = winning bid / total members,
// banker-rounded to 2 decimal places.
func ComputeSettlement(group *Group, winner BidSubmission) Settlement {
	payout := group.ChitValue.Sub(winner.Amount)
	dividend := winner.Amount.
		Div(decimal.NewFromInt(int64(group.TotalMembers))).
		RoundBank(2)
	return Settlement{
		WinnerUserID:      winner.UserID,
		WinningBidAmount:  winner.Amount,
		WinnerPayout:      payout,
		DividendPerMember: dividend,
	}
}

// Auction is the resolved (or pending) reverse auction for a cycle. At most
// one auction exists per cycle; re-resolution overwrites it in place.
type Auction struct {
	shared.BaseAggregateRoot
	GroupID            uuid.UUID
	CycleID            uuid.UUID
	AuctionDate        time.Time
	AuctionType        AuctionType
	Status             AuctionStatus
	WinnerUserID       *uuid.UUID
	WinningBidAmount   decimal.Decimal
	WinnerPayoutAmount decimal.Decimal
	DividendPerMember  decimal.Decimal
}

// NewAuction creates a pending auction for a cycle
func NewAuction(groupID, cycleID uuid.UUID, auctionType AuctionType) (*Auction, error) {
	if groupID == uuid.Nil || cycleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUCTION", "Group and cycle IDs cannot be empty")
	}
	if !auctionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_AUCTION_TYPE", "Invalid auction type")
	}
	return &Auction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		GroupID:           groupID,
		CycleID:           cycleID,
		AuctionDate:       time.Now(),
		AuctionType:       auctionType,
		Status:            AuctionStatusPending,
	}, nil
}

// ApplySettlement records the resolution outcome on the auction. Applying a
// new settlement to a complete auction replaces the prior result entirely.
func (a *Auction) ApplySettlement(s Settlement) {
	winnerID := s.WinnerUserID
	a.WinnerUserID = &winnerID
	a.WinningBidAmount = s.WinningBidAmount
	a.WinnerPayoutAmount = s.WinnerPayout
	a.DividendPerMember = s.DividendPerMember
	a.Status = AuctionStatusComplete
	a.AuctionDate = time.Now()
	a.UpdatedAt = a.AuctionDate
}

// IsComplete returns true if the auction has been resolved
func (a *Auction) IsComplete() bool {
	return a.Status == AuctionStatusComplete
}
