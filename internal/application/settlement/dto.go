package settlement

import (
	"time"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CycleResponse is the API representation of a cycle
type CycleResponse struct {
	ID                      uuid.UUID       `json:"id"`
	GroupID                 uuid.UUID       `json:"group_id"`
	CycleNumber             int             `json:"cycle_number"`
	CycleMonthYear          string          `json:"cycle_month_year"`
	AuctionStatus           string          `json:"auction_status"`
	TotalCollectionExpected decimal.Decimal `json:"total_collection_expected"`
	TotalCollectionReceived decimal.Decimal `json:"total_collection_received"`
	CreatedAt               time.Time       `json:"created_at"`
}

// ToCycleResponse converts a cycle to its API representation
func ToCycleResponse(c *chit.Cycle) CycleResponse {
	return CycleResponse{
		ID:                      c.ID,
		GroupID:                 c.GroupID,
		CycleNumber:             c.CycleNumber,
		CycleMonthYear:          c.CycleMonthYear,
		AuctionStatus:           c.AuctionStatus.String(),
		TotalCollectionExpected: c.TotalCollectionExpected,
		TotalCollectionReceived: c.TotalCollectionReceived,
		CreatedAt:               c.CreatedAt,
	}
}

// ContributionResponse is the API representation of a contribution
type ContributionResponse struct {
	ID            uuid.UUID       `json:"id"`
	GroupID       uuid.UUID       `json:"group_id"`
	UserID        uuid.UUID       `json:"user_id"`
	CycleID       uuid.UUID       `json:"cycle_id"`
	GroupMemberID uuid.UUID       `json:"group_member_id"`
	AmountPayable decimal.Decimal `json:"amount_payable"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentStatus string          `json:"payment_status"`
	IsPartial     bool            `json:"is_partial"`
	PaymentMode   string          `json:"payment_mode,omitempty"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	ReferenceNo   string          `json:"reference_no,omitempty"`
}

// ToContributionResponse converts a contribution to its API representation
func ToContributionResponse(c *chit.Contribution) ContributionResponse {
	return ContributionResponse{
		ID:            c.ID,
		GroupID:       c.GroupID,
		UserID:        c.UserID,
		CycleID:       c.CycleID,
		GroupMemberID: c.GroupMemberID,
		AmountPayable: c.AmountPayable,
		AmountPaid:    c.AmountPaid,
		PaymentStatus: c.PaymentStatus.String(),
		IsPartial:     c.IsPartial,
		PaymentMode:   c.PaymentMode.String(),
		PaymentDate:   c.PaymentDate,
		ReferenceNo:   c.ReferenceNo,
	}
}

// AuctionResponse is the API representation of a resolved auction
type AuctionResponse struct {
	ID                 uuid.UUID       `json:"id"`
	GroupID            uuid.UUID       `json:"group_id"`
	CycleID            uuid.UUID       `json:"cycle_id"`
	AuctionDate        time.Time       `json:"auction_date"`
	AuctionType        string          `json:"auction_type"`
	Status             string          `json:"status"`
	WinnerUserID       *uuid.UUID      `json:"winner_user_id,omitempty"`
	WinningBidAmount   decimal.Decimal `json:"winning_bid_amount"`
	WinnerPayoutAmount decimal.Decimal `json:"winner_payout_amount"`
	DividendPerMember  decimal.Decimal `json:"dividend_per_member"`
}

// ToAuctionResponse converts an auction to its API representation
func ToAuctionResponse(a *chit.Auction) AuctionResponse {
	return AuctionResponse{
		ID:                 a.ID,
		GroupID:            a.GroupID,
		CycleID:            a.CycleID,
		AuctionDate:        a.AuctionDate,
		AuctionType:        a.AuctionType.String(),
		Status:             a.Status.String(),
		WinnerUserID:       a.WinnerUserID,
		WinningBidAmount:   a.WinningBidAmount,
		WinnerPayoutAmount: a.WinnerPayoutAmount,
		DividendPerMember:  a.DividendPerMember,
	}
}

// BidResponse is the API representation of a bid
type BidResponse struct {
	ID        uuid.UUID       `json:"id"`
	AuctionID uuid.UUID       `json:"auction_id"`
	UserID    uuid.UUID       `json:"user_id"`
	BidAmount decimal.Decimal `json:"bid_amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToBidResponse converts a bid to its API representation
func ToBidResponse(b *chit.Bid) BidResponse {
	return BidResponse{
		ID:        b.ID,
		AuctionID: b.AuctionID,
		UserID:    b.UserID,
		BidAmount: b.BidAmount,
		CreatedAt: b.CreatedAt,
	}
}

// PenaltyResponse is the API representation of a penalty
type PenaltyResponse struct {
	ID             uuid.UUID       `json:"id"`
	ContributionID uuid.UUID       `json:"contribution_id"`
	UserID         uuid.UUID       `json:"user_id"`
	CycleID        uuid.UUID       `json:"cycle_id"`
	GroupMemberID  uuid.UUID       `json:"group_member_id"`
	PenaltyAmount  decimal.Decimal `json:"penalty_amount"`
	AppliedDate    time.Time       `json:"applied_date"`
	Reason         string          `json:"reason"`
}

// ToPenaltyResponse converts a penalty to its API representation
func ToPenaltyResponse(p *chit.Penalty) PenaltyResponse {
	return PenaltyResponse{
		ID:             p.ID,
		ContributionID: p.ContributionID,
		UserID:         p.UserID,
		CycleID:        p.CycleID,
		GroupMemberID:  p.GroupMemberID,
		PenaltyAmount:  p.PenaltyAmount,
		AppliedDate:    p.AppliedDate,
		Reason:         p.Reason,
	}
}

// LedgerEntryResponse is the API representation of a ledger entry
type LedgerEntryResponse struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	GroupID         uuid.UUID       `json:"group_id"`
	CycleID         *uuid.UUID      `json:"cycle_id,omitempty"`
	ContributionID  *uuid.UUID      `json:"contribution_id,omitempty"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Date            time.Time       `json:"date"`
	Notes           string          `json:"notes,omitempty"`
}

// ToLedgerEntryResponse converts a ledger entry to its API representation
func ToLedgerEntryResponse(e *chit.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              e.ID,
		UserID:          e.UserID,
		GroupID:         e.GroupID,
		CycleID:         e.CycleID,
		ContributionID:  e.ContributionID,
		TransactionType: e.TransactionType.String(),
		Amount:          e.Amount,
		BalanceAfter:    e.BalanceAfter,
		Date:            e.Date,
		Notes:           e.Notes,
	}
}
