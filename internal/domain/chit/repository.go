package chit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupRepository defines persistence for chit groups
type GroupRepository interface {
	Create(ctx context.Context, group *Group) error
	FindByID(ctx context.Context, id uuid.UUID) (*Group, error)
	FindActive(ctx context.Context) ([]*Group, error)
	Save(ctx context.Context, group *Group) error
}

// GroupMemberRepository defines persistence for group memberships
type GroupMemberRepository interface {
	Create(ctx context.Context, member *GroupMember) error
	FindByID(ctx context.Context, id uuid.UUID) (*GroupMember, error)
	FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*GroupMember, error)
	FindByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*GroupMember, error)
	Save(ctx context.Context, member *GroupMember) error
}

// CycleRepository defines persistence for cycles
type CycleRepository interface {
	Create(ctx context.Context, cycle *Cycle) error
	FindByID(ctx context.Context, id uuid.UUID) (*Cycle, error)
	FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*Cycle, error)
	// MaxCycleNumber returns the highest cycle number for the group, 0 if none
	MaxCycleNumber(ctx context.Context, groupID uuid.UUID) (int, error)
	Save(ctx context.Context, cycle *Cycle) error
}

// ContributionRepository defines persistence for contributions
type ContributionRepository interface {
	Create(ctx context.Context, contribution *Contribution) error
	CreateBatch(ctx context.Context, contributions []*Contribution) error
	FindByID(ctx context.Context, id uuid.UUID) (*Contribution, error)
	FindByCycleID(ctx context.Context, cycleID uuid.UUID) ([]*Contribution, error)
	// FindByGroupAndStatus returns the group's contributions in the given status
	FindByGroupAndStatus(ctx context.Context, groupID uuid.UUID, status PaymentStatus) ([]*Contribution, error)
	Save(ctx context.Context, contribution *Contribution) error
}

// AuctionRepository defines persistence for auctions and their bids
type AuctionRepository interface {
	// Upsert creates the auction if none exists for its cycle, otherwise
	// overwrites the existing row in place (the auction keeps its identity).
	Upsert(ctx context.Context, auction *Auction) (*Auction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Auction, error)
	FindByCycleID(ctx context.Context, cycleID uuid.UUID) (*Auction, error)
	CreateBids(ctx context.Context, bids []*Bid) error
	// DeleteBids removes all bids recorded against an auction. Used only when
	// a re-resolution replaces the previous bid set.
	DeleteBids(ctx context.Context, auctionID uuid.UUID) error
	// FindBids returns an auction's bids ordered by descending bid amount
	FindBids(ctx context.Context, auctionID uuid.UUID) ([]*Bid, error)
}

// PenaltyRepository defines persistence for penalties
type PenaltyRepository interface {
	Create(ctx context.Context, penalty *Penalty) error
	FindByCycleID(ctx context.Context, cycleID uuid.UUID) ([]*Penalty, error)
	CountByContributionID(ctx context.Context, contributionID uuid.UUID) (int64, error)
}

// LedgerFilter narrows ledger queries
type LedgerFilter struct {
	TransactionType *TransactionType
	DateFrom        *time.Time
	DateTo          *time.Time
}

// LedgerRepository defines the append-only journal. Entries are never
// updated or deleted.
type LedgerRepository interface {
	Append(ctx context.Context, entry *LedgerEntry) error
	FindByUserID(ctx context.Context, userID uuid.UUID, filter LedgerFilter) ([]*LedgerEntry, error)
	FindByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID, filter LedgerFilter) ([]*LedgerEntry, error)
	FindByContributionID(ctx context.Context, contributionID uuid.UUID, txType TransactionType) ([]*LedgerEntry, error)
	// LatestBalance returns the BalanceAfter of the user's most recent entry,
	// or zero if the user has no entries.
	LatestBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	// HasEntryForCycle reports whether any entry of the given type exists for
	// the cycle. Used to guard against double disbursement.
	HasEntryForCycle(ctx context.Context, cycleID uuid.UUID, txType TransactionType) (bool, error)
}
