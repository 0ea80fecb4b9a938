package chit

import (
	"time"

	"github.com/chitfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionStatus represents the auction state of a cycle or auction record
type AuctionStatus string

const (
	AuctionStatusPending  AuctionStatus = "pending"
	AuctionStatusComplete AuctionStatus = "complete"
)

// IsValid returns true if the auction status is valid
func (s AuctionStatus) IsValid() bool {
	return s == AuctionStatusPending || s == AuctionStatusComplete
}

// String returns the string representation of AuctionStatus
func (s AuctionStatus) String() string {
	return string(s)
}

// Cycle represents one periodic round of contribution collection and auction
// within a group. Cycle numbers are sequential and 1-based per group.
type Cycle struct {
	shared.BaseAggregateRoot
	GroupID                 uuid.UUID
	CycleNumber             int
	CycleMonthYear          string
	AuctionStatus           AuctionStatus
	TotalCollectionExpected decimal.Decimal
	TotalCollectionReceived decimal.Decimal
}

// NewCycle creates the cycle with the given number for a group. The month/year
// label and expected collection derive from the group's settings.
func NewCycle(group *Group, cycleNumber int) (*Cycle, error) {
	if cycleNumber < 1 {
		return nil, shared.NewDomainError("INVALID_CYCLE_NUMBER", "Cycle number must be 1 or greater")
	}
	return &Cycle{
		BaseAggregateRoot:       shared.NewBaseAggregateRoot(),
		GroupID:                 group.ID,
		CycleNumber:             cycleNumber,
		CycleMonthYear:          group.CycleLabel(cycleNumber),
		AuctionStatus:           AuctionStatusPending,
		TotalCollectionExpected: group.ExpectedCollection(),
		TotalCollectionReceived: decimal.Zero,
	}, nil
}

// CompleteAuction marks the cycle's auction as complete. Completing an already
// complete cycle is allowed: auctions may be rerun and the last result wins.
func (c *Cycle) CompleteAuction() {
	c.AuctionStatus = AuctionStatusComplete
	c.UpdatedAt = time.Now()
}

// IsAuctionComplete returns true if the cycle's auction has been resolved
func (c *Cycle) IsAuctionComplete() bool {
	return c.AuctionStatus == AuctionStatusComplete
}

// AddCollection records an installment amount received for this cycle
func (c *Cycle) AddCollection(amount decimal.Decimal) {
	c.TotalCollectionReceived = c.TotalCollectionReceived.Add(amount)
	c.UpdatedAt = time.Now()
}
