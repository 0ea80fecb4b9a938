package chit

import (
	"time"

	"github.com/chitfund/backend/internal/domain/shared"
	"github.com/chitfund/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PenaltyType represents how late-payment penalties are computed for a group
type PenaltyType string

const (
	// PenaltyTypeFixed charges a flat amount per overdue contribution
	PenaltyTypeFixed PenaltyType = "fixed"
	// PenaltyTypePercentage charges a percentage of the payable amount
	PenaltyTypePercentage PenaltyType = "percentage"
	// PenaltyTypeDaily charges per overdue day. The day-based formula is not
	// defined yet; assessment falls back to the flat amount.
	PenaltyTypeDaily PenaltyType = "daily"
)

// IsValid returns true if the penalty type is valid
func (t PenaltyType) IsValid() bool {
	switch t {
	case PenaltyTypeFixed, PenaltyTypePercentage, PenaltyTypeDaily:
		return true
	}
	return false
}

// String returns the string representation of PenaltyType
func (t PenaltyType) String() string {
	return string(t)
}

// GroupStatus represents the lifecycle status of a chit group
type GroupStatus string

const (
	GroupStatusActive GroupStatus = "active"
	GroupStatusClosed GroupStatus = "closed"
)

// IsValid returns true if the group status is valid
func (s GroupStatus) IsValid() bool {
	return s == GroupStatusActive || s == GroupStatusClosed
}

// String returns the string representation of GroupStatus
func (s GroupStatus) String() string {
	return string(s)
}

// Group represents a chit fund group: a fixed pool of members contributing a
// fixed installment each cycle, with one member receiving the pot per cycle
// via reverse auction.
type Group struct {
	shared.BaseAggregateRoot
	GroupName           string
	ChitValue           decimal.Decimal
	TotalMembers        int
	MonthlyContribution decimal.Decimal
	StartDate           time.Time
	PenaltyType         PenaltyType
	PenaltyAmount       decimal.Decimal
	DueDay              int // day of month contributions fall due
	Status              GroupStatus
}

// NewGroup creates a new chit group
func NewGroup(
	name string,
	chitValue decimal.Decimal,
	totalMembers int,
	monthlyContribution decimal.Decimal,
	startDate time.Time,
	penaltyType PenaltyType,
	penaltyAmount decimal.Decimal,
	dueDay int,
) (*Group, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot be empty")
	}
	if !chitValue.IsPositive() {
		return nil, shared.NewDomainError("INVALID_CHIT_VALUE", "Chit value must be positive")
	}
	if totalMembers <= 0 {
		return nil, shared.NewDomainError("INVALID_MEMBER_COUNT", "Total members must be positive")
	}
	if !monthlyContribution.IsPositive() {
		return nil, shared.NewDomainError("INVALID_CONTRIBUTION", "Monthly contribution must be positive")
	}
	if !penaltyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PENALTY_TYPE", "Invalid penalty type")
	}
	if penaltyAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PENALTY_AMOUNT", "Penalty amount cannot be negative")
	}
	if dueDay < 1 || dueDay > 31 {
		return nil, shared.NewDomainError("INVALID_DUE_DAY", "Due day must be between 1 and 31")
	}

	return &Group{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		GroupName:           name,
		ChitValue:           chitValue,
		TotalMembers:        totalMembers,
		MonthlyContribution: monthlyContribution,
		StartDate:           startDate,
		PenaltyType:         penaltyType,
		PenaltyAmount:       penaltyAmount,
		DueDay:              dueDay,
		Status:              GroupStatusActive,
	}, nil
}

// IsActive returns true if the group is accepting contributions and auctions
func (g *Group) IsActive() bool {
	return g.Status == GroupStatusActive
}

// Close marks the group as closed
func (g *Group) Close() error {
	if g.Status == GroupStatusClosed {
		return shared.ErrInvalidState
	}
	g.Status = GroupStatusClosed
	g.UpdatedAt = time.Now()
	return nil
}

// ExpectedCollection returns the total expected collection for one cycle
func (g *Group) ExpectedCollection() decimal.Decimal {
	return g.MonthlyContribution.Mul(decimal.NewFromInt(int64(g.TotalMembers)))
}

// ComputePenalty returns the penalty amount for an overdue contribution with
// the given payable amount, per the group's penalty settings. Percentage
// penalties are banker-rounded to 2 decimal places. Daily penalties fall back
// to the flat amount until a per-day formula is settled.
func (g *Group) ComputePenalty(amountPayable decimal.Decimal) decimal.Decimal {
	if g.PenaltyType == PenaltyTypePercentage {
		payable := valueobject.NewMoneyINR(amountPayable)
		return payable.CalculatePercentage(g.PenaltyAmount).RoundBank(2).Amount()
	}
	return g.PenaltyAmount
}

// CycleLabel returns the human-readable month/year label for the given
// 1-based cycle number, counted from the group's start date.
func (g *Group) CycleLabel(cycleNumber int) string {
	return g.StartDate.AddDate(0, cycleNumber-1, 0).Format("January 2006")
}
