package chit

import (
	"time"

	"github.com/chitfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Penalty is a late-payment surcharge applied to an overdue contribution.
// At most one auto-applied penalty may exist per contribution.
type Penalty struct {
	shared.BaseEntity
	ContributionID uuid.UUID
	UserID         uuid.UUID
	CycleID        uuid.UUID
	GroupMemberID  uuid.UUID
	PenaltyAmount  decimal.Decimal
	AppliedDate    time.Time
	Reason         string
}

// NewPenalty creates a penalty against a contribution, copying the member and
// cycle references from it.
func NewPenalty(contribution *Contribution, amount decimal.Decimal, reason string) (*Penalty, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PENALTY_AMOUNT", "Penalty amount must be positive")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_PENALTY_REASON", "Penalty reason cannot be empty")
	}
	return &Penalty{
		BaseEntity:     shared.NewBaseEntity(),
		ContributionID: contribution.ID,
		UserID:         contribution.UserID,
		CycleID:        contribution.CycleID,
		GroupMemberID:  contribution.GroupMemberID,
		PenaltyAmount:  amount,
		AppliedDate:    time.Now(),
		Reason:         reason,
	}, nil
}
