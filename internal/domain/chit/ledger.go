package chit

import (
	"time"

	"github.com/chitfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies ledger entries by the money movement they record
type TransactionType string

const (
	// TransactionTypeContribution records an installment paid in (debit)
	TransactionTypeContribution TransactionType = "contribution"
	// TransactionTypePenalty records a late-payment surcharge (debit)
	TransactionTypePenalty TransactionType = "penalty"
	// TransactionTypeDividend records the member's share of a winning discount (credit)
	TransactionTypeDividend TransactionType = "dividend"
	// TransactionTypeWinnerPayout records the lump-sum payout to the cycle winner (credit)
	TransactionTypeWinnerPayout TransactionType = "winner_payout"
	// TransactionTypeAdjustment records a manual correction; its amount is signed
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeContribution, TransactionTypePenalty,
		TransactionTypeDividend, TransactionTypeWinnerPayout,
		TransactionTypeAdjustment:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsCredit returns true if this transaction type increases the member's balance
func (t TransactionType) IsCredit() bool {
	return t == TransactionTypeDividend || t == TransactionTypeWinnerPayout
}

// IsDebit returns true if this transaction type decreases the member's balance
func (t TransactionType) IsDebit() bool {
	return t == TransactionTypeContribution || t == TransactionTypePenalty
}

// LedgerEntry is an immutable record of one monetary movement for a member.
// Entries are append-only: corrections are made with adjustment entries,
// never by mutating or deleting prior rows.
//
// Sign convention: credits (dividend, winner_payout) increase the member's
// running balance; debits (contribution, penalty) decrease it. Adjustment
// entries carry a signed amount applied as-is. All other entries store a
// positive amount with the direction determined by the type.
type LedgerEntry struct {
	shared.BaseEntity
	UserID          uuid.UUID
	GroupID         uuid.UUID
	CycleID         *uuid.UUID
	ContributionID  *uuid.UUID
	TransactionType TransactionType
	Amount          decimal.Decimal
	BalanceAfter    decimal.Decimal
	Date            time.Time
	Notes           string
}

// NewLedgerEntry creates a ledger entry, deriving BalanceAfter from the
// member's prior running balance and the entry's signed amount.
func NewLedgerEntry(
	userID, groupID uuid.UUID,
	txType TransactionType,
	amount decimal.Decimal,
	balanceBefore decimal.Decimal,
) (*LedgerEntry, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if groupID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GROUP", "Group ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid ledger transaction type")
	}
	if txType != TransactionTypeAdjustment && !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if txType == TransactionTypeAdjustment && amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Adjustment amount cannot be zero")
	}

	entry := &LedgerEntry{
		BaseEntity:      shared.NewBaseEntity(),
		UserID:          userID,
		GroupID:         groupID,
		TransactionType: txType,
		Amount:          amount,
		Date:            time.Now(),
	}
	entry.BalanceAfter = balanceBefore.Add(entry.SignedAmount())
	return entry, nil
}

// WithCycle links the entry to a cycle
func (e *LedgerEntry) WithCycle(cycleID uuid.UUID) *LedgerEntry {
	e.CycleID = &cycleID
	return e
}

// WithContribution links the entry to a contribution
func (e *LedgerEntry) WithContribution(contributionID uuid.UUID) *LedgerEntry {
	e.ContributionID = &contributionID
	return e
}

// WithNotes sets the free-text notes on the entry
func (e *LedgerEntry) WithNotes(notes string) *LedgerEntry {
	e.Notes = notes
	return e
}

// SignedAmount returns the amount with its sign under the ledger convention:
// positive for credits, negative for debits, as-is for adjustments.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	switch {
	case e.TransactionType.IsDebit():
		return e.Amount.Neg()
	case e.TransactionType.IsCredit():
		return e.Amount
	default:
		return e.Amount
	}
}

// BalanceChange returns the net change this entry applied to the balance
func (e *LedgerEntry) BalanceChange() decimal.Decimal {
	return e.SignedAmount()
}
