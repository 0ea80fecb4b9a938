package chit

import (
	"time"

	"github.com/chitfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the payment state of a contribution
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// IsValid returns true if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentMode represents how a contribution installment was paid
type PaymentMode string

const (
	PaymentModeUPI  PaymentMode = "upi"
	PaymentModeCash PaymentMode = "cash"
	PaymentModeBank PaymentMode = "bank"
)

// IsValid returns true if the payment mode is valid
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeUPI, PaymentModeCash, PaymentModeBank:
		return true
	}
	return false
}

// String returns the string representation of PaymentMode
func (m PaymentMode) String() string {
	return string(m)
}

// Contribution is a member's required installment for one cycle. AmountPaid is
// monotonically non-decreasing and never exceeds AmountPayable.
//
// An underpaid contribution keeps status "pending" with IsPartial set; the
// distinct "partial" status is only reachable through the administrative
// status override. Overdue is set by penalty assessment, never by payment.
type Contribution struct {
	shared.BaseAggregateRoot
	GroupID       uuid.UUID
	UserID        uuid.UUID
	CycleID       uuid.UUID
	GroupMemberID uuid.UUID
	AmountPayable decimal.Decimal
	AmountPaid    decimal.Decimal
	PaymentStatus PaymentStatus
	IsPartial     bool
	PaymentMode   PaymentMode
	PaymentDate   *time.Time
	ReferenceNo   string
}

// NewContribution creates a pending contribution for a member in a cycle
func NewContribution(cycle *Cycle, member *GroupMember, amountPayable decimal.Decimal) (*Contribution, error) {
	if !amountPayable.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount payable must be positive")
	}
	return &Contribution{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		GroupID:           cycle.GroupID,
		UserID:            member.UserID,
		CycleID:           cycle.ID,
		GroupMemberID:     member.ID,
		AmountPayable:     amountPayable,
		AmountPaid:        decimal.Zero,
		PaymentStatus:     PaymentStatusPending,
	}, nil
}

// Outstanding returns the amount still owed on this contribution
func (c *Contribution) Outstanding() decimal.Decimal {
	return c.AmountPayable.Sub(c.AmountPaid)
}

// IsSettled returns true if the contribution is fully paid
func (c *Contribution) IsSettled() bool {
	return c.AmountPaid.GreaterThanOrEqual(c.AmountPayable)
}

// ApplyPayment applies a payment to the contribution. The amount must be
// positive and must not push AmountPaid past AmountPayable. Status becomes
// paid when the payable amount is reached, otherwise stays pending with
// IsPartial set.
func (c *Contribution) ApplyPayment(amount decimal.Decimal, mode PaymentMode, referenceNo string) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if mode != "" && !mode.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_MODE", "Invalid payment mode")
	}

	newPaid := c.AmountPaid.Add(amount)
	if newPaid.GreaterThan(c.AmountPayable) {
		return shared.ErrOverpayment
	}

	now := time.Now()
	c.AmountPaid = newPaid
	if newPaid.GreaterThanOrEqual(c.AmountPayable) {
		c.PaymentStatus = PaymentStatusPaid
		c.IsPartial = false
	} else {
		c.PaymentStatus = PaymentStatusPending
		c.IsPartial = true
	}
	if mode != "" {
		c.PaymentMode = mode
	}
	if referenceNo != "" {
		c.ReferenceNo = referenceNo
	}
	c.PaymentDate = &now
	c.UpdatedAt = now
	return nil
}

// OverrideStatus sets the payment status directly, bypassing amount checks.
// Escape hatch for manual correction; callers are expected to audit its use.
func (c *Contribution) OverrideStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown payment status")
	}
	c.PaymentStatus = status
	c.UpdatedAt = time.Now()
	return nil
}

// MarkOverdue transitions the contribution to overdue. Paid contributions
// cannot become overdue.
func (c *Contribution) MarkOverdue() error {
	if c.PaymentStatus == PaymentStatusPaid {
		return shared.ErrInvalidState
	}
	if c.PaymentStatus != PaymentStatusOverdue {
		c.PaymentStatus = PaymentStatusOverdue
		c.UpdatedAt = time.Now()
	}
	return nil
}
