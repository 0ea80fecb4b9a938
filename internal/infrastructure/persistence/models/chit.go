package models

import (
	"time"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupModel is the persistence model for the Group aggregate root.
type GroupModel struct {
	AggregateModel
	GroupName           string           `gorm:"type:varchar(200);not null"`
	ChitValue           decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	TotalMembers        int              `gorm:"not null"`
	MonthlyContribution decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	StartDate           time.Time        `gorm:"not null"`
	PenaltyType         chit.PenaltyType `gorm:"type:varchar(20);not null;default:'fixed'"`
	PenaltyAmount       decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	DueDay              int              `gorm:"not null;default:5"`
	Status              chit.GroupStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (GroupModel) TableName() string {
	return "chit_groups"
}

// ToDomain converts the persistence model to a domain Group.
func (m *GroupModel) ToDomain() *chit.Group {
	return &chit.Group{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		GroupName:           m.GroupName,
		ChitValue:           m.ChitValue,
		TotalMembers:        m.TotalMembers,
		MonthlyContribution: m.MonthlyContribution,
		StartDate:           m.StartDate,
		PenaltyType:         m.PenaltyType,
		PenaltyAmount:       m.PenaltyAmount,
		DueDay:              m.DueDay,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain Group.
func (m *GroupModel) FromDomain(g *chit.Group) {
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	m.GroupName = g.GroupName
	m.ChitValue = g.ChitValue
	m.TotalMembers = g.TotalMembers
	m.MonthlyContribution = g.MonthlyContribution
	m.StartDate = g.StartDate
	m.PenaltyType = g.PenaltyType
	m.PenaltyAmount = g.PenaltyAmount
	m.DueDay = g.DueDay
	m.Status = g.Status
}

// GroupModelFromDomain creates a new persistence model from a domain Group.
func GroupModelFromDomain(g *chit.Group) *GroupModel {
	m := &GroupModel{}
	m.FromDomain(g)
	return m
}

// GroupMemberModel is the persistence model for the GroupMember aggregate root.
type GroupMemberModel struct {
	AggregateModel
	GroupID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_members_group_user,priority:1"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_members_group_user,priority:2"`
	JoinDate     time.Time `gorm:"not null"`
	NomineeName  string    `gorm:"type:varchar(200)"`
	NomineePhone string    `gorm:"type:varchar(20)"`
	WonStatus    bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (GroupMemberModel) TableName() string {
	return "group_members"
}

// ToDomain converts the persistence model to a domain GroupMember.
func (m *GroupMemberModel) ToDomain() *chit.GroupMember {
	return &chit.GroupMember{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		GroupID:           m.GroupID,
		UserID:            m.UserID,
		JoinDate:          m.JoinDate,
		NomineeName:       m.NomineeName,
		NomineePhone:      m.NomineePhone,
		WonStatus:         m.WonStatus,
	}
}

// FromDomain populates the persistence model from a domain GroupMember.
func (m *GroupMemberModel) FromDomain(member *chit.GroupMember) {
	m.FromDomainAggregateRoot(member.BaseAggregateRoot)
	m.GroupID = member.GroupID
	m.UserID = member.UserID
	m.JoinDate = member.JoinDate
	m.NomineeName = member.NomineeName
	m.NomineePhone = member.NomineePhone
	m.WonStatus = member.WonStatus
}

// GroupMemberModelFromDomain creates a new persistence model from a domain GroupMember.
func GroupMemberModelFromDomain(member *chit.GroupMember) *GroupMemberModel {
	m := &GroupMemberModel{}
	m.FromDomain(member)
	return m
}

// CycleModel is the persistence model for the Cycle aggregate root.
type CycleModel struct {
	AggregateModel
	GroupID                 uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_cycles_group_number,priority:1"`
	CycleNumber             int                `gorm:"not null;uniqueIndex:idx_cycles_group_number,priority:2"`
	CycleMonthYear          string             `gorm:"type:varchar(30);not null"`
	AuctionStatus           chit.AuctionStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalCollectionExpected decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	TotalCollectionReceived decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CycleModel) TableName() string {
	return "cycles"
}

// ToDomain converts the persistence model to a domain Cycle.
func (m *CycleModel) ToDomain() *chit.Cycle {
	return &chit.Cycle{
		BaseAggregateRoot:       m.ToDomainAggregateRoot(),
		GroupID:                 m.GroupID,
		CycleNumber:             m.CycleNumber,
		CycleMonthYear:          m.CycleMonthYear,
		AuctionStatus:           m.AuctionStatus,
		TotalCollectionExpected: m.TotalCollectionExpected,
		TotalCollectionReceived: m.TotalCollectionReceived,
	}
}

// FromDomain populates the persistence model from a domain Cycle.
func (m *CycleModel) FromDomain(c *chit.Cycle) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.GroupID = c.GroupID
	m.CycleNumber = c.CycleNumber
	m.CycleMonthYear = c.CycleMonthYear
	m.AuctionStatus = c.AuctionStatus
	m.TotalCollectionExpected = c.TotalCollectionExpected
	m.TotalCollectionReceived = c.TotalCollectionReceived
}

// CycleModelFromDomain creates a new persistence model from a domain Cycle.
func CycleModelFromDomain(c *chit.Cycle) *CycleModel {
	m := &CycleModel{}
	m.FromDomain(c)
	return m
}

// ContributionModel is the persistence model for the Contribution aggregate root.
type ContributionModel struct {
	AggregateModel
	GroupID       uuid.UUID          `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index"`
	CycleID       uuid.UUID          `gorm:"type:uuid;not null;index"`
	GroupMemberID uuid.UUID          `gorm:"type:uuid;not null;index"`
	AmountPayable decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	AmountPaid    decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentStatus chit.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	IsPartial     bool               `gorm:"not null;default:false"`
	PaymentMode   chit.PaymentMode   `gorm:"type:varchar(20)"`
	PaymentDate   *time.Time
	ReferenceNo   string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ContributionModel) TableName() string {
	return "contributions"
}

// ToDomain converts the persistence model to a domain Contribution.
func (m *ContributionModel) ToDomain() *chit.Contribution {
	return &chit.Contribution{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		GroupID:           m.GroupID,
		UserID:            m.UserID,
		CycleID:           m.CycleID,
		GroupMemberID:     m.GroupMemberID,
		AmountPayable:     m.AmountPayable,
		AmountPaid:        m.AmountPaid,
		PaymentStatus:     m.PaymentStatus,
		IsPartial:         m.IsPartial,
		PaymentMode:       m.PaymentMode,
		PaymentDate:       m.PaymentDate,
		ReferenceNo:       m.ReferenceNo,
	}
}

// FromDomain populates the persistence model from a domain Contribution.
func (m *ContributionModel) FromDomain(c *chit.Contribution) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.GroupID = c.GroupID
	m.UserID = c.UserID
	m.CycleID = c.CycleID
	m.GroupMemberID = c.GroupMemberID
	m.AmountPayable = c.AmountPayable
	m.AmountPaid = c.AmountPaid
	m.PaymentStatus = c.PaymentStatus
	m.IsPartial = c.IsPartial
	m.PaymentMode = c.PaymentMode
	m.PaymentDate = c.PaymentDate
	m.ReferenceNo = c.ReferenceNo
}

// ContributionModelFromDomain creates a new persistence model from a domain Contribution.
func ContributionModelFromDomain(c *chit.Contribution) *ContributionModel {
	m := &ContributionModel{}
	m.FromDomain(c)
	return m
}

// AuctionModel is the persistence model for the Auction aggregate root. The
// unique index on CycleID enforces at most one auction per cycle.
type AuctionModel struct {
	AggregateModel
	GroupID            uuid.UUID          `gorm:"type:uuid;not null;index"`
	CycleID            uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex"`
	AuctionDate        time.Time          `gorm:"not null"`
	AuctionType        chit.AuctionType   `gorm:"type:varchar(20);not null;default:'offline'"`
	Status             chit.AuctionStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	WinnerUserID       *uuid.UUID         `gorm:"type:uuid;index"`
	WinningBidAmount   decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	WinnerPayoutAmount decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	DividendPerMember  decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (AuctionModel) TableName() string {
	return "auctions"
}

// ToDomain converts the persistence model to a domain Auction.
func (m *AuctionModel) ToDomain() *chit.Auction {
	return &chit.Auction{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		GroupID:            m.GroupID,
		CycleID:            m.CycleID,
		AuctionDate:        m.AuctionDate,
		AuctionType:        m.AuctionType,
		Status:             m.Status,
		WinnerUserID:       m.WinnerUserID,
		WinningBidAmount:   m.WinningBidAmount,
		WinnerPayoutAmount: m.WinnerPayoutAmount,
		DividendPerMember:  m.DividendPerMember,
	}
}

// FromDomain populates the persistence model from a domain Auction.
func (m *AuctionModel) FromDomain(a *chit.Auction) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.GroupID = a.GroupID
	m.CycleID = a.CycleID
	m.AuctionDate = a.AuctionDate
	m.AuctionType = a.AuctionType
	m.Status = a.Status
	m.WinnerUserID = a.WinnerUserID
	m.WinningBidAmount = a.WinningBidAmount
	m.WinnerPayoutAmount = a.WinnerPayoutAmount
	m.DividendPerMember = a.DividendPerMember
}

// AuctionModelFromDomain creates a new persistence model from a domain Auction.
func AuctionModelFromDomain(a *chit.Auction) *AuctionModel {
	m := &AuctionModel{}
	m.FromDomain(a)
	return m
}

// BidModel is the persistence model for a Bid.
type BidModel struct {
	BaseModel
	AuctionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	BidAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (BidModel) TableName() string {
	return "bids"
}

// ToDomain converts the persistence model to a domain Bid.
func (m *BidModel) ToDomain() *chit.Bid {
	return &chit.Bid{
		BaseEntity: m.BaseModel.ToDomain(),
		AuctionID:  m.AuctionID,
		UserID:     m.UserID,
		BidAmount:  m.BidAmount,
	}
}

// FromDomain populates the persistence model from a domain Bid.
func (m *BidModel) FromDomain(b *chit.Bid) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.AuctionID = b.AuctionID
	m.UserID = b.UserID
	m.BidAmount = b.BidAmount
}

// BidModelFromDomain creates a new persistence model from a domain Bid.
func BidModelFromDomain(b *chit.Bid) *BidModel {
	m := &BidModel{}
	m.FromDomain(b)
	return m
}

// PenaltyModel is the persistence model for a Penalty.
type PenaltyModel struct {
	BaseModel
	ContributionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	CycleID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	GroupMemberID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	PenaltyAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AppliedDate    time.Time       `gorm:"not null"`
	Reason         string          `gorm:"type:varchar(500);not null"`
}

// TableName returns the table name for GORM
func (PenaltyModel) TableName() string {
	return "penalties"
}

// ToDomain converts the persistence model to a domain Penalty.
func (m *PenaltyModel) ToDomain() *chit.Penalty {
	return &chit.Penalty{
		BaseEntity:     m.BaseModel.ToDomain(),
		ContributionID: m.ContributionID,
		UserID:         m.UserID,
		CycleID:        m.CycleID,
		GroupMemberID:  m.GroupMemberID,
		PenaltyAmount:  m.PenaltyAmount,
		AppliedDate:    m.AppliedDate,
		Reason:         m.Reason,
	}
}

// FromDomain populates the persistence model from a domain Penalty.
func (m *PenaltyModel) FromDomain(p *chit.Penalty) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ContributionID = p.ContributionID
	m.UserID = p.UserID
	m.CycleID = p.CycleID
	m.GroupMemberID = p.GroupMemberID
	m.PenaltyAmount = p.PenaltyAmount
	m.AppliedDate = p.AppliedDate
	m.Reason = p.Reason
}

// PenaltyModelFromDomain creates a new persistence model from a domain Penalty.
func PenaltyModelFromDomain(p *chit.Penalty) *PenaltyModel {
	m := &PenaltyModel{}
	m.FromDomain(p)
	return m
}

// LedgerEntryModel is the persistence model for a LedgerEntry. Rows are
// append-only; there is no update path. Seq is assigned by the repository on
// append and orders each user's chain independently of the entry date.
type LedgerEntryModel struct {
	BaseModel
	UserID          uuid.UUID            `gorm:"type:uuid;not null;index;index:idx_ledger_entries_user_seq,priority:1"`
	Seq             int64                `gorm:"column:seq;not null;index:idx_ledger_entries_user_seq,priority:2"`
	GroupID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	CycleID         *uuid.UUID           `gorm:"type:uuid;index"`
	ContributionID  *uuid.UUID           `gorm:"type:uuid;index"`
	TransactionType chit.TransactionType `gorm:"type:varchar(30);not null;index"`
	Amount          decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	BalanceAfter    decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Date            time.Time            `gorm:"not null;index"`
	Notes           string               `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry.
func (m *LedgerEntryModel) ToDomain() *chit.LedgerEntry {
	return &chit.LedgerEntry{
		BaseEntity:      m.BaseModel.ToDomain(),
		UserID:          m.UserID,
		GroupID:         m.GroupID,
		CycleID:         m.CycleID,
		ContributionID:  m.ContributionID,
		TransactionType: m.TransactionType,
		Amount:          m.Amount,
		BalanceAfter:    m.BalanceAfter,
		Date:            m.Date,
		Notes:           m.Notes,
	}
}

// FromDomain populates the persistence model from a domain LedgerEntry.
func (m *LedgerEntryModel) FromDomain(e *chit.LedgerEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.UserID = e.UserID
	m.GroupID = e.GroupID
	m.CycleID = e.CycleID
	m.ContributionID = e.ContributionID
	m.TransactionType = e.TransactionType
	m.Amount = e.Amount
	m.BalanceAfter = e.BalanceAfter
	m.Date = e.Date
	m.Notes = e.Notes
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry.
func LedgerEntryModelFromDomain(e *chit.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}
