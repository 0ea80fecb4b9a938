package persistence

import (
	"context"

	"github.com/chitfund/backend/internal/application/settlement"
	"github.com/chitfund/backend/internal/domain/chit"
	"gorm.io/gorm"
)

// GormTransactionScope implements settlement.TransactionScope using GORM
// transactions. It provides atomic execution of multiple repository
// operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos settlement.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Groups returns the group repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Groups() chit.GroupRepository {
	return NewGormGroupRepository(r.tx)
}

// Members returns the group member repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Members() chit.GroupMemberRepository {
	return NewGormGroupMemberRepository(r.tx)
}

// Cycles returns the cycle repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Cycles() chit.CycleRepository {
	return NewGormCycleRepository(r.tx)
}

// Contributions returns the contribution repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Contributions() chit.ContributionRepository {
	return NewGormContributionRepository(r.tx)
}

// Auctions returns the auction repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Auctions() chit.AuctionRepository {
	return NewGormAuctionRepository(r.tx)
}

// Penalties returns the penalty repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Penalties() chit.PenaltyRepository {
	return NewGormPenaltyRepository(r.tx)
}

// Ledger returns the ledger repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Ledger() chit.LedgerRepository {
	return NewGormLedgerRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ settlement.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ settlement.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
