package settlement

import (
	"context"

	"github.com/chitfund/backend/internal/domain/chit"
)

// TransactionScope provides transactional access to the chit repositories.
// Every compound settlement operation (auction resolution, payment recording,
// penalty application, cycle creation) runs inside Execute so that all of its
// sub-writes commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all chit repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	Groups() chit.GroupRepository
	Members() chit.GroupMemberRepository
	Cycles() chit.CycleRepository
	Contributions() chit.ContributionRepository
	Auctions() chit.AuctionRepository
	Penalties() chit.PenaltyRepository
	Ledger() chit.LedgerRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	GroupRepo        chit.GroupRepository
	MemberRepo       chit.GroupMemberRepository
	CycleRepo        chit.CycleRepository
	ContributionRepo chit.ContributionRepository
	AuctionRepo      chit.AuctionRepository
	PenaltyRepo      chit.PenaltyRepository
	LedgerRepo       chit.LedgerRepository
}

// Execute runs the function without a real transaction (for testing).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Groups returns the group repository.
func (s *NoOpTransactionScope) Groups() chit.GroupRepository { return s.GroupRepo }

// Members returns the group member repository.
func (s *NoOpTransactionScope) Members() chit.GroupMemberRepository { return s.MemberRepo }

// Cycles returns the cycle repository.
func (s *NoOpTransactionScope) Cycles() chit.CycleRepository { return s.CycleRepo }

// Contributions returns the contribution repository.
func (s *NoOpTransactionScope) Contributions() chit.ContributionRepository {
	return s.ContributionRepo
}

// Auctions returns the auction repository.
func (s *NoOpTransactionScope) Auctions() chit.AuctionRepository { return s.AuctionRepo }

// Penalties returns the penalty repository.
func (s *NoOpTransactionScope) Penalties() chit.PenaltyRepository { return s.PenaltyRepo }

// Ledger returns the ledger repository.
func (s *NoOpTransactionScope) Ledger() chit.LedgerRepository { return s.LedgerRepo }

// Ensure NoOpTransactionScope implements both interfaces
var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
