package settlement

import (
	"context"
	"time"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, group *chit.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*chit.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chit.Group), args.Error(1)
}

func (m *MockGroupRepository) FindActive(ctx context.Context) ([]*chit.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chit.Group), args.Error(1)
}

func (m *MockGroupRepository) Save(ctx context.Context, group *chit.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

type MockGroupMemberRepository struct {
	mock.Mock
}

func (m *MockGroupMemberRepository) Create(ctx context.Context, member *chit.GroupMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockGroupMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*chit.GroupMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chit.GroupMember), args.Error(1)
}

func (m *MockGroupMemberRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*chit.GroupMember, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chit.GroupMember), args.Error(1)
}

func (m *MockGroupMemberRepository) FindByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*chit.GroupMember, error) {
	args := m.Called(ctx, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chit.GroupMember), args.Error(1)
}

func (m *MockGroupMemberRepository) Save(ctx context.Context, member *chit.GroupMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

type MockCycleRepository struct {
	mock.Mock
}

func (m *MockCycleRepository) Create(ctx context.Context, cycle *chit.Cycle) error {
	args := m.Called(ctx, cycle)
	return args.Error(0)
}

func (m *MockCycleRepository) FindByID(ctx context.Context, id uuid.UUID) (*chit.Cycle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chit.Cycle), args.Error(1)
}

func (m *MockCycleRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*chit.Cycle, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chit.Cycle), args.Error(1)
}

func (m *MockCycleRepository) MaxCycleNumber(ctx context.Context, groupID uuid.UUID) (int, error) {
	args := m.Called(ctx, groupID)
	return args.Int(0), args.Error(1)
}

func (m *MockCycleRepository) Save(ctx context.Context, cycle *chit.Cycle) error {
	args := m.Called(ctx, cycle)
	return args.Error(0)
}

type MockContributionRepository struct {
	mock.Mock
}

func (m *MockContributionRepository) Create(ctx context.Context, contribution *chit.Contribution) error {
	args := m.Called(ctx, contribution)
	return args.Error(0)
}

func (m *MockContributionRepository) CreateBatch(ctx context.Context, contributions []*chit.Contribution) error {
	args := m.Called(ctx, contributions)
	return args.Error(0)
}

func (m *MockContributionRepository) FindByID(ctx context.Context, id uuid.UUID) (*chit.Contribution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chit.Contribution), args.Error(1)
}

func (m *MockContributionRepository) FindByCycleID(ctx context.Context, cycleID uuid.UUID) ([]*chit.Contribution, error) {
	args := m.Called(ctx, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chit.Contribution), args.Error(1)
}

func (m *MockContributionRepository) FindByGroupAndStatus(ctx context.Context, groupID uuid.UUID, status chit.PaymentStatus) ([]*chit.Contribution, error) {
	args := m.Called(ctx, groupID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chit.Contribution), args.Error(1)
}

func (m *MockContributionRepository) Save(ctx context.Context, contribution *chit.Contribution) error {
	args := m.Called(ctx, contribution)
	return args.Error(0)
}

type MockAuctionRepository struct {
	mock.Mock
}

func (m *MockAuctionRepository) Upsert(ctx context.Context, auction *chit.Auction) (*chit.Auction, error) {
	args := m.Called(ctx, auction)
	if rf, ok := args.Get(0).(func(context.Context, *chit.Auction) *chit.Auction); ok {
		return rf(ctx, auction), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chit.Auction), args.Error(1)
}

func (m *MockAuctionRepository) FindByID(ctx context.Context, id uuid.UUID) (*chit.Auction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chit.Auction), args.Error(1)
}

func (m *MockAuctionRepository) FindByCycleID(ctx context.Context, cycleID uuid.UUID) (*chit.Auction, error) {
	args := m.Called(ctx, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chit.Auction), args.Error(1)
}

func (m *MockAuctionRepository) CreateBids(ctx context.Context, bids []*chit.Bid) error {
	args := m.Called(ctx, bids)
	return args.Error(0)
}

func (m *MockAuctionRepository) DeleteBids(ctx context.Context, auctionID uuid.UUID) error {
	args := m.Called(ctx, auctionID)
	return args.Error(0)
}

func (m *MockAuctionRepository) FindBids(ctx context.Context, auctionID uuid.UUID) ([]*chit.Bid, error) {
	args := m.Called(ctx, auctionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chit.Bid), args.Error(1)
}

type MockPenaltyRepository struct {
	mock.Mock
}

func (m *MockPenaltyRepository) Create(ctx context.Context, penalty *chit.Penalty) error {
	args := m.Called(ctx, penalty)
	return args.Error(0)
}

func (m *MockPenaltyRepository) FindByCycleID(ctx context.Context, cycleID uuid.UUID) ([]*chit.Penalty, error) {
	args := m.Called(ctx, cycleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chit.Penalty), args.Error(1)
}

func (m *MockPenaltyRepository) CountByContributionID(ctx context.Context, contributionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, contributionID)
	return args.Get(0).(int64), args.Error(1)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *chit.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter chit.LedgerFilter) ([]*chit.LedgerEntry, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chit.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID, filter chit.LedgerFilter) ([]*chit.LedgerEntry, error) {
	args := m.Called(ctx, groupID, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chit.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindByContributionID(ctx context.Context, contributionID uuid.UUID, txType chit.TransactionType) ([]*chit.LedgerEntry, error) {
	args := m.Called(ctx, contributionID, txType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chit.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) LatestBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) HasEntryForCycle(ctx context.Context, cycleID uuid.UUID, txType chit.TransactionType) (bool, error) {
	args := m.Called(ctx, cycleID, txType)
	return args.Bool(0), args.Error(1)
}

// testRepos bundles fresh mocks behind a NoOpTransactionScope
type testRepos struct {
	groups        *MockGroupRepository
	members       *MockGroupMemberRepository
	cycles        *MockCycleRepository
	contributions *MockContributionRepository
	auctions      *MockAuctionRepository
	penalties     *MockPenaltyRepository
	ledger        *MockLedgerRepository
	scope         *NoOpTransactionScope
}

func newTestRepos() *testRepos {
	r := &testRepos{
		groups:        new(MockGroupRepository),
		members:       new(MockGroupMemberRepository),
		cycles:        new(MockCycleRepository),
		contributions: new(MockContributionRepository),
		auctions:      new(MockAuctionRepository),
		penalties:     new(MockPenaltyRepository),
		ledger:        new(MockLedgerRepository),
	}
	r.scope = &NoOpTransactionScope{
		GroupRepo:        r.groups,
		MemberRepo:       r.members,
		CycleRepo:        r.cycles,
		ContributionRepo: r.contributions,
		AuctionRepo:      r.auctions,
		PenaltyRepo:      r.penalties,
		LedgerRepo:       r.ledger,
	}
	return r
}

// test fixtures

func newTestGroup(members int, monthly int64) *chit.Group {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	group, err := chit.NewGroup("Test Chit", decimal.NewFromInt(monthly*int64(members)), members,
		decimal.NewFromInt(monthly), start, chit.PenaltyTypeFixed, decimal.NewFromInt(100), 10)
	if err != nil {
		panic(err)
	}
	return group
}
