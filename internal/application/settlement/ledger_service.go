package settlement

import (
	"context"
	"time"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// newJournalEntry builds a ledger entry whose running balance continues from
// the user's most recent entry. The caller appends it inside the same
// transaction that produced the underlying event.
func newJournalEntry(ctx context.Context, ledger chit.LedgerRepository, userID, groupID uuid.UUID,
	txType chit.TransactionType, amount decimal.Decimal) (*chit.LedgerEntry, error) {
	balance, err := ledger.LatestBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return chit.NewLedgerEntry(userID, groupID, txType, amount, balance)
}

// ManualEntryInput describes an operator-entered ledger adjustment
type ManualEntryInput struct {
	UserID          uuid.UUID
	GroupID         uuid.UUID
	CycleID         *uuid.UUID
	TransactionType chit.TransactionType
	Amount          decimal.Decimal
	Date            *time.Time
	Notes           string
}

// LedgerService answers journal queries and records manual entries. The
// journal is append-only; corrections are made with adjustment entries,
// never by editing history.
type LedgerService struct {
	scope  TransactionScope
	ledger chit.LedgerRepository
	logger *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(scope TransactionScope, ledger chit.LedgerRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		scope:  scope,
		ledger: ledger,
		logger: logger,
	}
}

// GetUserLedger returns a user's journal entries across all groups, most
// recent first.
func (s *LedgerService) GetUserLedger(ctx context.Context, userID uuid.UUID, filter chit.LedgerFilter) ([]LedgerEntryResponse, error) {
	entries, err := s.ledger.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return toLedgerResponses(entries), nil
}

// GetGroupMemberLedger returns a user's journal entries within one group,
// most recent first.
func (s *LedgerService) GetGroupMemberLedger(ctx context.Context, groupID, userID uuid.UUID, filter chit.LedgerFilter) ([]LedgerEntryResponse, error) {
	entries, err := s.ledger.FindByGroupAndUser(ctx, groupID, userID, filter)
	if err != nil {
		return nil, err
	}
	return toLedgerResponses(entries), nil
}

// GetBalance returns the user's current running balance
func (s *LedgerService) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return s.ledger.LatestBalance(ctx, userID)
}

// AddManualEntry records an operator-entered journal entry. Adjustment
// entries carry a signed amount; all other types are positive with the sign
// implied by the transaction type.
func (s *LedgerService) AddManualEntry(ctx context.Context, input ManualEntryInput) (*LedgerEntryResponse, error) {
	var entry *chit.LedgerEntry

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		e, err := newJournalEntry(ctx, repos.Ledger(), input.UserID, input.GroupID,
			input.TransactionType, input.Amount)
		if err != nil {
			return err
		}
		if input.CycleID != nil {
			e.WithCycle(*input.CycleID)
		}
		if input.Date != nil {
			e.Date = *input.Date
		}
		notes := input.Notes
		if input.TransactionType == chit.TransactionTypeAdjustment && notes != "" {
			notes = "Manual Adjustment: " + notes
		}
		e.WithNotes(notes)

		if err := repos.Ledger().Append(ctx, e); err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("manual ledger entry recorded",
		zap.String("user_id", input.UserID.String()),
		zap.String("transaction_type", input.TransactionType.String()),
		zap.String("amount", input.Amount.String()))

	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}

func toLedgerResponses(entries []*chit.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToLedgerEntryResponse(entry))
	}
	return responses
}
