package settlement

import (
	"context"
	"fmt"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecordPaymentInput describes a payment against a contribution
type RecordPaymentInput struct {
	ContributionID uuid.UUID
	Amount         decimal.Decimal
	PaymentMode    chit.PaymentMode
	ReferenceNo    string
}

// SubPaymentInput describes a payment made on a member's behalf by someone
// else. The journal entry stays under the member's own account.
type SubPaymentInput struct {
	ContributionID uuid.UUID
	Amount         decimal.Decimal
	PaymentMode    chit.PaymentMode
	ReferenceNo    string
	PayerName      string
}

// ContributionService records installment payments against contributions and
// keeps the cycle's collection total and the member's journal in step with
// every payment.
type ContributionService struct {
	scope         TransactionScope
	contributions chit.ContributionRepository
	ledger        chit.LedgerRepository
	logger        *zap.Logger
}

// NewContributionService creates a new contribution service
func NewContributionService(
	scope TransactionScope,
	contributions chit.ContributionRepository,
	ledger chit.LedgerRepository,
	logger *zap.Logger,
) *ContributionService {
	return &ContributionService{
		scope:         scope,
		contributions: contributions,
		ledger:        ledger,
		logger:        logger,
	}
}

// InitializeCycle creates a pending contribution for every group member that
// does not already have one for the cycle. Re-running is safe; existing
// contributions are left alone.
func (s *ContributionService) InitializeCycle(ctx context.Context, cycleID uuid.UUID) ([]ContributionResponse, error) {
	var created []*chit.Contribution

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		cycle, err := repos.Cycles().FindByID(ctx, cycleID)
		if err != nil {
			return err
		}
		group, err := repos.Groups().FindByID(ctx, cycle.GroupID)
		if err != nil {
			return err
		}
		members, err := repos.Members().FindByGroupID(ctx, group.ID)
		if err != nil {
			return err
		}
		existing, err := repos.Contributions().FindByCycleID(ctx, cycleID)
		if err != nil {
			return err
		}
		covered := make(map[uuid.UUID]bool, len(existing))
		for _, contribution := range existing {
			covered[contribution.GroupMemberID] = true
		}

		for _, member := range members {
			if covered[member.ID] {
				continue
			}
			contribution, err := chit.NewContribution(cycle, member, group.MonthlyContribution)
			if err != nil {
				return err
			}
			created = append(created, contribution)
		}
		if len(created) == 0 {
			return nil
		}
		return repos.Contributions().CreateBatch(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cycle contributions initialized",
		zap.String("cycle_id", cycleID.String()),
		zap.Int("created", len(created)))

	responses := make([]ContributionResponse, 0, len(created))
	for _, contribution := range created {
		responses = append(responses, ToContributionResponse(contribution))
	}
	return responses, nil
}

// RecordPayment applies a payment to a contribution, adds the amount to the
// cycle's running collection total, and journals a contribution entry for the
// member. All three writes commit together.
func (s *ContributionService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*ContributionResponse, error) {
	return s.recordPayment(ctx, input, "")
}

// AddSubPayment records a payment made for the member by a third party
// (typically a family member). Financially identical to RecordPayment; the
// journal entry notes who actually paid.
func (s *ContributionService) AddSubPayment(ctx context.Context, input SubPaymentInput) (*ContributionResponse, error) {
	note := fmt.Sprintf("Sub-payment by %s", input.PayerName)
	return s.recordPayment(ctx, RecordPaymentInput{
		ContributionID: input.ContributionID,
		Amount:         input.Amount,
		PaymentMode:    input.PaymentMode,
		ReferenceNo:    input.ReferenceNo,
	}, note)
}

func (s *ContributionService) recordPayment(ctx context.Context, input RecordPaymentInput, note string) (*ContributionResponse, error) {
	var updated *chit.Contribution

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		contribution, err := repos.Contributions().FindByID(ctx, input.ContributionID)
		if err != nil {
			return err
		}
		if err := contribution.ApplyPayment(input.Amount, input.PaymentMode, input.ReferenceNo); err != nil {
			return err
		}
		if err := repos.Contributions().Save(ctx, contribution); err != nil {
			return err
		}

		cycle, err := repos.Cycles().FindByID(ctx, contribution.CycleID)
		if err != nil {
			return err
		}
		cycle.AddCollection(input.Amount)
		if err := repos.Cycles().Save(ctx, cycle); err != nil {
			return err
		}

		entry, err := newJournalEntry(ctx, repos.Ledger(), contribution.UserID, contribution.GroupID,
			chit.TransactionTypeContribution, input.Amount)
		if err != nil {
			return err
		}
		entry.WithCycle(contribution.CycleID).WithContribution(contribution.ID)
		if note != "" {
			entry.WithNotes(note)
		} else {
			entry.WithNotes(fmt.Sprintf("Contribution for %s", cycle.CycleMonthYear))
		}
		if err := repos.Ledger().Append(ctx, entry); err != nil {
			return err
		}

		updated = contribution
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("contribution_id", input.ContributionID.String()),
		zap.String("amount", input.Amount.String()),
		zap.String("status", updated.PaymentStatus.String()))

	resp := ToContributionResponse(updated)
	return &resp, nil
}

// UpdateStatus overrides a contribution's payment status without touching its
// amounts. Every override is logged with its previous status.
func (s *ContributionService) UpdateStatus(ctx context.Context, contributionID uuid.UUID, status chit.PaymentStatus) (*ContributionResponse, error) {
	var updated *chit.Contribution
	var previous chit.PaymentStatus

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		contribution, err := repos.Contributions().FindByID(ctx, contributionID)
		if err != nil {
			return err
		}
		previous = contribution.PaymentStatus
		if err := contribution.OverrideStatus(status); err != nil {
			return err
		}
		if err := repos.Contributions().Save(ctx, contribution); err != nil {
			return err
		}
		updated = contribution
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Warn("payment status overridden",
		zap.String("contribution_id", contributionID.String()),
		zap.String("previous_status", previous.String()),
		zap.String("new_status", status.String()))

	resp := ToContributionResponse(updated)
	return &resp, nil
}

// GetContribution returns a single contribution by ID
func (s *ContributionService) GetContribution(ctx context.Context, contributionID uuid.UUID) (*ContributionResponse, error) {
	contribution, err := s.contributions.FindByID(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	resp := ToContributionResponse(contribution)
	return &resp, nil
}

// GetByCycle returns all contributions for a cycle
func (s *ContributionService) GetByCycle(ctx context.Context, cycleID uuid.UUID) ([]ContributionResponse, error) {
	contributions, err := s.contributions.FindByCycleID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	responses := make([]ContributionResponse, 0, len(contributions))
	for _, contribution := range contributions {
		responses = append(responses, ToContributionResponse(contribution))
	}
	return responses, nil
}

// GetSubPayments returns the journal entries recorded against a contribution,
// which includes any sub-payments made on the member's behalf.
func (s *ContributionService) GetSubPayments(ctx context.Context, contributionID uuid.UUID) ([]LedgerEntryResponse, error) {
	entries, err := s.ledger.FindByContributionID(ctx, contributionID, chit.TransactionTypeContribution)
	if err != nil {
		return nil, err
	}
	return toLedgerResponses(entries), nil
}
