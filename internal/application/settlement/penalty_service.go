package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ApplyPenaltyInput describes a manually applied penalty
type ApplyPenaltyInput struct {
	ContributionID uuid.UUID
	Amount         decimal.Decimal
	Reason         string
}

// PenaltyService applies late-payment penalties, either manually by an
// operator or automatically by scanning a group's unpaid contributions.
type PenaltyService struct {
	scope     TransactionScope
	penalties chit.PenaltyRepository
	logger    *zap.Logger
}

// NewPenaltyService creates a new penalty service
func NewPenaltyService(scope TransactionScope, penalties chit.PenaltyRepository, logger *zap.Logger) *PenaltyService {
	return &PenaltyService{
		scope:     scope,
		penalties: penalties,
		logger:    logger,
	}
}

// Apply records an operator-entered penalty against a contribution and
// journals the charge. The contribution's payment status is left as is.
func (s *PenaltyService) Apply(ctx context.Context, input ApplyPenaltyInput) (*PenaltyResponse, error) {
	var created *chit.Penalty

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		contribution, err := repos.Contributions().FindByID(ctx, input.ContributionID)
		if err != nil {
			return err
		}

		penalty, err := chit.NewPenalty(contribution, input.Amount, input.Reason)
		if err != nil {
			return err
		}
		if err := repos.Penalties().Create(ctx, penalty); err != nil {
			return err
		}

		entry, err := newJournalEntry(ctx, repos.Ledger(), contribution.UserID, contribution.GroupID,
			chit.TransactionTypePenalty, input.Amount)
		if err != nil {
			return err
		}
		entry.WithCycle(contribution.CycleID).WithContribution(contribution.ID).WithNotes(input.Reason)
		if err := repos.Ledger().Append(ctx, entry); err != nil {
			return err
		}

		created = penalty
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("penalty applied",
		zap.String("contribution_id", input.ContributionID.String()),
		zap.String("amount", input.Amount.String()),
		zap.String("reason", input.Reason))

	resp := ToPenaltyResponse(created)
	return &resp, nil
}

// AutoCheck scans a group's pending contributions as of the given time and
// penalises the ones past their due date that have no penalty yet. Each hit
// gets a penalty computed from the group's penalty settings, a journal entry,
// and an overdue status. Returns the penalties created.
func (s *PenaltyService) AutoCheck(ctx context.Context, groupID uuid.UUID, asOf time.Time) ([]PenaltyResponse, error) {
	var created []*chit.Penalty

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		group, err := repos.Groups().FindByID(ctx, groupID)
		if err != nil {
			return err
		}

		pending, err := repos.Contributions().FindByGroupAndStatus(ctx, groupID, chit.PaymentStatusPending)
		if err != nil {
			return err
		}

		for _, contribution := range pending {
			count, err := repos.Penalties().CountByContributionID(ctx, contribution.ID)
			if err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			cycle, err := repos.Cycles().FindByID(ctx, contribution.CycleID)
			if err != nil {
				return err
			}
			if !asOf.After(dueDate(group, cycle)) {
				continue
			}

			amount := group.ComputePenalty(contribution.AmountPayable)
			if !amount.IsPositive() {
				continue
			}

			reason := fmt.Sprintf("Auto penalty for late payment (%s)", cycle.CycleMonthYear)
			penalty, err := chit.NewPenalty(contribution, amount, reason)
			if err != nil {
				return err
			}
			if err := repos.Penalties().Create(ctx, penalty); err != nil {
				return err
			}

			entry, err := newJournalEntry(ctx, repos.Ledger(), contribution.UserID, contribution.GroupID,
				chit.TransactionTypePenalty, amount)
			if err != nil {
				return err
			}
			entry.WithCycle(contribution.CycleID).WithContribution(contribution.ID).WithNotes(reason)
			if err := repos.Ledger().Append(ctx, entry); err != nil {
				return err
			}

			if err := contribution.MarkOverdue(); err != nil {
				return err
			}
			if err := repos.Contributions().Save(ctx, contribution); err != nil {
				return err
			}

			created = append(created, penalty)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("penalty auto-check complete",
		zap.String("group_id", groupID.String()),
		zap.Int("penalties_applied", len(created)))

	responses := make([]PenaltyResponse, 0, len(created))
	for _, penalty := range created {
		responses = append(responses, ToPenaltyResponse(penalty))
	}
	return responses, nil
}

// AutoCheckAll sweeps every active group. Each group is checked in its own
// transaction so one failing group does not block the rest. Returns the total
// number of penalties applied.
func (s *PenaltyService) AutoCheckAll(ctx context.Context, asOf time.Time) (int, error) {
	var groupIDs []uuid.UUID
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		groups, err := repos.Groups().FindActive(ctx)
		if err != nil {
			return err
		}
		for _, group := range groups {
			groupIDs = append(groupIDs, group.ID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	total := 0
	for _, groupID := range groupIDs {
		applied, err := s.AutoCheck(ctx, groupID, asOf)
		if err != nil {
			s.logger.Warn("penalty auto-check failed for group",
				zap.String("group_id", groupID.String()),
				zap.Error(err))
			continue
		}
		total += len(applied)
	}
	return total, nil
}

// GetByCycle returns all penalties recorded for a cycle
func (s *PenaltyService) GetByCycle(ctx context.Context, cycleID uuid.UUID) ([]PenaltyResponse, error) {
	penalties, err := s.penalties.FindByCycleID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	responses := make([]PenaltyResponse, 0, len(penalties))
	for _, penalty := range penalties {
		responses = append(responses, ToPenaltyResponse(penalty))
	}
	return responses, nil
}

// dueDate is the day of the cycle's month on which payment falls due
func dueDate(group *chit.Group, cycle *chit.Cycle) time.Time {
	base := group.StartDate.AddDate(0, cycle.CycleNumber-1, 0)
	return time.Date(base.Year(), base.Month(), group.DueDay, 23, 59, 59, 0, base.Location())
}
