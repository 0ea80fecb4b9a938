package settlement

import (
	"context"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/chitfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CycleService opens collection cycles and answers cycle queries. Opening a
// cycle also seeds a pending contribution for every member of the group, all
// in one transaction.
type CycleService struct {
	scope  TransactionScope
	cycles chit.CycleRepository
	logger *zap.Logger
}

// NewCycleService creates a new cycle service
func NewCycleService(scope TransactionScope, cycles chit.CycleRepository, logger *zap.Logger) *CycleService {
	return &CycleService{
		scope:  scope,
		cycles: cycles,
		logger: logger,
	}
}

// CreateCycle opens the next cycle for a group. The cycle number is one past
// the group's current highest; the month/year label and expected collection
// derive from the group's settings. A pending contribution for the monthly
// amount is created for every member.
func (s *CycleService) CreateCycle(ctx context.Context, groupID uuid.UUID) (*CycleResponse, error) {
	var created *chit.Cycle

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		group, err := repos.Groups().FindByID(ctx, groupID)
		if err != nil {
			return err
		}
		if !group.IsActive() {
			return shared.NewDomainError("GROUP_CLOSED", "Cannot open a cycle on a closed group")
		}

		maxNumber, err := repos.Cycles().MaxCycleNumber(ctx, groupID)
		if err != nil {
			return err
		}

		cycle, err := chit.NewCycle(group, maxNumber+1)
		if err != nil {
			return err
		}
		if err := repos.Cycles().Create(ctx, cycle); err != nil {
			return err
		}

		members, err := repos.Members().FindByGroupID(ctx, groupID)
		if err != nil {
			return err
		}

		contributions := make([]*chit.Contribution, 0, len(members))
		for _, member := range members {
			contribution, err := chit.NewContribution(cycle, member, group.MonthlyContribution)
			if err != nil {
				return err
			}
			contributions = append(contributions, contribution)
		}
		if len(contributions) > 0 {
			if err := repos.Contributions().CreateBatch(ctx, contributions); err != nil {
				return err
			}
		}

		created = cycle
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cycle opened",
		zap.String("group_id", groupID.String()),
		zap.Int("cycle_number", created.CycleNumber),
		zap.String("month_year", created.CycleMonthYear))

	resp := ToCycleResponse(created)
	return &resp, nil
}

// GetCycle returns a single cycle by ID
func (s *CycleService) GetCycle(ctx context.Context, cycleID uuid.UUID) (*CycleResponse, error) {
	cycle, err := s.cycles.FindByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	resp := ToCycleResponse(cycle)
	return &resp, nil
}

// GetCycles returns all cycles for a group
func (s *CycleService) GetCycles(ctx context.Context, groupID uuid.UUID) ([]CycleResponse, error) {
	cycles, err := s.cycles.FindByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	responses := make([]CycleResponse, 0, len(cycles))
	for _, cycle := range cycles {
		responses = append(responses, ToCycleResponse(cycle))
	}
	return responses, nil
}
