package persistence

import (
	"context"
	"errors"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/chitfund/backend/internal/domain/shared"
	"github.com/chitfund/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContributionRepository implements ContributionRepository using GORM
type GormContributionRepository struct {
	db *gorm.DB
}

// NewGormContributionRepository creates a new GormContributionRepository
func NewGormContributionRepository(db *gorm.DB) *GormContributionRepository {
	return &GormContributionRepository{db: db}
}

// Create creates a new contribution
func (r *GormContributionRepository) Create(ctx context.Context, contribution *chit.Contribution) error {
	model := models.ContributionModelFromDomain(contribution)
	return r.db.WithContext(ctx).Create(model).Error
}

// CreateBatch creates multiple contributions in one statement
func (r *GormContributionRepository) CreateBatch(ctx context.Context, contributions []*chit.Contribution) error {
	if len(contributions) == 0 {
		return nil
	}
	contributionModels := make([]*models.ContributionModel, len(contributions))
	for i, contribution := range contributions {
		contributionModels[i] = models.ContributionModelFromDomain(contribution)
	}
	return r.db.WithContext(ctx).Create(&contributionModels).Error
}

// FindByID finds a contribution by ID
func (r *GormContributionRepository) FindByID(ctx context.Context, id uuid.UUID) (*chit.Contribution, error) {
	var model models.ContributionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCycleID finds all contributions for a cycle
func (r *GormContributionRepository) FindByCycleID(ctx context.Context, cycleID uuid.UUID) ([]*chit.Contribution, error) {
	var contributionModels []models.ContributionModel
	if err := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("created_at ASC").
		Find(&contributionModels).Error; err != nil {
		return nil, err
	}
	return toDomainContributions(contributionModels), nil
}

// FindByGroupAndStatus returns the group's contributions in the given status
func (r *GormContributionRepository) FindByGroupAndStatus(ctx context.Context, groupID uuid.UUID, status chit.PaymentStatus) ([]*chit.Contribution, error) {
	var contributionModels []models.ContributionModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND payment_status = ?", groupID, status).
		Order("created_at ASC").
		Find(&contributionModels).Error; err != nil {
		return nil, err
	}
	return toDomainContributions(contributionModels), nil
}

// Save updates a contribution with optimistic locking
func (r *GormContributionRepository) Save(ctx context.Context, contribution *chit.Contribution) error {
	model := models.ContributionModelFromDomain(contribution)
	result := r.db.WithContext(ctx).
		Model(&models.ContributionModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"amount_paid":    model.AmountPaid,
			"payment_status": model.PaymentStatus,
			"is_partial":     model.IsPartial,
			"payment_mode":   model.PaymentMode,
			"payment_date":   model.PaymentDate,
			"reference_no":   model.ReferenceNo,
			"version":        model.Version + 1,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	contribution.IncrementVersion()
	return nil
}

func toDomainContributions(contributionModels []models.ContributionModel) []*chit.Contribution {
	contributions := make([]*chit.Contribution, len(contributionModels))
	for i, model := range contributionModels {
		contributions[i] = model.ToDomain()
	}
	return contributions
}

// Ensure GormContributionRepository implements ContributionRepository
var _ chit.ContributionRepository = (*GormContributionRepository)(nil)
