package persistence

import (
	"context"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/chitfund/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPenaltyRepository implements PenaltyRepository using GORM
type GormPenaltyRepository struct {
	db *gorm.DB
}

// NewGormPenaltyRepository creates a new GormPenaltyRepository
func NewGormPenaltyRepository(db *gorm.DB) *GormPenaltyRepository {
	return &GormPenaltyRepository{db: db}
}

// Create creates a new penalty
func (r *GormPenaltyRepository) Create(ctx context.Context, penalty *chit.Penalty) error {
	model := models.PenaltyModelFromDomain(penalty)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByCycleID finds all penalties recorded for a cycle
func (r *GormPenaltyRepository) FindByCycleID(ctx context.Context, cycleID uuid.UUID) ([]*chit.Penalty, error) {
	var penaltyModels []models.PenaltyModel
	if err := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("applied_date DESC").
		Find(&penaltyModels).Error; err != nil {
		return nil, err
	}
	penalties := make([]*chit.Penalty, len(penaltyModels))
	for i, model := range penaltyModels {
		penalties[i] = model.ToDomain()
	}
	return penalties, nil
}

// CountByContributionID counts penalties recorded against a contribution
func (r *GormPenaltyRepository) CountByContributionID(ctx context.Context, contributionID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PenaltyModel{}).
		Where("contribution_id = ?", contributionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormPenaltyRepository implements PenaltyRepository
var _ chit.PenaltyRepository = (*GormPenaltyRepository)(nil)
