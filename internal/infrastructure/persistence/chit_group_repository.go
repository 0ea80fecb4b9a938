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

// GormGroupRepository implements GroupRepository using GORM
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// Create creates a new chit group
func (r *GormGroupRepository) Create(ctx context.Context, group *chit.Group) error {
	model := models.GroupModelFromDomain(group)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a chit group by ID
func (r *GormGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*chit.Group, error) {
	var model models.GroupModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive returns all groups still running, oldest first
func (r *GormGroupRepository) FindActive(ctx context.Context) ([]*chit.Group, error) {
	var groupModels []models.GroupModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(chit.GroupStatusActive)).
		Order("start_date ASC").
		Find(&groupModels).Error; err != nil {
		return nil, err
	}
	groups := make([]*chit.Group, 0, len(groupModels))
	for i := range groupModels {
		groups = append(groups, groupModels[i].ToDomain())
	}
	return groups, nil
}

// Save updates a chit group with optimistic locking
func (r *GormGroupRepository) Save(ctx context.Context, group *chit.Group) error {
	model := models.GroupModelFromDomain(group)
	result := r.db.WithContext(ctx).
		Model(&models.GroupModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"group_name":           model.GroupName,
			"chit_value":           model.ChitValue,
			"total_members":        model.TotalMembers,
			"monthly_contribution": model.MonthlyContribution,
			"start_date":           model.StartDate,
			"penalty_type":         model.PenaltyType,
			"penalty_amount":       model.PenaltyAmount,
			"due_day":              model.DueDay,
			"status":               model.Status,
			"version":              model.Version + 1,
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	group.IncrementVersion()
	return nil
}

// Ensure GormGroupRepository implements GroupRepository
var _ chit.GroupRepository = (*GormGroupRepository)(nil)
