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

// GormCycleRepository implements CycleRepository using GORM
type GormCycleRepository struct {
	db *gorm.DB
}

// NewGormCycleRepository creates a new GormCycleRepository
func NewGormCycleRepository(db *gorm.DB) *GormCycleRepository {
	return &GormCycleRepository{db: db}
}

// Create creates a new cycle
func (r *GormCycleRepository) Create(ctx context.Context, cycle *chit.Cycle) error {
	model := models.CycleModelFromDomain(cycle)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a cycle by ID
func (r *GormCycleRepository) FindByID(ctx context.Context, id uuid.UUID) (*chit.Cycle, error) {
	var model models.CycleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGroupID finds all cycles of a group ordered by cycle number
func (r *GormCycleRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*chit.Cycle, error) {
	var cycleModels []models.CycleModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("cycle_number ASC").
		Find(&cycleModels).Error; err != nil {
		return nil, err
	}
	cycles := make([]*chit.Cycle, len(cycleModels))
	for i, model := range cycleModels {
		cycles[i] = model.ToDomain()
	}
	return cycles, nil
}

// MaxCycleNumber returns the highest cycle number for the group, 0 if none
func (r *GormCycleRepository) MaxCycleNumber(ctx context.Context, groupID uuid.UUID) (int, error) {
	var result struct {
		Max int
	}
	if err := r.db.WithContext(ctx).
		Model(&models.CycleModel{}).
		Select("COALESCE(MAX(cycle_number), 0) as max").
		Where("group_id = ?", groupID).
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Max, nil
}

// Save updates a cycle with optimistic locking
func (r *GormCycleRepository) Save(ctx context.Context, cycle *chit.Cycle) error {
	model := models.CycleModelFromDomain(cycle)
	result := r.db.WithContext(ctx).
		Model(&models.CycleModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"auction_status":            model.AuctionStatus,
			"total_collection_expected": model.TotalCollectionExpected,
			"total_collection_received": model.TotalCollectionReceived,
			"version":                   model.Version + 1,
			"updated_at":                model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	cycle.IncrementVersion()
	return nil
}

// Ensure GormCycleRepository implements CycleRepository
var _ chit.CycleRepository = (*GormCycleRepository)(nil)
