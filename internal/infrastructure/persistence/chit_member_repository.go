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

// GormGroupMemberRepository implements GroupMemberRepository using GORM
type GormGroupMemberRepository struct {
	db *gorm.DB
}

// NewGormGroupMemberRepository creates a new GormGroupMemberRepository
func NewGormGroupMemberRepository(db *gorm.DB) *GormGroupMemberRepository {
	return &GormGroupMemberRepository{db: db}
}

// Create creates a new group membership
func (r *GormGroupMemberRepository) Create(ctx context.Context, member *chit.GroupMember) error {
	model := models.GroupMemberModelFromDomain(member)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a group membership by ID
func (r *GormGroupMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*chit.GroupMember, error) {
	var model models.GroupMemberModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGroupID finds all memberships of a group ordered by join date
func (r *GormGroupMemberRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*chit.GroupMember, error) {
	var memberModels []models.GroupMemberModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("join_date ASC").
		Find(&memberModels).Error; err != nil {
		return nil, err
	}
	members := make([]*chit.GroupMember, len(memberModels))
	for i, model := range memberModels {
		members[i] = model.ToDomain()
	}
	return members, nil
}

// FindByGroupAndUser finds a user's membership in a group
func (r *GormGroupMemberRepository) FindByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*chit.GroupMember, error) {
	var model models.GroupMemberModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save updates a group membership with optimistic locking
func (r *GormGroupMemberRepository) Save(ctx context.Context, member *chit.GroupMember) error {
	model := models.GroupMemberModelFromDomain(member)
	result := r.db.WithContext(ctx).
		Model(&models.GroupMemberModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"nominee_name":  model.NomineeName,
			"nominee_phone": model.NomineePhone,
			"won_status":    model.WonStatus,
			"version":       model.Version + 1,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	member.IncrementVersion()
	return nil
}

// Ensure GormGroupMemberRepository implements GroupMemberRepository
var _ chit.GroupMemberRepository = (*GormGroupMemberRepository)(nil)
