package persistence

import (
	"context"
	"errors"

	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/chitfund/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerRepository implements LedgerRepository using GORM. The journal is
// append-only; this repository exposes no update or delete.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append records a new ledger entry at the next position in the user's
// journal. The per-user sequence, not the entry date, defines chain order:
// backdated entries still extend the chain from the latest balance.
func (r *GormLedgerRepository) Append(ctx context.Context, entry *chit.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	var lastSeq int64
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("user_id = ?", entry.UserID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&lastSeq).Error
	if err != nil {
		return err
	}
	model.Seq = lastSeq + 1
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByUserID finds a user's entries across all groups, most recent first
func (r *GormLedgerRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter chit.LedgerFilter) ([]*chit.LedgerEntry, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	return r.findEntries(applyLedgerFilter(query, filter))
}

// FindByGroupAndUser finds a user's entries within one group, most recent first
func (r *GormLedgerRepository) FindByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID, filter chit.LedgerFilter) ([]*chit.LedgerEntry, error) {
	query := r.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID)
	return r.findEntries(applyLedgerFilter(query, filter))
}

// FindByContributionID finds entries of the given type recorded against a
// contribution, most recent first
func (r *GormLedgerRepository) FindByContributionID(ctx context.Context, contributionID uuid.UUID, txType chit.TransactionType) ([]*chit.LedgerEntry, error) {
	query := r.db.WithContext(ctx).
		Where("contribution_id = ? AND transaction_type = ?", contributionID, txType)
	return r.findEntries(query)
}

// LatestBalance returns the BalanceAfter of the user's last appended entry,
// or zero if the user has no entries.
func (r *GormLedgerRepository) LatestBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var model models.LedgerEntryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return model.BalanceAfter, nil
}

// HasEntryForCycle reports whether any entry of the given type exists for
// the cycle
func (r *GormLedgerRepository) HasEntryForCycle(ctx context.Context, cycleID uuid.UUID, txType chit.TransactionType) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("cycle_id = ? AND transaction_type = ?", cycleID, txType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormLedgerRepository) findEntries(query *gorm.DB) ([]*chit.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := query.Order("date DESC, seq DESC").Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]*chit.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = model.ToDomain()
	}
	return entries, nil
}

func applyLedgerFilter(query *gorm.DB, filter chit.LedgerFilter) *gorm.DB {
	if filter.TransactionType != nil {
		query = query.Where("transaction_type = ?", *filter.TransactionType)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}
	return query
}

// Ensure GormLedgerRepository implements LedgerRepository
var _ chit.LedgerRepository = (*GormLedgerRepository)(nil)
