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

// GormAuctionRepository implements AuctionRepository using GORM
type GormAuctionRepository struct {
	db *gorm.DB
}

// NewGormAuctionRepository creates a new GormAuctionRepository
func NewGormAuctionRepository(db *gorm.DB) *GormAuctionRepository {
	return &GormAuctionRepository{db: db}
}

// Upsert creates the auction if none exists for its cycle, otherwise
// overwrites the existing row in place. The stored row keeps its original ID
// so bids recorded against it stay attached.
func (r *GormAuctionRepository) Upsert(ctx context.Context, auction *chit.Auction) (*chit.Auction, error) {
	var existing models.AuctionModel
	err := r.db.WithContext(ctx).Where("cycle_id = ?", auction.CycleID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		model := models.AuctionModelFromDomain(auction)
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return nil, err
		}
		return model.ToDomain(), nil
	}
	if err != nil {
		return nil, err
	}

	model := models.AuctionModelFromDomain(auction)
	result := r.db.WithContext(ctx).
		Model(&models.AuctionModel{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"auction_date":         model.AuctionDate,
			"auction_type":         model.AuctionType,
			"status":               model.Status,
			"winner_user_id":       model.WinnerUserID,
			"winning_bid_amount":   model.WinningBidAmount,
			"winner_payout_amount": model.WinnerPayoutAmount,
			"dividend_per_member":  model.DividendPerMember,
			"version":              existing.Version + 1,
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	return r.FindByID(ctx, existing.ID)
}

// FindByID finds an auction by ID
func (r *GormAuctionRepository) FindByID(ctx context.Context, id uuid.UUID) (*chit.Auction, error) {
	var model models.AuctionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCycleID finds the auction recorded for a cycle
func (r *GormAuctionRepository) FindByCycleID(ctx context.Context, cycleID uuid.UUID) (*chit.Auction, error) {
	var model models.AuctionModel
	if err := r.db.WithContext(ctx).Where("cycle_id = ?", cycleID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CreateBids records bids against an auction
func (r *GormAuctionRepository) CreateBids(ctx context.Context, bids []*chit.Bid) error {
	if len(bids) == 0 {
		return nil
	}
	bidModels := make([]*models.BidModel, len(bids))
	for i, bid := range bids {
		bidModels[i] = models.BidModelFromDomain(bid)
	}
	return r.db.WithContext(ctx).Create(&bidModels).Error
}

// DeleteBids removes all bids recorded against an auction
func (r *GormAuctionRepository) DeleteBids(ctx context.Context, auctionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Delete(&models.BidModel{}).Error
}

// FindBids returns an auction's bids ordered by descending bid amount
func (r *GormAuctionRepository) FindBids(ctx context.Context, auctionID uuid.UUID) ([]*chit.Bid, error) {
	var bidModels []models.BidModel
	if err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("bid_amount DESC").
		Find(&bidModels).Error; err != nil {
		return nil, err
	}
	bids := make([]*chit.Bid, len(bidModels))
	for i, model := range bidModels {
		bids[i] = model.ToDomain()
	}
	return bids, nil
}

// Ensure GormAuctionRepository implements AuctionRepository
var _ chit.AuctionRepository = (*GormAuctionRepository)(nil)
