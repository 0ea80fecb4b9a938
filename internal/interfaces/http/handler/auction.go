package handler

import (
	"github.com/chitfund/backend/internal/application/settlement"
	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionHandler handles auction resolution and bidding API endpoints
type AuctionHandler struct {
	BaseHandler
	auctionService *settlement.AuctionService
}

// NewAuctionHandler creates a new AuctionHandler
func NewAuctionHandler(auctionService *settlement.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctionService: auctionService}
}

// BidSubmissionRequest is a single bid in a resolution bid sheet
type BidSubmissionRequest struct {
	UserID string  `json:"user_id" binding:"required,uuid"`
	Amount float64 `json:"amount" binding:"required" example:"2000.00"`
}

// ResolveAuctionRequest carries the full bid sheet for settling a cycle
type ResolveAuctionRequest struct {
	AuctionType string                 `json:"auction_type" binding:"required,oneof=online offline" example:"offline"`
	Bids        []BidSubmissionRequest `json:"bids" binding:"required,min=1,dive"`
}

// PlaceBidRequest records one standalone bid against an auction
type PlaceBidRequest struct {
	UserID string  `json:"user_id" binding:"required,uuid"`
	Amount float64 `json:"amount" binding:"required,gt=0" example:"1500.00"`
}

// Resolve settles the auction for a cycle from a full bid sheet
func (h *AuctionHandler) Resolve(c *gin.Context) {
	cycleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid cycle ID format")
		return
	}

	var req ResolveAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bids := make([]chit.BidSubmission, 0, len(req.Bids))
	for _, bid := range req.Bids {
		userID, err := uuid.Parse(bid.UserID)
		if err != nil {
			h.BadRequest(c, "Invalid bidder user ID format")
			return
		}
		bids = append(bids, chit.BidSubmission{
			UserID: userID,
			Amount: decimal.NewFromFloat(bid.Amount),
		})
	}

	auction, err := h.auctionService.Resolve(c.Request.Context(), settlement.ResolveAuctionInput{
		CycleID:     cycleID,
		AuctionType: chit.AuctionType(req.AuctionType),
		Bids:        bids,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, auction)
}

// Disburse journals the resolved auction's payout and dividends
func (h *AuctionHandler) Disburse(c *gin.Context) {
	cycleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid cycle ID format")
		return
	}

	entries, err := h.auctionService.Disburse(c.Request.Context(), cycleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entries)
}

// GetByCycle returns the auction recorded for a cycle
func (h *AuctionHandler) GetByCycle(c *gin.Context) {
	cycleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid cycle ID format")
		return
	}

	auction, err := h.auctionService.GetAuction(c.Request.Context(), cycleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, auction)
}

// PlaceBid records a standalone bid against an existing auction
func (h *AuctionHandler) PlaceBid(c *gin.Context) {
	auctionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid auction ID format")
		return
	}

	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	bid, err := h.auctionService.PlaceBid(c.Request.Context(), auctionID, userID, decimal.NewFromFloat(req.Amount))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, bid)
}

// ListBids returns an auction's bids, highest first
func (h *AuctionHandler) ListBids(c *gin.Context) {
	auctionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid auction ID format")
		return
	}

	bids, err := h.auctionService.GetBids(c.Request.Context(), auctionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bids)
}
