package handler

import (
	"time"

	"github.com/chitfund/backend/internal/application/settlement"
	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerHandler handles journal query and manual entry API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *settlement.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *settlement.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// LedgerListFilter represents filter options for ledger queries
type LedgerListFilter struct {
	TransactionType string `form:"transaction_type" binding:"omitempty,oneof=contribution penalty dividend winner_payout adjustment"`
	DateFrom        string `form:"date_from" example:"2026-01-01"`
	DateTo          string `form:"date_to" example:"2026-01-31"`
}

// ManualEntryRequest represents an operator-entered journal adjustment
type ManualEntryRequest struct {
	UserID          string  `json:"user_id" binding:"required,uuid"`
	GroupID         string  `json:"group_id" binding:"required,uuid"`
	CycleID         *string `json:"cycle_id" binding:"omitempty,uuid"`
	TransactionType string  `json:"transaction_type" binding:"omitempty,oneof=contribution penalty dividend winner_payout adjustment"`
	Amount          float64 `json:"amount" binding:"required" example:"-300.00"`
	Date            *string `json:"date" binding:"omitempty" example:"2026-01-15"`
	Notes           string  `json:"notes" binding:"max=500"`
}

func (f LedgerListFilter) toDomain() (chit.LedgerFilter, error) {
	var filter chit.LedgerFilter
	if f.TransactionType != "" {
		txType := chit.TransactionType(f.TransactionType)
		filter.TransactionType = &txType
	}
	if f.DateFrom != "" {
		from, err := time.Parse("2006-01-02", f.DateFrom)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &from
	}
	if f.DateTo != "" {
		to, err := time.Parse("2006-01-02", f.DateTo)
		if err != nil {
			return filter, err
		}
		// inclusive end of day
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &to
	}
	return filter, nil
}

// GetUserLedger returns a user's journal entries across all groups
func (h *LedgerHandler) GetUserLedger(c *gin.Context) {
	userID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var query LedgerListFilter
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter, err := query.toDomain()
	if err != nil {
		h.BadRequest(c, "Invalid date format (expected YYYY-MM-DD)")
		return
	}

	entries, err := h.ledgerService.GetUserLedger(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// GetGroupMemberLedger returns a user's journal entries within one group
func (h *LedgerHandler) GetGroupMemberLedger(c *gin.Context) {
	groupID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}
	userID, err := parseUUIDParam(c, "uid")
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var query LedgerListFilter
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter, err := query.toDomain()
	if err != nil {
		h.BadRequest(c, "Invalid date format (expected YYYY-MM-DD)")
		return
	}

	entries, err := h.ledgerService.GetGroupMemberLedger(c.Request.Context(), groupID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// GetBalance returns a user's current running balance
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	userID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, map[string]interface{}{
		"user_id": userID,
		"balance": balance,
	})
}

// AddManualEntry records an operator-entered journal entry
func (h *LedgerHandler) AddManualEntry(c *gin.Context) {
	var req ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}
	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	input := settlement.ManualEntryInput{
		UserID:          userID,
		GroupID:         groupID,
		TransactionType: chit.TransactionTypeAdjustment,
		Amount:          decimal.NewFromFloat(req.Amount),
		Notes:           req.Notes,
	}
	if req.TransactionType != "" {
		input.TransactionType = chit.TransactionType(req.TransactionType)
	}
	if req.CycleID != nil {
		cycleID, err := uuid.Parse(*req.CycleID)
		if err != nil {
			h.BadRequest(c, "Invalid cycle ID format")
			return
		}
		input.CycleID = &cycleID
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			h.BadRequest(c, "Invalid date format (expected YYYY-MM-DD)")
			return
		}
		input.Date = &date
	}

	entry, err := h.ledgerService.AddManualEntry(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}
