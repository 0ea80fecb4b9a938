package handler

import (
	"time"

	"github.com/chitfund/backend/internal/application/settlement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PenaltyHandler handles penalty API endpoints
type PenaltyHandler struct {
	BaseHandler
	penaltyService *settlement.PenaltyService
}

// NewPenaltyHandler creates a new PenaltyHandler
func NewPenaltyHandler(penaltyService *settlement.PenaltyService) *PenaltyHandler {
	return &PenaltyHandler{penaltyService: penaltyService}
}

// ApplyPenaltyRequest represents a manual penalty against a contribution
type ApplyPenaltyRequest struct {
	ContributionID string  `json:"contribution_id" binding:"required,uuid"`
	Amount         float64 `json:"amount" binding:"required,gt=0" example:"100.00"`
	Reason         string  `json:"reason" binding:"required,min=1,max=500" example:"Late payment"`
}

// Apply records a manual penalty against a contribution
func (h *PenaltyHandler) Apply(c *gin.Context) {
	var req ApplyPenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	contributionID, err := uuid.Parse(req.ContributionID)
	if err != nil {
		h.BadRequest(c, "Invalid contribution ID format")
		return
	}

	penalty, err := h.penaltyService.Apply(c.Request.Context(), settlement.ApplyPenaltyInput{
		ContributionID: contributionID,
		Amount:         decimal.NewFromFloat(req.Amount),
		Reason:         req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, penalty)
}

// AutoCheck sweeps a group's pending contributions and penalizes the overdue
// ones that have not been penalized yet.
func (h *PenaltyHandler) AutoCheck(c *gin.Context) {
	groupID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	applied, err := h.penaltyService.AutoCheck(c.Request.Context(), groupID, time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, applied)
}

// ListByCycle returns all penalties recorded for a cycle
func (h *PenaltyHandler) ListByCycle(c *gin.Context) {
	cycleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid cycle ID format")
		return
	}

	penalties, err := h.penaltyService.GetByCycle(c.Request.Context(), cycleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, penalties)
}
