package handler

import (
	"github.com/chitfund/backend/internal/application/settlement"
	"github.com/chitfund/backend/internal/domain/chit"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ContributionHandler handles contribution payment API endpoints
type ContributionHandler struct {
	BaseHandler
	contributionService *settlement.ContributionService
}

// NewContributionHandler creates a new ContributionHandler
func NewContributionHandler(contributionService *settlement.ContributionService) *ContributionHandler {
	return &ContributionHandler{contributionService: contributionService}
}

// RecordPaymentRequest represents a payment against a contribution
type RecordPaymentRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"2500.00"`
	PaymentMode string  `json:"payment_mode" binding:"required,oneof=upi cash bank" example:"upi"`
	ReferenceNo string  `json:"reference_no" binding:"max=100" example:"UPI-20260115-001"`
}

// SubPaymentRequest represents a payment made on the member's behalf
type SubPaymentRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"1000.00"`
	PaymentMode string  `json:"payment_mode" binding:"required,oneof=upi cash bank" example:"cash"`
	ReferenceNo string  `json:"reference_no" binding:"max=100"`
	PayerName   string  `json:"payer_name" binding:"required,min=1,max=100" example:"Ravi"`
}

// UpdateStatusRequest represents an administrative payment status override
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending partial paid overdue" example:"paid"`
}

// RecordPayment applies a payment to a contribution
func (h *ContributionHandler) RecordPayment(c *gin.Context) {
	contributionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contribution ID format")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contribution, err := h.contributionService.RecordPayment(c.Request.Context(), settlement.RecordPaymentInput{
		ContributionID: contributionID,
		Amount:         decimal.NewFromFloat(req.Amount),
		PaymentMode:    chit.PaymentMode(req.PaymentMode),
		ReferenceNo:    req.ReferenceNo,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, contribution)
}

// AddSubPayment records a payment made for the member by someone else
func (h *ContributionHandler) AddSubPayment(c *gin.Context) {
	contributionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contribution ID format")
		return
	}

	var req SubPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contribution, err := h.contributionService.AddSubPayment(c.Request.Context(), settlement.SubPaymentInput{
		ContributionID: contributionID,
		Amount:         decimal.NewFromFloat(req.Amount),
		PaymentMode:    chit.PaymentMode(req.PaymentMode),
		ReferenceNo:    req.ReferenceNo,
		PayerName:      req.PayerName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, contribution)
}

// UpdateStatus overrides a contribution's payment status
func (h *ContributionHandler) UpdateStatus(c *gin.Context) {
	contributionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contribution ID format")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contribution, err := h.contributionService.UpdateStatus(c.Request.Context(), contributionID, chit.PaymentStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contribution)
}

// GetByID returns a single contribution
func (h *ContributionHandler) GetByID(c *gin.Context) {
	contributionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contribution ID format")
		return
	}

	contribution, err := h.contributionService.GetContribution(c.Request.Context(), contributionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contribution)
}

// GetSubPayments returns the journal entries recorded against a contribution
func (h *ContributionHandler) GetSubPayments(c *gin.Context) {
	contributionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contribution ID format")
		return
	}

	entries, err := h.contributionService.GetSubPayments(c.Request.Context(), contributionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}
