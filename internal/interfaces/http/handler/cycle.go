package handler

import (
	"github.com/chitfund/backend/internal/application/settlement"
	"github.com/gin-gonic/gin"
)

// CycleHandler handles cycle lifecycle API endpoints
type CycleHandler struct {
	BaseHandler
	cycleService        *settlement.CycleService
	contributionService *settlement.ContributionService
}

// NewCycleHandler creates a new CycleHandler
func NewCycleHandler(cycleService *settlement.CycleService, contributionService *settlement.ContributionService) *CycleHandler {
	return &CycleHandler{
		cycleService:        cycleService,
		contributionService: contributionService,
	}
}

// Create opens the next cycle for a group and seeds a pending contribution
// for every current member.
func (h *CycleHandler) Create(c *gin.Context) {
	groupID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	cycle, err := h.cycleService.CreateCycle(c.Request.Context(), groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, cycle)
}

// List returns a group's cycles in ascending cycle number order
func (h *CycleHandler) List(c *gin.Context) {
	groupID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	cycles, err := h.cycleService.GetCycles(c.Request.Context(), groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cycles)
}

// GetByID returns a single cycle
func (h *CycleHandler) GetByID(c *gin.Context) {
	cycleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid cycle ID format")
		return
	}

	cycle, err := h.cycleService.GetCycle(c.Request.Context(), cycleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cycle)
}

// ListContributions returns all contributions of a cycle
func (h *CycleHandler) ListContributions(c *gin.Context) {
	cycleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid cycle ID format")
		return
	}

	contributions, err := h.contributionService.GetByCycle(c.Request.Context(), cycleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contributions)
}

// InitializeContributions backfills pending contributions for members that
// joined after the cycle was opened.
func (h *CycleHandler) InitializeContributions(c *gin.Context) {
	cycleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid cycle ID format")
		return
	}

	created, err := h.contributionService.InitializeCycle(c.Request.Context(), cycleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, created)
}
