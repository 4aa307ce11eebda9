package api

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type GeneratePlanRequest struct {
	ResponseID string `json:"responseId" binding:"required"`
}

type PlanDTO struct {
	ID                    string         `json:"id"`
	CreatedFromResponseID string         `json:"createdFromResponseId"`
	Plan                  map[string]any `json:"plan"`
	CreatedAt             time.Time      `json:"createdAt"`
}

// --- Handler Methods ---

// GeneratePlan runs one generation attempt for the given interview response.
// Every successful call stores a new plan, so clients can regenerate freely.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user role from token")
		return
	}

	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	responseID, err := parseHexID(req.ResponseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid responseId format")
		return
	}

	plan, err := h.planService.Generate(c.Request.Context(), userID, role, responseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapPlanToDTO(plan))
}

// GetPlan returns one stored plan.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user role from token")
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), userID, role, planID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPlanToDTO(plan))
}

// ListPlans returns the caller's stored plans, newest first.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	dtos := make([]PlanDTO, 0, len(plans))
	for i := range plans {
		dtos = append(dtos, mapPlanToDTO(&plans[i]))
	}
	c.JSON(http.StatusOK, dtos)
}

func mapPlanToDTO(plan *domain.Plan) PlanDTO {
	return PlanDTO{
		ID:                    plan.ID.Hex(),
		CreatedFromResponseID: plan.CreatedFromResponseID.Hex(),
		Plan:                  plan.PlanJSON,
		CreatedAt:             plan.CreatedAt,
	}
}
