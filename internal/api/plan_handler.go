package api

import (
	"net/http"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/service"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type PlanResponse struct {
	Plan   *domain.Plan `json:"plan"`
	Notice string       `json:"notice,omitempty"`
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve plans.")
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	plan, err := h.planService.Get(c.Request.Context(), planID)
	if err != nil {
		respondError(c, err, "Failed to retrieve plan.")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// CreatePlan godoc
// @Summary Create a subscription plan (admin)
// @Description Marking the plan as default clears the flag on every other plan.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body service.PlanInput true "Plan"
// @Success 201 {object} PlanResponse
// @Failure 403 {object} gin.H "Not an admin"
// @Failure 409 {object} gin.H "Slug already taken"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req service.PlanInput
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.planService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create plan.")
		return
	}
	c.JSON(http.StatusCreated, PlanResponse{Plan: plan, Notice: "Plan created"})
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	var req service.PlanInput
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.planService.Update(c.Request.Context(), planID, req)
	if err != nil {
		respondError(c, err, "Failed to update plan.")
		return
	}
	c.JSON(http.StatusOK, PlanResponse{Plan: plan, Notice: "Plan updated"})
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	if err := h.planService.Delete(c.Request.Context(), planID); err != nil {
		respondError(c, err, "Failed to delete plan.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": "Plan deleted"})
}

// SelectPlan moves the caller onto the plan. Refused while the caller has
// more clients than the plan allows.
func (h *PlanHandler) SelectPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	user, err := h.planService.Select(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err, "Failed to select plan.")
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{Profile: user, Notice: "Plan updated"})
}
