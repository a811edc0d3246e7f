package api

import (
	"net/http"

	"fitpro/manager/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	statsService service.StatsService
}

func NewDashboardHandler(statsService service.StatsService) *DashboardHandler {
	return &DashboardHandler{statsService: statsService}
}

// Dashboard godoc
// @Summary Dashboard counters and six-month series
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	stats, err := h.statsService.Dashboard(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to load dashboard.")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) FinancialSummary(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	summary, err := h.statsService.FinancialSummary(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to load financial summary.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) MonthlyRevenue(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	series, err := h.statsService.MonthlyRevenue(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to load revenue.")
		return
	}
	c.JSON(http.StatusOK, series)
}

func (h *DashboardHandler) MonthlyNewClients(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	series, err := h.statsService.MonthlyNewClients(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to load client growth.")
		return
	}
	c.JSON(http.StatusOK, series)
}
