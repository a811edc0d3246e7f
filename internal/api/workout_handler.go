package api

import (
	"mime"
	"net/http"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

type WorkoutResponse struct {
	Workout *domain.Workout `json:"workout"`
	Notice  string          `json:"notice,omitempty"`
}

func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var filter service.WorkoutFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}
	workouts, err := h.workoutService.List(c.Request.Context(), trainerID, filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve workouts.")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	workout, err := h.workoutService.Get(c.Request.Context(), trainerID, workoutID)
	if err != nil {
		respondError(c, err, "Failed to retrieve workout.")
		return
	}
	c.JSON(http.StatusOK, workout)
}

// CreateWorkout godoc
// @Summary Create a workout in one request
// @Description The payload goes through the same validation as a builder draft.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body service.WorkoutInput true "Workout"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Missing name or exercises"
// @Failure 404 {object} gin.H "Unknown exercise"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req service.WorkoutInput
	if !bindJSON(c, &req) {
		return
	}
	workout, err := h.workoutService.Create(c.Request.Context(), trainerID, req)
	if err != nil {
		respondError(c, err, "Failed to create workout.")
		return
	}
	c.JSON(http.StatusCreated, WorkoutResponse{Workout: workout, Notice: "Workout saved"})
}

func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	var req service.WorkoutInput
	if !bindJSON(c, &req) {
		return
	}
	workout, err := h.workoutService.Update(c.Request.Context(), trainerID, workoutID, req)
	if err != nil {
		respondError(c, err, "Failed to update workout.")
		return
	}
	c.JSON(http.StatusOK, WorkoutResponse{Workout: workout, Notice: "Workout updated"})
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	if err := h.workoutService.Delete(c.Request.Context(), trainerID, workoutID); err != nil {
		respondError(c, err, "Failed to delete workout.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": "Workout deleted"})
}

func (h *WorkoutHandler) PreviewWorkout(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	preview, err := h.workoutService.Preview(c.Request.Context(), trainerID, workoutID)
	if err != nil {
		respondError(c, err, "Failed to build preview.")
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *WorkoutHandler) ExportWorkout(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	data, name, err := h.workoutService.ExportPDF(c.Request.Context(), trainerID, workoutID)
	if err != nil {
		respondError(c, err, "Failed to export PDF.")
		return
	}
	sendPDF(c, data, name)
}

// sendPDF writes data as a PDF attachment named name.
func sendPDF(c *gin.Context, data []byte, name string) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, "application/pdf", data)
}
