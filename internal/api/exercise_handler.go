package api

import (
	"net/http"

	"fitpro/manager/internal/builder"
	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

type ExerciseResponse struct {
	Exercise *domain.Exercise `json:"exercise"`
	Notice   string           `json:"notice,omitempty"`
}

// MediaURLRequest asks for a presigned upload URL for exercise media.
type MediaURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// ListExercises godoc
// @Summary Browse the exercise catalog
// @Description Filters combine: search on name, muscle group and equipment ("all" disables a filter).
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Exercise
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	var filter builder.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}
	exercises, err := h.exerciseService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, exercises)
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.Get(c.Request.Context(), exerciseID)
	if err != nil {
		respondError(c, err, "Failed to retrieve exercise.")
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req service.ExerciseInput
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create exercise.")
		return
	}
	c.JSON(http.StatusCreated, ExerciseResponse{Exercise: exercise, Notice: "Exercise created"})
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}
	var req service.ExerciseInput
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.Update(c.Request.Context(), actor, exerciseID, req)
	if err != nil {
		respondError(c, err, "Failed to update exercise.")
		return
	}
	c.JSON(http.StatusOK, ExerciseResponse{Exercise: exercise, Notice: "Exercise updated"})
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}
	if err := h.exerciseService.Delete(c.Request.Context(), actor, exerciseID); err != nil {
		respondError(c, err, "Failed to delete exercise.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": "Exercise deleted"})
}

// MediaUploadURL godoc
// @Summary Get a presigned URL to upload exercise media
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ObjectID Hex"
// @Param body body MediaURLRequest true "Media content type"
// @Success 200 {object} service.UploadURLResponse
// @Failure 403 {object} gin.H "Not the creator of the exercise"
// @Router /exercises/{exerciseId}/media-url [post]
func (h *ExerciseHandler) MediaUploadURL(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}
	var req MediaURLRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.exerciseService.MediaUploadURL(c.Request.Context(), actor, exerciseID, req.ContentType)
	if err != nil {
		respondError(c, err, "Failed to generate upload URL.")
		return
	}
	c.JSON(http.StatusOK, resp)
}
