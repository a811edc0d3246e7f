package api

import (
	"net/http"
	"strconv"

	"fitpro/manager/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DraftHandler exposes the workout builder. Every edit returns the whole draft.
type DraftHandler struct {
	drafts *service.DraftService
}

func NewDraftHandler(drafts *service.DraftService) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

type StartDraftRequest struct {
	WorkoutID *primitive.ObjectID `json:"workoutId"`
}

type AddExerciseRequest struct {
	ExerciseID primitive.ObjectID `json:"exerciseId"`
}

type UpdateSetRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type DraftResponse struct {
	Draft  service.Draft `json:"draft"`
	Notice string        `json:"notice,omitempty"`
}

// StartDraft godoc
// @Summary Open a builder draft
// @Description Without workoutId the draft starts empty, otherwise it edits that workout.
// @Tags Builder
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body StartDraftRequest false "Workout to edit"
// @Success 201 {object} DraftResponse
// @Failure 404 {object} gin.H "Workout not found"
// @Router /builder/drafts [post]
func (h *DraftHandler) StartDraft(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req StartDraftRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	draft, err := h.drafts.Start(c.Request.Context(), trainerID, req.WorkoutID)
	if err != nil {
		respondError(c, err, "Failed to start draft.")
		return
	}
	c.JSON(http.StatusCreated, DraftResponse{Draft: draft})
}

func (h *DraftHandler) GetDraft(c *gin.Context) {
	h.edit(c, "", func(trainerID primitive.ObjectID, draftID string) (service.Draft, error) {
		return h.drafts.Get(trainerID, draftID)
	})
}

func (h *DraftHandler) UpdateDetails(c *gin.Context) {
	var req service.DraftDetails
	if !bindJSON(c, &req) {
		return
	}
	h.edit(c, "", func(trainerID primitive.ObjectID, draftID string) (service.Draft, error) {
		return h.drafts.SetDetails(trainerID, draftID, req)
	})
}

func (h *DraftHandler) AddExercise(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req AddExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	draft, notice, err := h.drafts.AddExercise(c.Request.Context(), trainerID, c.Param("draftId"), req.ExerciseID)
	if err != nil {
		respondError(c, err, "Failed to add exercise.")
		return
	}
	c.JSON(http.StatusOK, DraftResponse{Draft: draft, Notice: notice})
}

func (h *DraftHandler) RemoveExercise(c *gin.Context) {
	i, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	h.edit(c, "Exercise removed", func(trainerID primitive.ObjectID, draftID string) (service.Draft, error) {
		return h.drafts.RemoveExercise(trainerID, draftID, i)
	})
}

func (h *DraftHandler) MoveExerciseUp(c *gin.Context) {
	i, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	h.edit(c, "", func(trainerID primitive.ObjectID, draftID string) (service.Draft, error) {
		return h.drafts.MoveUp(trainerID, draftID, i)
	})
}

func (h *DraftHandler) MoveExerciseDown(c *gin.Context) {
	i, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	h.edit(c, "", func(trainerID primitive.ObjectID, draftID string) (service.Draft, error) {
		return h.drafts.MoveDown(trainerID, draftID, i)
	})
}

func (h *DraftHandler) AddSet(c *gin.Context) {
	i, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	h.edit(c, "", func(trainerID primitive.ObjectID, draftID string) (service.Draft, error) {
		return h.drafts.AddSet(trainerID, draftID, i)
	})
}

func (h *DraftHandler) RemoveSet(c *gin.Context) {
	i, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	j, ok := pathIndex(c, "set")
	if !ok {
		return
	}
	h.edit(c, "", func(trainerID primitive.ObjectID, draftID string) (service.Draft, error) {
		return h.drafts.RemoveSet(trainerID, draftID, i, j)
	})
}

func (h *DraftHandler) UpdateSet(c *gin.Context) {
	i, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	j, ok := pathIndex(c, "set")
	if !ok {
		return
	}
	var req UpdateSetRequest
	if !bindJSON(c, &req) {
		return
	}
	h.edit(c, "", func(trainerID primitive.ObjectID, draftID string) (service.Draft, error) {
		return h.drafts.UpdateSet(trainerID, draftID, i, j, req.Field, req.Value)
	})
}

// SaveDraft persists the draft. On success the draft is gone; on a
// validation error it stays open for further edits.
func (h *DraftHandler) SaveDraft(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workout, err := h.drafts.Save(c.Request.Context(), trainerID, c.Param("draftId"))
	if err != nil {
		respondError(c, err, "Failed to save workout.")
		return
	}
	c.JSON(http.StatusOK, WorkoutResponse{Workout: workout, Notice: "Workout saved"})
}

func (h *DraftHandler) PreviewDraft(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	preview, err := h.drafts.Preview(trainerID, c.Param("draftId"))
	if err != nil {
		respondError(c, err, "Failed to build preview.")
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *DraftHandler) ExportDraft(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	data, name, err := h.drafts.ExportPDF(trainerID, c.Param("draftId"))
	if err != nil {
		respondError(c, err, "Failed to export PDF.")
		return
	}
	sendPDF(c, data, name)
}

func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.drafts.Discard(trainerID, c.Param("draftId")); err != nil {
		respondError(c, err, "Failed to discard draft.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": "Draft discarded"})
}

func (h *DraftHandler) edit(c *gin.Context, notice string, fn func(trainerID primitive.ObjectID, draftID string) (service.Draft, error)) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	draft, err := fn(trainerID, c.Param("draftId"))
	if err != nil {
		respondError(c, err, "Failed to update draft.")
		return
	}
	c.JSON(http.StatusOK, DraftResponse{Draft: draft, Notice: notice})
}

// pathIndex parses a zero-based position from the path. Range checks are the builder's.
func pathIndex(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" in path.")
		return 0, false
	}
	return n, true
}
