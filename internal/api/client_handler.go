package api

import (
	"context"
	"net/http"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// ClientResponse wraps a client returned from an editor action.
type ClientResponse struct {
	Client *domain.Client `json:"client"`
	Notice string         `json:"notice,omitempty"`
}

// ListClients godoc
// @Summary List the trainer's clients
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param status query string false "active, inactive, pending or all"
// @Param search query string false "Matches name or email"
// @Param sort query string false "name or recent"
// @Success 200 {array} domain.Client
// @Router /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var filter service.ClientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	clients, err := h.clientService.List(c.Request.Context(), trainerID, filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve clients.")
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}
	client, err := h.clientService.Get(c.Request.Context(), trainerID, clientID)
	if err != nil {
		respondError(c, err, "Failed to retrieve client.")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req service.ClientInput
	if !bindJSON(c, &req) {
		return
	}
	client, err := h.clientService.Create(c.Request.Context(), trainerID, req)
	if err != nil {
		respondError(c, err, "Failed to create client.")
		return
	}
	c.JSON(http.StatusCreated, ClientResponse{Client: client, Notice: "Client created"})
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}
	var req service.ClientInput
	if !bindJSON(c, &req) {
		return
	}
	client, err := h.clientService.Update(c.Request.Context(), trainerID, clientID, req)
	if err != nil {
		respondError(c, err, "Failed to update client.")
		return
	}
	c.JSON(http.StatusOK, ClientResponse{Client: client, Notice: "Client updated"})
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}
	if err := h.clientService.Delete(c.Request.Context(), trainerID, clientID); err != nil {
		respondError(c, err, "Failed to delete client.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": "Client deleted"})
}

func (h *ClientHandler) AddMeasurement(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}
	var req domain.Measurement
	if !bindJSON(c, &req) {
		return
	}
	client, err := h.clientService.AddMeasurement(c.Request.Context(), trainerID, clientID, req)
	if err != nil {
		respondError(c, err, "Failed to add measurement.")
		return
	}
	c.JSON(http.StatusCreated, ClientResponse{Client: client, Notice: "Measurement added"})
}

func (h *ClientHandler) AssignWorkout(c *gin.Context) {
	h.changeAssignment(c, h.clientService.AssignWorkout, "Workout assigned")
}

func (h *ClientHandler) UnassignWorkout(c *gin.Context) {
	h.changeAssignment(c, h.clientService.UnassignWorkout, "Workout unassigned")
}

type assignmentFunc = func(ctx context.Context, trainerID, clientID, workoutID primitive.ObjectID) (*domain.Client, error)

func (h *ClientHandler) changeAssignment(c *gin.Context, fn assignmentFunc, notice string) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	client, err := fn(c.Request.Context(), trainerID, clientID, workoutID)
	if err != nil {
		respondError(c, err, "Failed to change workout assignment.")
		return
	}
	c.JSON(http.StatusOK, ClientResponse{Client: client, Notice: notice})
}
