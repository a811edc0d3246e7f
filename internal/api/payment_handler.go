package api

import (
	"net/http"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type PaymentResponse struct {
	Payment *domain.Payment `json:"payment"`
	Notice  string          `json:"notice,omitempty"`
}

type UpdatePaymentStatusRequest struct {
	Status domain.PaymentStatus `json:"status" binding:"required"`
}

// ListPayments godoc
// @Summary List payments with the client name joined in
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param status query string false "paid, pending, overdue, canceled or all"
// @Param clientId query string false "Only this client's payments"
// @Success 200 {array} domain.PaymentWithClient
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var filter service.PaymentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}
	payments, err := h.paymentService.List(c.Request.Context(), trainerID, filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve payments.")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	paymentID, ok := pathObjectID(c, "paymentId")
	if !ok {
		return
	}
	payment, err := h.paymentService.Get(c.Request.Context(), trainerID, paymentID)
	if err != nil {
		respondError(c, err, "Failed to retrieve payment.")
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req service.PaymentInput
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.paymentService.Create(c.Request.Context(), trainerID, req)
	if err != nil {
		respondError(c, err, "Failed to create payment.")
		return
	}
	c.JSON(http.StatusCreated, PaymentResponse{Payment: payment, Notice: "Payment recorded"})
}

func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	paymentID, ok := pathObjectID(c, "paymentId")
	if !ok {
		return
	}
	var req UpdatePaymentStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.paymentService.UpdateStatus(c.Request.Context(), trainerID, paymentID, req.Status)
	if err != nil {
		respondError(c, err, "Failed to update payment.")
		return
	}
	c.JSON(http.StatusOK, PaymentResponse{Payment: payment, Notice: "Payment updated"})
}

func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	paymentID, ok := pathObjectID(c, "paymentId")
	if !ok {
		return
	}
	if err := h.paymentService.Delete(c.Request.Context(), trainerID, paymentID); err != nil {
		respondError(c, err, "Failed to delete payment.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": "Payment deleted"})
}
