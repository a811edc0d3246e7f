package api

import (
	"errors"
	"log/slog"
	"net/http"

	"fitpro/manager/internal/export"
	"fitpro/manager/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthenticationFailed), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAccessDenied), errors.Is(err, service.ErrPlanLimitReached):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrDraftNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserAlreadyExists), errors.Is(err, service.ErrPlanSlugTaken):
		return http.StatusConflict
	case errors.Is(err, export.ErrPreviewTooLarge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrUploadFailed), errors.Is(err, service.ErrUploadURLError):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrAuthUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes the error notice for err. Internal errors are logged
// and replaced by fallback so nothing from the store leaks to the client.
func respondError(c *gin.Context, err error, fallback string) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.Error(fallback, "path", c.FullPath(), "error", err)
		abortWithError(c, code, fallback)
		return
	}
	abortWithError(c, code, err.Error())
}

// bindJSON binds the request body or aborts with 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}
