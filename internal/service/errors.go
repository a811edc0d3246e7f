package service

import (
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	// ErrValidation wraps every input error found before a repository call.
	ErrValidation = errors.New("validation failed")

	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrAuthUnavailable      = errors.New("authentication is not configured")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")

	ErrUserNotFound     = errors.New("user not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrDraftNotFound    = errors.New("draft not found or expired")

	ErrAccessDenied     = errors.New("access denied")
	ErrPlanLimitReached = errors.New("client limit of the current plan reached")
	ErrPlanSlugTaken    = errors.New("a plan with this slug already exists")
	ErrUploadFailed     = errors.New("failed to store uploaded file")
	ErrUploadURLError   = errors.New("failed to generate upload URL")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
