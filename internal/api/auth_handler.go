package api

import (
	"context"
	"net/http"

	"fitpro/manager/internal/service"
	"fitpro/manager/internal/session"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the bearer token and the identity it resolves to.
type AuthResponse struct {
	Token  string           `json:"token"`
	User   session.Identity `json:"user"`
	Notice string           `json:"notice,omitempty"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new trainer
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Failure 503 {object} gin.H "Authentication not configured"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, err, "An unexpected error occurred during registration")
		return
	}
	h.respondWithToken(c, http.StatusCreated, token, "Account created")
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "An unexpected error occurred during login")
		return
	}
	h.respondWithToken(c, http.StatusOK, token, "")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, err := getClaimsFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err, "Failed to log out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": "Signed out"})
}

// Refresh issues a new token for the caller. The presented token stays valid until it expires.
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims, err := getClaimsFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	token, err := h.authService.Refresh(c.Request.Context(), claims)
	if err != nil {
		respondError(c, err, "Failed to refresh token")
		return
	}
	h.respondWithToken(c, http.StatusOK, token, "")
}

// Me returns the identity held by the session registry.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	identity, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load identity")
		return
	}
	c.JSON(http.StatusOK, identity)
}

// respondWithToken reads the new identity back through the registry, like /me does.
func (h *AuthHandler) respondWithToken(c *gin.Context, code int, token, notice string) {
	identity, err := h.identityFor(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "Failed to load identity")
		return
	}
	c.JSON(code, AuthResponse{Token: token, User: identity, Notice: notice})
}

func (h *AuthHandler) identityFor(ctx context.Context, token string) (session.Identity, error) {
	claims, err := h.authService.ParseToken(token)
	if err != nil {
		return session.Identity{}, err
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return session.Identity{}, service.ErrInvalidToken
	}
	return h.authService.Me(ctx, userID)
}
