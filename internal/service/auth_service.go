package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"slices"
	"strings"
	"time"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"
	"fitpro/manager/internal/session"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Claims is the JWT payload. RegisteredClaims.ID carries the token id used for revocation.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService signs operators in and out. It never hands back the new
// identity; every state change is published on the session bus and read
// back through the registry.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (token string, err error)
	Login(ctx context.Context, email, password string) (token string, err error)
	Logout(ctx context.Context, claims *Claims) error
	Refresh(ctx context.Context, claims *Claims) (token string, err error)
	// ParseToken validates a bearer token, including revocation.
	ParseToken(tokenString string) (*Claims, error)
	// Me returns the identity held for userID, resolving it from the profile store on a miss.
	Me(ctx context.Context, userID primitive.ObjectID) (session.Identity, error)
}

type authService struct {
	userRepo      repository.UserRepository
	bus           *session.Bus
	registry      *session.Registry
	jwtSecret     string
	jwtExpiration time.Duration
	adminEmails   []string
}

// NewAuthService creates a new instance of authService. An empty secret is
// accepted; token operations then fail with ErrAuthUnavailable.
func NewAuthService(userRepo repository.UserRepository, bus *session.Bus, registry *session.Registry, jwtSecret string, jwtExpiration time.Duration, adminEmails []string) AuthService {
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	admins := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		admins = append(admins, normalizeEmail(e))
	}
	return &authService{
		userRepo:      userRepo,
		bus:           bus,
		registry:      registry,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		adminEmails:   admins,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	switch {
	case in.Name == "" || in.Email == "" || in.Password == "":
		return "", invalid("name, email and password are required")
	case !validEmail(in.Email):
		return "", invalid("email %q is not valid", in.Email)
	case len(in.Password) < minPasswordLength:
		return "", invalid("password must have at least %d characters", minPasswordLength)
	case in.Password != in.ConfirmPassword:
		return "", invalid("passwords do not match")
	}
	if s.jwtSecret == "" {
		return "", ErrAuthUnavailable
	}

	_, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return "", ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		slog.Error("Failed to check existing user", "email", in.Email, "error", err)
		return "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleTrainer,
		Plan:         domain.DefaultPlanSlug,
	}
	if slices.Contains(s.adminEmails, in.Email) {
		user.Role = domain.RoleAdmin
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// Lost a race with another registration for the same email.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return "", ErrUserAlreadyExists
		}
		slog.Error("Failed to create user", "email", in.Email, "error", err)
		return "", err
	}
	user.ID = userID

	token, claims, err := s.generateJWT(user)
	if err != nil {
		return "", err
	}
	s.publish(session.SignedUp, user, claims)
	return token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", invalid("email and password are required")
	}
	if s.jwtSecret == "" {
		return "", ErrAuthUnavailable
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrAuthenticationFailed
		}
		slog.Error("Failed to load user for login", "email", email, "error", err)
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthenticationFailed
	}

	token, claims, err := s.generateJWT(user)
	if err != nil {
		return "", err
	}
	s.publish(session.SignedIn, user, claims)
	return token, nil
}

func (s *authService) Logout(_ context.Context, claims *Claims) error {
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return ErrInvalidToken
	}
	s.publish(session.SignedOut, &domain.User{ID: userID}, claims)
	return nil
}

// Refresh issues a fresh token for the holder of claims. The old token stays
// valid until it expires.
func (s *authService) Refresh(ctx context.Context, claims *Claims) (string, error) {
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return "", ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	token, newClaims, err := s.generateJWT(user)
	if err != nil {
		return "", err
	}
	s.publish(session.TokenRefreshed, user, newClaims)
	return token, nil
}

func (s *authService) Me(ctx context.Context, userID primitive.ObjectID) (session.Identity, error) {
	if id, ok := s.registry.Current(userID); ok {
		return id, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return session.Identity{}, ErrUserNotFound
		}
		return session.Identity{}, err
	}
	s.publish(session.TokenRefreshed, user, nil)

	if id, ok := s.registry.Current(userID); ok {
		return id, nil
	}
	return session.IdentityFromUser(user), nil
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	if s.jwtSecret == "" {
		return nil, ErrAuthUnavailable
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" || s.registry.Revoked(claims.ID) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// --- JWT Helper ---

func (s *authService) generateJWT(user *domain.User) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "fitpro-manager",
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		slog.Error("Failed to sign token", "userID", user.ID.Hex(), "error", err)
		return "", nil, ErrTokenGeneration
	}
	return signed, claims, nil
}

func (s *authService) publish(kind session.EventKind, user *domain.User, claims *Claims) {
	e := session.Event{Kind: kind, User: user}
	if claims != nil {
		e.TokenID = claims.ID
		if claims.ExpiresAt != nil {
			e.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	s.bus.Publish(e)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
