package session

import (
	"log/slog"
	"sync"
	"time"

	"fitpro/manager/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is the session view of a signed-in operator.
type Identity struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Role      domain.Role        `json:"role"`
	AvatarURL string             `json:"avatarUrl,omitempty"`
	Plan      string             `json:"plan"`
	DarkMode  bool               `json:"darkMode"`
}

// IdentityFromUser remaps a profile, defaulting role to trainer and plan to free.
func IdentityFromUser(u *domain.User) Identity {
	id := Identity{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
		Plan:      u.Plan,
		DarkMode:  u.DarkMode,
	}
	if id.Role == "" {
		id.Role = domain.RoleTrainer
	}
	if id.Plan == "" {
		id.Plan = domain.DefaultPlanSlug
	}
	return id
}

// Registry holds the current identity per user and the revoked token ids.
type Registry struct {
	mu         sync.RWMutex
	identities map[primitive.ObjectID]Identity
	revoked    map[string]time.Time
	now        func() time.Time
}

// NewRegistry returns a registry subscribed to bus.
func NewRegistry(bus *Bus) *Registry {
	r := &Registry{
		identities: make(map[primitive.ObjectID]Identity),
		revoked:    make(map[string]time.Time),
		now:        time.Now,
	}
	bus.Subscribe(r.handle)
	return r
}

func (r *Registry) handle(e Event) {
	if e.User == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e.Kind {
	case SignedOut:
		delete(r.identities, e.User.ID)
		if e.TokenID != "" {
			r.revoked[e.TokenID] = e.ExpiresAt
		}
		r.prune()
	default:
		r.identities[e.User.ID] = IdentityFromUser(e.User)
	}
	slog.Debug("Session event", "kind", e.Kind, "userID", e.User.ID.Hex())
}

// Current returns the held identity for userID.
func (r *Registry) Current(userID primitive.ObjectID) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.identities[userID]
	return id, ok
}

// Revoked reports whether tokenID was signed out and has not yet expired.
func (r *Registry) Revoked(tokenID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exp, ok := r.revoked[tokenID]
	return ok && (exp.IsZero() || r.now().Before(exp))
}

// prune drops revocations for tokens that have expired anyway. Caller holds mu.
func (r *Registry) prune() {
	now := r.now()
	for id, exp := range r.revoked {
		if !exp.IsZero() && !now.Before(exp) {
			delete(r.revoked, id)
		}
	}
}
