// Package session holds the process-wide view of who is signed in.
//
// AuthService publishes every auth state change on a Bus. The Registry
// subscribes and keeps the current Identity per user, so readers observe the
// effect of a login or logout rather than the call's return value.
package session

import (
	"sync"
	"time"

	"fitpro/manager/internal/domain"
)

type EventKind string

const (
	SignedIn       EventKind = "signed_in"
	SignedUp       EventKind = "signed_up"
	TokenRefreshed EventKind = "token_refreshed"
	ProfileUpdated EventKind = "profile_updated"
	SignedOut      EventKind = "signed_out"
)

// Event is one emission of the session-change stream.
type Event struct {
	Kind EventKind
	User *domain.User
	// TokenID is the jti of the token the event concerns, if any.
	TokenID   string
	ExpiresAt time.Time
}

// Bus fans events out to subscribers synchronously, in subscription order.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish delivers e to every subscriber before returning.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}
