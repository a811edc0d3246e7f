package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between operator roles
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// DefaultPlanSlug is the plan every new identity starts on.
const DefaultPlanSlug = "free"

// User is the logged-in operator (a trainer, or an admin managing the plan catalog).
// Stored in the "profiles" collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	AvatarURL    string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Plan         string             `bson:"plan,omitempty" json:"plan"` // Plan slug
	DarkMode     bool               `bson:"darkMode" json:"darkMode"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
