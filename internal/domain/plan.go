package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is a subscription tier. MaxClients == 0 means unlimited.
type Plan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug         string             `bson:"slug" json:"slug"`
	Name         string             `bson:"name" json:"name"`
	Price        float64            `bson:"price" json:"price"`
	Frequency    string             `bson:"frequency" json:"frequency"` // e.g. "forever", "month"
	Features     []string           `bson:"features" json:"features"`
	MaxClients   int                `bson:"maxClients" json:"maxClients"`
	SessionQuota *int               `bson:"sessionQuota,omitempty" json:"sessionQuota,omitempty"`
	DurationDays *int               `bson:"durationDays,omitempty" json:"durationDays,omitempty"`
	IsDefault    bool               `bson:"isDefault" json:"isDefault"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Unlimited reports whether the plan has no client ceiling.
func (p *Plan) Unlimited() bool {
	return p.MaxClients <= 0
}

// AllowsClients reports whether an owner with count clients may add one more.
func (p *Plan) AllowsClients(count int) bool {
	return p.Unlimited() || count < p.MaxClients
}
