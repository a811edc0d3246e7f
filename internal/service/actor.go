package service

import (
	"fitpro/manager/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated caller as seen by services that check roles.
type Actor struct {
	ID   primitive.ObjectID
	Role domain.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}
