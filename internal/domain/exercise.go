// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the global catalog.
type Exercise struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Category    string              `bson:"category,omitempty" json:"category,omitempty"`       // e.g., "strength", "cardio"
	MuscleGroup string              `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g., "chest", "legs"
	Equipment   string              `bson:"equipment,omitempty" json:"equipment,omitempty"`     // e.g., "dumbbells", "none"
	Difficulty  string              `bson:"difficulty,omitempty" json:"difficulty,omitempty"`   // "beginner", "intermediate", "advanced"
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	VideoURL    string              `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	ImageURL    string              `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedBy   *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"` // Nil for seeded catalog entries
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
