package mongo

import (
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// NewStore wires every MongoDB repository against db.
func NewStore(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Users:     NewMongoUserRepository(db),
		Clients:   NewMongoClientRepository(db),
		Exercises: NewMongoExerciseRepository(db),
		Workouts:  NewMongoWorkoutRepository(db),
		Payments:  NewMongoPaymentRepository(db),
		Plans:     NewMongoPlanRepository(db),
		Uploads:   NewMongoUploadRepository(db),
	}
}
