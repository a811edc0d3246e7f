// internal/repository/mongo/workout_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.TrainerID == primitive.NilObjectID || workout.Name == "" {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// GetByID retrieves a single workout owned by trainerID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id, trainerID primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, ownedBy(id, trainerID)).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// ListByTrainer retrieves all workouts of a trainer, most recently edited first.
func (r *mongoWorkoutRepository) ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Workout, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"trainerId": trainerID}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Workout](ctx, cursor)
}

func (r *mongoWorkoutRepository) CountByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"trainerId": trainerID})
	return int(n), err
}

// Update replaces the builder-owned fields of a workout.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return repository.ErrInvalidRecord
	}

	workout.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"name":               workout.Name,
			"description":        workout.Description,
			"type":               workout.Type,
			"notes":              workout.Notes,
			"targetMuscleGroups": workout.TargetMuscleGroups,
			"exercises":          workout.Exercises,
			"isTemplate":         workout.IsTemplate,
			"updatedAt":          workout.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, ownedBy(workout.ID, workout.TrainerID), updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout, ensuring it belongs to the specified trainer.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id, trainerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, ownedBy(id, trainerID))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) AddClient(ctx context.Context, id, trainerID, clientID primitive.ObjectID) error {
	return r.setClients(ctx, id, trainerID, bson.M{"$addToSet": bson.M{"clientIds": clientID}})
}

func (r *mongoWorkoutRepository) RemoveClient(ctx context.Context, id, trainerID, clientID primitive.ObjectID) error {
	return r.setClients(ctx, id, trainerID, bson.M{"$pull": bson.M{"clientIds": clientID}})
}

// setClients leaves updatedAt alone.
func (r *mongoWorkoutRepository) setClients(ctx context.Context, id, trainerID primitive.ObjectID, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, ownedBy(id, trainerID), update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
