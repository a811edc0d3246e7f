package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

var errInsertedID = errors.New("failed to convert inserted ID")

// ConnectDB creates a client for the given URI. The driver connects lazily,
// so an unreachable server only surfaces through Ping or on the first call.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	return mongo.Connect(ctx, clientOptions)
}

// Ping verifies the primary is reachable.
func Ping(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Ping(ctx, readpref.Primary())
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes for every collection used by the app.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return errors.Join(
		EnsureUserIndexes(ctx, db.Collection(userCollectionName)),
		EnsureClientIndexes(ctx, db.Collection(clientCollectionName)),
		EnsureExerciseIndexes(ctx, db.Collection(exerciseCollectionName)),
		EnsureWorkoutIndexes(ctx, db.Collection(workoutCollectionName)),
		EnsurePaymentIndexes(ctx, db.Collection(paymentCollectionName)),
		EnsurePlanIndexes(ctx, db.Collection(planCollectionName)),
		EnsureUploadIndexes(ctx, db.Collection(uploadCollectionName)),
	)
}

func insertedObjectID(result *mongo.InsertOneResult) (primitive.ObjectID, error) {
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errInsertedID
	}
	return id, nil
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
