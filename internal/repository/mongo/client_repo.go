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

const clientCollectionName = "clients"

// mongoClientRepository implements repository.ClientRepository
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a new Client repository backed by MongoDB.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

func ownedBy(id, trainerID primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "trainerId": trainerID}
}

// Create inserts a new client. Nil slices are stored as empty arrays so $push works later.
func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.Name == "" || client.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}

	client.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now
	if client.Measurements == nil {
		client.Measurements = []domain.Measurement{}
	}
	if client.WorkoutIDs == nil {
		client.WorkoutIDs = []primitive.ObjectID{}
	}
	if client.PaymentIDs == nil {
		client.PaymentIDs = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// GetByID retrieves a client owned by trainerID.
func (r *mongoClientRepository) GetByID(ctx context.Context, id, trainerID primitive.ObjectID) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, ownedBy(id, trainerID)).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// ListByTrainer returns every client of the trainer, newest first.
func (r *mongoClientRepository) ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Client, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"trainerId": trainerID}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Client](ctx, cursor)
}

func (r *mongoClientRepository) CountByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"trainerId": trainerID})
	return int(n), err
}

// CreatedSince returns clients created at or after since, oldest first.
func (r *mongoClientRepository) CreatedSince(ctx context.Context, trainerID primitive.ObjectID, since time.Time) ([]domain.Client, error) {
	filter := bson.M{
		"trainerId": trainerID,
		"createdAt": bson.M{"$gte": since},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Client](ctx, cursor)
}

// Update writes the editable fields. Owner, reference sets and measurements are not changed here.
func (r *mongoClientRepository) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":           client.Name,
			"email":          client.Email,
			"phone":          client.Phone,
			"age":            client.Age,
			"gender":         client.Gender,
			"goal":           client.Goal,
			"status":         client.Status,
			"startDate":      client.StartDate,
			"avatarUrl":      client.AvatarURL,
			"medicalHistory": client.MedicalHistory,
			"notes":          client.Notes,
			"planId":         client.PlanID,
			"updatedAt":      client.UpdatedAt,
		},
	}
	return r.updateOne(ctx, ownedBy(client.ID, client.TrainerID), update)
}

// Delete removes a client, ensuring it belongs to the specified trainer.
func (r *mongoClientRepository) Delete(ctx context.Context, id, trainerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, ownedBy(id, trainerID))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AppendMeasurement pushes a snapshot keeping the array sorted by date.
func (r *mongoClientRepository) AppendMeasurement(ctx context.Context, id, trainerID primitive.ObjectID, m domain.Measurement) error {
	update := bson.M{
		"$push": bson.M{"measurements": bson.M{
			"$each": bson.A{m},
			"$sort": bson.M{"date": 1},
		}},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.updateOne(ctx, ownedBy(id, trainerID), update)
}

func (r *mongoClientRepository) AddWorkout(ctx context.Context, id, trainerID, workoutID primitive.ObjectID) error {
	return r.updateOne(ctx, ownedBy(id, trainerID), bson.M{
		"$addToSet": bson.M{"workoutIds": workoutID}, // $addToSet prevents duplicates
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoClientRepository) RemoveWorkout(ctx context.Context, id, trainerID, workoutID primitive.ObjectID) error {
	return r.updateOne(ctx, ownedBy(id, trainerID), bson.M{
		"$pull": bson.M{"workoutIds": workoutID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoClientRepository) AddPayment(ctx context.Context, id, trainerID, paymentID primitive.ObjectID) error {
	return r.updateOne(ctx, ownedBy(id, trainerID), bson.M{
		"$addToSet": bson.M{"paymentIds": paymentID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoClientRepository) RemovePayment(ctx context.Context, id, trainerID, paymentID primitive.ObjectID) error {
	return r.updateOne(ctx, ownedBy(id, trainerID), bson.M{
		"$pull": bson.M{"paymentIds": paymentID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoClientRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureClientIndexes creates necessary indexes for the clients collection.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
