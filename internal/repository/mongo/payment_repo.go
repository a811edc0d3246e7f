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

const paymentCollectionName = "payments"

// mongoPaymentRepository implements repository.PaymentRepository
type mongoPaymentRepository struct {
	collection *mongo.Collection
}

// NewMongoPaymentRepository creates a new Payment repository backed by MongoDB.
func NewMongoPaymentRepository(db *mongo.Database) repository.PaymentRepository {
	return &mongoPaymentRepository{
		collection: db.Collection(paymentCollectionName),
	}
}

// Create inserts a new payment.
func (r *mongoPaymentRepository) Create(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error) {
	if payment.ClientID == primitive.NilObjectID || payment.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}

	payment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

func (r *mongoPaymentRepository) GetByID(ctx context.Context, id, trainerID primitive.ObjectID) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.collection.FindOne(ctx, ownedBy(id, trainerID)).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// ListByTrainer returns payments newest first, joined with the client's name.
func (r *mongoPaymentRepository) ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.PaymentWithClient, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"trainerId": trainerID}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         clientCollectionName,
			"localField":   "clientId",
			"foreignField": "_id",
			"as":           "client",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"clientName": bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$client.name", 0}},
				"",
			}},
		}}},
		{{Key: "$project", Value: bson.M{"client": 0}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.PaymentWithClient](ctx, cursor)
}

// Since returns payments dated at or after since, oldest first.
func (r *mongoPaymentRepository) Since(ctx context.Context, trainerID primitive.ObjectID, since time.Time) ([]domain.Payment, error) {
	filter := bson.M{
		"trainerId": trainerID,
		"date":      bson.M{"$gte": since},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Payment](ctx, cursor)
}

func (r *mongoPaymentRepository) UpdateStatus(ctx context.Context, id, trainerID primitive.ObjectID, status domain.PaymentStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, ownedBy(id, trainerID), update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPaymentRepository) Delete(ctx context.Context, id, trainerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, ownedBy(id, trainerID))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePaymentIndexes creates necessary indexes for the payments collection.
func EnsurePaymentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
