// internal/repository/mongo/plan_repo.go
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

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new Plan repository backed by MongoDB.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.Slug == "" || plan.Name == "" {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoPlanRepository) GetBySlug(ctx context.Context, slug string) (*domain.Plan, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoPlanRepository) findOne(ctx context.Context, filter bson.M) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// List returns plans ordered by price, cheapest first.
func (r *mongoPlanRepository) List(ctx context.Context) ([]domain.Plan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Plan](ctx, cursor)
}

func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	if plan.ID == primitive.NilObjectID {
		return repository.ErrInvalidRecord
	}

	plan.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"name":         plan.Name,
			"price":        plan.Price,
			"frequency":    plan.Frequency,
			"features":     plan.Features,
			"maxClients":   plan.MaxClients,
			"sessionQuota": plan.SessionQuota,
			"durationDays": plan.DurationDays,
			"isDefault":    plan.IsDefault,
			"updatedAt":    plan.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ClearDefault unsets the default flag on every plan but keep.
func (r *mongoPlanRepository) ClearDefault(ctx context.Context, keep primitive.ObjectID) error {
	filter := bson.M{
		"isDefault": true,
		"_id":       bson.M{"$ne": keep},
	}
	update := bson.M{"$set": bson.M{"isDefault": false, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

func (r *mongoPlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes for the plans collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
