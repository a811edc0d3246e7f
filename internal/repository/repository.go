package repository

import (
	"context"
	"time"

	"fitpro/manager/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrDuplicateKey  = RepositoryError("duplicate key")
	ErrUpdateFailed  = RepositoryError("update failed")
	ErrInvalidRecord = RepositoryError("invalid record")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository reads and writes operator profiles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// ClientRepository scopes every read by the owning trainer.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, trainerID primitive.ObjectID) (*domain.Client, error)
	ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Client, error)
	CountByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int, error)
	CreatedSince(ctx context.Context, trainerID primitive.ObjectID, since time.Time) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id, trainerID primitive.ObjectID) error
	AppendMeasurement(ctx context.Context, id, trainerID primitive.ObjectID, m domain.Measurement) error
	AddWorkout(ctx context.Context, id, trainerID, workoutID primitive.ObjectID) error
	RemoveWorkout(ctx context.Context, id, trainerID, workoutID primitive.ObjectID) error
	AddPayment(ctx context.Context, id, trainerID, paymentID primitive.ObjectID) error
	RemovePayment(ctx context.Context, id, trainerID, paymentID primitive.ObjectID) error
}

// ExerciseRepository manages the global exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository scopes every read by the owning trainer.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, trainerID primitive.ObjectID) (*domain.Workout, error)
	ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Workout, error)
	CountByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id, trainerID primitive.ObjectID) error
	AddClient(ctx context.Context, id, trainerID, clientID primitive.ObjectID) error
	RemoveClient(ctx context.Context, id, trainerID, clientID primitive.ObjectID) error
}

// PaymentRepository scopes every read by the owning trainer.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, trainerID primitive.ObjectID) (*domain.Payment, error)
	// ListByTrainer joins the client display name onto every row.
	ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.PaymentWithClient, error)
	Since(ctx context.Context, trainerID primitive.ObjectID, since time.Time) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, id, trainerID primitive.ObjectID, status domain.PaymentStatus) error
	Delete(ctx context.Context, id, trainerID primitive.ObjectID) error
}

// PlanRepository manages subscription tiers.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Plan, error)
	List(ctx context.Context) ([]domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	// ClearDefault unsets isDefault on every plan except keep.
	ClearDefault(ctx context.Context, keep primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UploadRepository stores metadata for objects written to object storage.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	LatestByOwner(ctx context.Context, ownerID primitive.ObjectID, kind domain.UploadKind) (*domain.Upload, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Store bundles every repository so callers can swap the backing driver.
type Store struct {
	Users     UserRepository
	Clients   ClientRepository
	Exercises ExerciseRepository
	Workouts  WorkoutRepository
	Payments  PaymentRepository
	Plans     PlanRepository
	Uploads   UploadRepository
}
